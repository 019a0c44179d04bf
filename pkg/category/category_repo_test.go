package category

import (
	"context"
	"database/sql"
	"testing"

	"github.com/moneta-app/moneta/internal/test_utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (context.Context, *sql.DB, *RepoImpl) {
	t.Helper()
	db := test_utils.SetupTestDB(t)
	return context.Background(), db, NewRepo(db)
}

func insertExpense(t *testing.T, db *sql.DB, label string, categoryId int64) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO expenses (label, amount, date, category_id) VALUES (?, ?, ?, ?)`,
		label, "10", "2024-01-05", categoryId,
	)
	require.NoError(t, err)
}

func TestRepoImpl_StoreAndList(t *testing.T) {
	ctx, _, repo := setupTestRepo(t)

	// when
	limit := decimal.NewNullDecimal(decimal.RequireFromString("150"))
	id, err := repo.Store(ctx, Category{Name: "Food", Color: "#ff0000", MonthlyLimit: limit})

	// then
	require.NoError(t, err)
	assert.NotZero(t, id)

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Food", categories[0].Name)
	assert.Equal(t, "#ff0000", categories[0].Color)
	require.True(t, categories[0].MonthlyLimit.Valid)
	assert.True(t, categories[0].MonthlyLimit.Decimal.Equal(limit.Decimal))
}

func TestRepoImpl_Store_DuplicateName(t *testing.T) {
	ctx, _, repo := setupTestRepo(t)
	_, err := repo.Store(ctx, Category{Name: "Food"})
	require.NoError(t, err)

	_, err = repo.Store(ctx, Category{Name: "Food"})

	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestRepoImpl_FindByName(t *testing.T) {
	ctx, _, repo := setupTestRepo(t)
	id, err := repo.Store(ctx, Category{Name: "Food"})
	require.NoError(t, err)

	t.Run("finds an exact match", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "Food")

		require.NoError(t, err)
		assert.Equal(t, id, found.ID)
		assert.False(t, found.MonthlyLimit.Valid)
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "food")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepoImpl_FindOrCreateByName(t *testing.T) {
	ctx, _, repo := setupTestRepo(t)

	// when resolving the same name twice
	first, err := repo.FindOrCreateByName(ctx, "Food")
	require.NoError(t, err)
	second, err := repo.FindOrCreateByName(ctx, "Food")
	require.NoError(t, err)

	// then only one category exists
	assert.Equal(t, first, second)
	categories, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	t.Run("resolves an existing category created directly", func(t *testing.T) {
		id, err := repo.Store(ctx, Category{Name: "Transport"})
		require.NoError(t, err)

		resolved, err := repo.FindOrCreateByName(ctx, "Transport")

		require.NoError(t, err)
		assert.Equal(t, id, resolved)
	})
}

func TestRepoImpl_Update(t *testing.T) {
	ctx, _, repo := setupTestRepo(t)
	id, err := repo.Store(ctx, Category{Name: "Food"})
	require.NoError(t, err)

	t.Run("replaces name, color, and limit", func(t *testing.T) {
		updated, err := repo.Update(ctx, Category{
			ID:           id,
			Name:         "Groceries",
			MonthlyLimit: decimal.NewNullDecimal(decimal.NewFromInt(200)),
		})

		require.NoError(t, err)
		assert.True(t, updated)

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", found.Name)
		assert.Empty(t, found.Color)
		require.True(t, found.MonthlyLimit.Valid)
		assert.True(t, found.MonthlyLimit.Decimal.Equal(decimal.NewFromInt(200)))
	})

	t.Run("clearing the limit persists as no limit", func(t *testing.T) {
		updated, err := repo.Update(ctx, Category{ID: id, Name: "Groceries"})

		require.NoError(t, err)
		assert.True(t, updated)

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, found.MonthlyLimit.Valid)
	})

	t.Run("reports false for an unknown id", func(t *testing.T) {
		updated, err := repo.Update(ctx, Category{ID: 99, Name: "Ghost"})

		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestRepoImpl_Delete(t *testing.T) {
	t.Run("refuses to delete a category with expenses", func(t *testing.T) {
		// given
		ctx, db, repo := setupTestRepo(t)
		id, err := repo.Store(ctx, Category{Name: "Food"})
		require.NoError(t, err)
		insertExpense(t, db, "Coffee", id)
		insertExpense(t, db, "Lunch", id)

		// when
		result, err := repo.Delete(ctx, id)

		// then
		require.NoError(t, err)
		assert.False(t, result.Deleted)
		assert.Equal(t, ReasonHasExpenses, result.Reason)
		assert.Equal(t, 2, result.ExpenseCount)

		// and the category is still there
		_, err = repo.FindByID(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("deletes a category without expenses", func(t *testing.T) {
		ctx, _, repo := setupTestRepo(t)
		id, err := repo.Store(ctx, Category{Name: "Food"})
		require.NoError(t, err)

		result, err := repo.Delete(ctx, id)

		require.NoError(t, err)
		assert.True(t, result.Deleted)

		categories, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("reports not deleted for an unknown id", func(t *testing.T) {
		ctx, _, repo := setupTestRepo(t)

		result, err := repo.Delete(ctx, 99)

		require.NoError(t, err)
		assert.False(t, result.Deleted)
		assert.Empty(t, result.Reason)
	})
}
