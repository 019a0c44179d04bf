package expense

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

func insertCategory(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	result, err := db.Exec(`INSERT INTO categories (name) VALUES (?)`, name)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestRepoImpl_StoreAndList(t *testing.T) {
	// given
	ctx, db, repo := setupTestRepo(t)
	categoryId := insertCategory(t, db, "Food")

	// when
	id, err := repo.Store(ctx, Expense{
		Label:      "Coffee",
		Amount:     decimal.RequireFromString("3.50"),
		Date:       "2024-01-05",
		CategoryID: categoryId,
	})

	// then
	require.NoError(t, err)
	assert.NotZero(t, id)

	expenses, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Coffee", expenses[0].Label)
	assert.True(t, expenses[0].Amount.Equal(decimal.RequireFromString("3.50")))
	assert.Equal(t, "2024-01-05", expenses[0].Date)
	assert.Equal(t, categoryId, expenses[0].CategoryID)
}

func TestRepoImpl_Store_UnknownCategory(t *testing.T) {
	ctx, _, repo := setupTestRepo(t)

	_, err := repo.Store(ctx, Expense{
		Label:      "Coffee",
		Amount:     decimal.NewFromFloat(3.5),
		Date:       "2024-01-05",
		CategoryID: 42,
	})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestRepoImpl_Update(t *testing.T) {
	ctx, db, repo := setupTestRepo(t)
	categoryId := insertCategory(t, db, "Food")
	id, err := repo.Store(ctx, Expense{
		Label: "Coffee", Amount: decimal.NewFromFloat(3.5), Date: "2024-01-05", CategoryID: categoryId,
	})
	require.NoError(t, err)

	t.Run("updates all fields by id", func(t *testing.T) {
		updated, err := repo.Update(ctx, Expense{
			ID:         id,
			Label:      "Espresso",
			Amount:     decimal.NewFromFloat(2.8),
			Date:       "2024-01-06",
			CategoryID: categoryId,
		})

		require.NoError(t, err)
		assert.True(t, updated)

		expenses, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Espresso", expenses[0].Label)
		assert.Equal(t, "2024-01-06", expenses[0].Date)
	})

	t.Run("reports false for an unknown id", func(t *testing.T) {
		updated, err := repo.Update(ctx, Expense{
			ID: 99, Label: "Ghost", Amount: decimal.NewFromInt(1), Date: "2024-01-06", CategoryID: categoryId,
		})

		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestRepoImpl_Delete(t *testing.T) {
	ctx, db, repo := setupTestRepo(t)
	categoryId := insertCategory(t, db, "Food")
	id, err := repo.Store(ctx, Expense{
		Label: "Coffee", Amount: decimal.NewFromFloat(3.5), Date: "2024-01-05", CategoryID: categoryId,
	})
	require.NoError(t, err)

	// when
	deleted, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	// then deleting again is a no-op, not an error
	deleted, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepoImpl_SumForCategoryAndMonth(t *testing.T) {
	ctx, db, repo := setupTestRepo(t)
	foodId := insertCategory(t, db, "Food")
	transportId := insertCategory(t, db, "Transport")

	t.Run("empty match set sums to zero", func(t *testing.T) {
		total, err := repo.SumForCategoryAndMonth(ctx, foodId, "2024-01")

		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("sums only the matching category and month prefix", func(t *testing.T) {
		// given expenses on both ends of the month, another month, and
		// another category
		store := func(label, amount, date string, categoryId int64) {
			_, err := repo.Store(ctx, Expense{
				Label: label, Amount: decimal.RequireFromString(amount), Date: date, CategoryID: categoryId,
			})
			require.NoError(t, err)
		}
		store("First", "3.50", "2024-01-01", foodId)
		store("Last", "12.25", "2024-01-31", foodId)
		store("February", "100", "2024-02-01", foodId)
		store("Bus", "2", "2024-01-15", transportId)

		// when
		total, err := repo.SumForCategoryAndMonth(ctx, foodId, "2024-01")

		// then
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("15.75")), "got %s", total)
	})

	t.Run("adding an expense increases the sum by exactly its amount", func(t *testing.T) {
		before, err := repo.SumForCategoryAndMonth(ctx, foodId, "2024-01")
		require.NoError(t, err)

		_, err = repo.Store(ctx, Expense{
			Label: "Snack", Amount: decimal.RequireFromString("0.05"), Date: "2024-01-20", CategoryID: foodId,
		})
		require.NoError(t, err)

		after, err := repo.SumForCategoryAndMonth(ctx, foodId, "2024-01")
		require.NoError(t, err)
		assert.True(t, after.Sub(before).Equal(decimal.RequireFromString("0.05")), "got %s", after.Sub(before))
	})
}
