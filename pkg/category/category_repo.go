package category

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	List(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id int64) (Category, error)
	// FindByName matches the name exactly and case-sensitively.
	FindByName(ctx context.Context, name string) (Category, error)
	// FindOrCreateByName resolves a name to a category id, creating the
	// category (no color, no limit) when it does not exist yet. The
	// lookup-or-create is a single atomic upsert keyed by name.
	FindOrCreateByName(ctx context.Context, name string) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Store(ctx context.Context, category Category) (int64, error)
	Update(ctx context.Context, category Category) (bool, error)
	// Delete refuses to remove a category that still has referencing
	// expenses. The dependency check and the delete run in one
	// transaction so a concurrent insert cannot slip between them.
	Delete(ctx context.Context, id int64) (DeleteResult, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) List(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name, color, monthly_limit FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return categories, nil
}

func (r *RepoImpl) FindByID(ctx context.Context, id int64) (Category, error) {
	query := `SELECT id, name, color, monthly_limit FROM categories WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.findOne(row)
}

func (r *RepoImpl) FindByName(ctx context.Context, name string) (Category, error) {
	query := `SELECT id, name, color, monthly_limit FROM categories WHERE name = ?`
	row := r.db.QueryRowContext(ctx, query, name)
	return r.findOne(row)
}

func (r *RepoImpl) findOne(row *sql.Row) (Category, error) {
	category, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return Category{}, ErrNotFound
	}
	if err != nil {
		log.Error(err)
		return Category{}, err
	}
	return category, nil
}

func (r *RepoImpl) FindOrCreateByName(ctx context.Context, name string) (int64, error) {
	// The no-op update makes the insert return the existing row's id
	// instead of failing on the unique name index.
	query := `INSERT INTO categories (name) VALUES (?)
			ON CONFLICT (name) DO UPDATE SET name = excluded.name
			RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		err := fmt.Errorf("could not upsert category %q: %w", name, err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepoImpl) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT COUNT(*) FROM categories WHERE id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		err := fmt.Errorf("could not check category existence: %w", err)
		log.Error(err)
		return false, err
	}
	return count > 0, nil
}

func (r *RepoImpl) Store(ctx context.Context, category Category) (int64, error) {
	query := `INSERT INTO categories (name, color, monthly_limit) VALUES (?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		category.Name,
		colorParam(category.Color),
		category.MonthlyLimit,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrNameTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}

	return lastInsertID, nil
}

func (r *RepoImpl) Update(ctx context.Context, category Category) (bool, error) {
	query := `UPDATE categories SET
				name = ?,
				color = ?,
				monthly_limit = ?
			WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		category.Name,
		colorParam(category.Color),
		category.MonthlyLimit,
		category.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrNameTaken
		}
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return DeleteResult{}, err
	}
	defer tx.Rollback()

	var count int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE category_id = ?`
	if err := tx.QueryRowContext(ctx, countQuery, id).Scan(&count); err != nil {
		err := fmt.Errorf("could not count expenses for category: %w", err)
		log.Error(err)
		return DeleteResult{}, err
	}
	if count > 0 {
		return DeleteResult{Deleted: false, Reason: ReasonHasExpenses, ExpenseCount: count}, nil
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		err := fmt.Errorf("could not delete category: %w", err)
		log.Error(err)
		return DeleteResult{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return DeleteResult{}, err
	}
	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit transaction: %w", err)
		log.Error(err)
		return DeleteResult{}, err
	}

	return DeleteResult{Deleted: rowsAffected == 1}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var category Category
	var color sql.NullString
	if err := row.Scan(&category.ID, &category.Name, &color, &category.MonthlyLimit); err != nil {
		return Category{}, err
	}
	category.Color = color.String
	return category, nil
}

func colorParam(color string) any {
	if color == "" {
		return nil
	}
	return color
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
