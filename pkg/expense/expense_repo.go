package expense

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	List(ctx context.Context) ([]Expense, error)
	Store(ctx context.Context, expense Expense) (int64, error)
	Update(ctx context.Context, expense Expense) (bool, error)
	// Delete is idempotent: removing an absent id reports false without
	// an error.
	Delete(ctx context.Context, id int64) (bool, error)
	// SumForCategoryAndMonth totals the amounts of the category's
	// expenses whose date starts with monthKey (YYYY-MM). An empty match
	// set sums to zero.
	SumForCategoryAndMonth(ctx context.Context, categoryID int64, monthKey string) (decimal.Decimal, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) List(ctx context.Context) ([]Expense, error) {
	query := `SELECT id, label, amount, date, category_id FROM expenses ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var expense Expense
		if err := rows.Scan(
			&expense.ID,
			&expense.Label,
			&expense.Amount,
			&expense.Date,
			&expense.CategoryID,
		); err != nil {
			err := fmt.Errorf("could not scan expense: %w", err)
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	return expenses, nil
}

func (r *RepoImpl) Store(ctx context.Context, expense Expense) (int64, error) {
	query := `INSERT INTO expenses (label, amount, date, category_id) VALUES (?, ?, ?, ?)`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return 0, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		expense.Label,
		expense.Amount,
		expense.Date,
		expense.CategoryID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrCategoryNotFound
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

func (r *RepoImpl) Update(ctx context.Context, expense Expense) (bool, error) {
	query := `UPDATE expenses SET
				label = ?,
				amount = ?,
				date = ?,
				category_id = ?
			WHERE id = ?`
	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		expense.Label,
		expense.Amount,
		expense.Date,
		expense.CategoryID,
		expense.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrCategoryNotFound
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

func (r *RepoImpl) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM expenses WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		err := fmt.Errorf("could not delete expense: %w", err)
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

func (r *RepoImpl) SumForCategoryAndMonth(ctx context.Context, categoryID int64, monthKey string) (decimal.Decimal, error) {
	// Amounts are summed in Go with decimal arithmetic instead of SQL SUM
	// to avoid floating point rounding.
	query := `SELECT amount FROM expenses WHERE category_id = ? AND substr(date, 1, 7) = ?`
	rows, err := r.db.QueryContext(ctx, query, categoryID, monthKey)
	if err != nil {
		err := fmt.Errorf("could not query month amounts: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			err := fmt.Errorf("could not scan amount: %w", err)
			log.Error(err)
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}

	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}

	return total, nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
