package expense

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("expense not found")
	ErrCategoryNotFound = errors.New("expense category not found")
	ErrInvalid          = errors.New("invalid expense")
)

// DateLayout is the stored calendar date form.
const DateLayout = "2006-01-02"

type Expense struct {
	ID    int64
	Label string
	// Amount is the monetary value. The sign is not restricted.
	Amount decimal.Decimal
	// Date is the calendar date as a YYYY-MM-DD string. Monthly grouping
	// uses its YYYY-MM prefix, never calendar arithmetic.
	Date       string
	CategoryID int64
}

// MonthKey returns the YYYY-MM prefix of a date string.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// CountForCategory returns how many expenses in the collection reference
// the given category.
func CountForCategory(expenses []Expense, categoryID int64) int {
	count := 0
	for _, e := range expenses {
		if e.CategoryID == categoryID {
			count++
		}
	}
	return count
}

// CanDeleteCategory reports whether the category has no referencing expense
// in the collection and may therefore be removed.
func CanDeleteCategory(categoryID int64, expenses []Expense) bool {
	for _, e := range expenses {
		if e.CategoryID == categoryID {
			return false
		}
	}
	return true
}
