package category

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("category not found")
	ErrNameTaken   = errors.New("category name already in use")
	ErrNameMissing = errors.New("category name is required")
)

type Category struct {
	ID   int64
	Name string
	// Color is a cosmetic tag chosen by the user. Empty means none.
	Color string
	// MonthlyLimit is the optional spending ceiling for a single calendar
	// month. An invalid NullDecimal means no limit is configured.
	MonthlyLimit decimal.NullDecimal
}

// ReasonHasExpenses marks a delete refused because expenses still
// reference the category.
const ReasonHasExpenses = "HAS_EXPENSES"

// DeleteResult is the structured outcome of a category deletion. A refused
// delete is not an error: callers branch on Deleted and Reason.
type DeleteResult struct {
	Deleted bool
	Reason  string
	// ExpenseCount is the number of expenses still referencing the
	// category when the delete was refused.
	ExpenseCount int
}
