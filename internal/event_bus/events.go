package event_bus

import "github.com/shopspring/decimal"

const (
	// BudgetExceededEvent is published after an expense pushes a category's
	// month-to-date total over its monthly limit. It is advisory only and
	// never affects the write that triggered it.
	BudgetExceededEvent EventType = "budget.exceeded"

	// ExpensesImportedEvent is published when a CSV import inserted at
	// least one expense.
	ExpensesImportedEvent EventType = "expenses.imported"

	// ImportFailedEvent is published when a CSV import fails before row
	// processing could complete (for example an unreadable source).
	ImportFailedEvent EventType = "expenses.import_failed"
)

type BudgetExceeded struct {
	CategoryName string
	Limit        decimal.Decimal
	Total        decimal.Decimal
	// MonthKey is the YYYY-MM prefix of the triggering expense date.
	MonthKey string
}

type ExpensesImported struct {
	Count int
}

type ImportFailed struct {
	Reason string
}
