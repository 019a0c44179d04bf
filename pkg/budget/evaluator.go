package budget

import (
	"context"
	"errors"

	"github.com/moneta-app/moneta/internal/event_bus"
	"github.com/moneta-app/moneta/pkg/category"
	"github.com/moneta-app/moneta/pkg/expense"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CategoryFinder resolves the category of a freshly created expense.
type CategoryFinder interface {
	FindByID(ctx context.Context, id int64) (category.Category, error)
}

// MonthSummer computes a category's month-to-date total.
type MonthSummer interface {
	SumForCategoryAndMonth(ctx context.Context, categoryID int64, monthKey string) (decimal.Decimal, error)
}

// Evaluator checks newly created expenses against their category's monthly
// limit and publishes a BudgetExceeded event when the month total goes over
// it. The check is purely observational: it never fails the write that
// triggered it, so every error here is logged and swallowed.
type Evaluator struct {
	categories CategoryFinder
	expenses   MonthSummer
	bus        *event_bus.EventBus
}

func NewEvaluator(categories CategoryFinder, expenses MonthSummer, bus *event_bus.EventBus) *Evaluator {
	return &Evaluator{categories: categories, expenses: expenses, bus: bus}
}

// ExpenseCreated evaluates the monthly limit of the expense's category.
// The expense must already be persisted so the month total includes it.
// Equality to the limit is not a breach, only strictly greater totals are.
func (e *Evaluator) ExpenseCreated(ctx context.Context, exp expense.Expense) {
	cat, err := e.categories.FindByID(ctx, exp.CategoryID)
	if err != nil {
		if !errors.Is(err, category.ErrNotFound) {
			log.Errorf("budget check: could not load category %d: %v", exp.CategoryID, err)
		}
		return
	}
	if !cat.MonthlyLimit.Valid {
		return
	}

	monthKey := expense.MonthKey(exp.Date)
	total, err := e.expenses.SumForCategoryAndMonth(ctx, exp.CategoryID, monthKey)
	if err != nil {
		log.Errorf("budget check: could not sum month %s for category %d: %v", monthKey, exp.CategoryID, err)
		return
	}

	limit := cat.MonthlyLimit.Decimal
	if !total.GreaterThan(limit) {
		return
	}

	log.Infof("budget exceeded for category %q: %s > %s in %s", cat.Name, total, limit, monthKey)
	event := event_bus.NewEvent(ctx, event_bus.BudgetExceededEvent, event_bus.BudgetExceeded{
		CategoryName: cat.Name,
		Limit:        limit,
		Total:        total,
		MonthKey:     monthKey,
	})
	if err := e.bus.Publish(event); err != nil {
		log.Errorf("budget check: could not publish event: %v", err)
	}
}
