package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]Expense, error)
	Create(ctx context.Context, expense Expense) (Expense, error)
	Update(ctx context.Context, expense Expense) (Expense, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SumForCategoryAndMonth(ctx context.Context, categoryID int64, monthKey string) (decimal.Decimal, error)
}

// CategoryChecker verifies that a referenced category exists before an
// expense is written.
type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// BudgetChecker is invoked synchronously right after an expense has been
// persisted. It is advisory: whatever it finds never affects the write.
type BudgetChecker interface {
	ExpenseCreated(ctx context.Context, expense Expense)
}

type ServiceImpl struct {
	repo       Repo
	categories CategoryChecker
	budget     BudgetChecker
}

func NewService(repo Repo, categories CategoryChecker, budget BudgetChecker) *ServiceImpl {
	return &ServiceImpl{repo: repo, categories: categories, budget: budget}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Expense, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	if err := s.validate(ctx, expense); err != nil {
		return Expense{}, err
	}

	id, err := s.repo.Store(ctx, expense)
	if err != nil {
		return Expense{}, err
	}
	expense.ID = id

	// The expense is already persisted, so the month total seen by the
	// budget check includes it.
	if s.budget != nil {
		s.budget.ExpenseCreated(ctx, expense)
	}

	return expense, nil
}

func (s *ServiceImpl) Update(ctx context.Context, expense Expense) (Expense, error) {
	if err := s.validate(ctx, expense); err != nil {
		return Expense{}, err
	}

	updated, err := s.repo.Update(ctx, expense)
	if err != nil {
		return Expense{}, err
	}
	if !updated {
		log.Warnf("expense not updated, probably because it does not exist (%d)", expense.ID)
		return Expense{}, ErrNotFound
	}
	return expense, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) SumForCategoryAndMonth(ctx context.Context, categoryID int64, monthKey string) (decimal.Decimal, error) {
	return s.repo.SumForCategoryAndMonth(ctx, categoryID, monthKey)
}

// validate surfaces malformed input before any store mutation is attempted.
func (s *ServiceImpl) validate(ctx context.Context, expense Expense) error {
	if strings.TrimSpace(expense.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrInvalid)
	}
	if _, err := time.Parse(DateLayout, expense.Date); err != nil {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD form", ErrInvalid)
	}

	exists, err := s.categories.Exists(ctx, expense.CategoryID)
	if err != nil {
		return fmt.Errorf("could not check category %d: %w", expense.CategoryID, err)
	}
	if !exists {
		return ErrCategoryNotFound
	}
	return nil
}
