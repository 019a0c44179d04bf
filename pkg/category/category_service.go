package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/moneta-app/moneta/pkg/expense"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, name string) (Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, id int64) (DeleteResult, error)
}

// ExpenseLister provides the expenses consulted by the deletion pre-check.
type ExpenseLister interface {
	List(ctx context.Context) ([]expense.Expense, error)
}

type ServiceImpl struct {
	repo     Repo
	expenses ExpenseLister
}

func NewService(repo Repo, expenses ExpenseLister) *ServiceImpl {
	return &ServiceImpl{repo: repo, expenses: expenses}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Create(ctx context.Context, name string) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, ErrNameMissing
	}

	category := Category{Name: name}
	id, err := s.repo.Store(ctx, category)
	if err != nil {
		return Category{}, err
	}
	category.ID = id

	return category, nil
}

func (s *ServiceImpl) Update(ctx context.Context, category Category) (Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return Category{}, ErrNameMissing
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return Category{}, err
	}
	if !updated {
		log.Warnf("category not updated, probably because it does not exist (%d)", category.ID)
		return Category{}, ErrNotFound
	}
	return category, nil
}

// Delete removes a category unless expenses still reference it. The refusal
// is reported as a DeleteResult, not an error. The pre-check over the
// expense list gives callers the dependent count; the repo re-checks inside
// its own transaction and stays the authoritative enforcement point.
func (s *ServiceImpl) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	all, err := s.expenses.List(ctx)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("could not load expenses for deletion check: %w", err)
	}
	if !expense.CanDeleteCategory(id, all) {
		return DeleteResult{
			Deleted:      false,
			Reason:       ReasonHasExpenses,
			ExpenseCount: expense.CountForCategory(all, id),
		}, nil
	}

	return s.repo.Delete(ctx, id)
}
