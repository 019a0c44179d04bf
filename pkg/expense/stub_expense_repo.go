package expense

import (
	"context"

	"github.com/shopspring/decimal"
)

type StubRepo struct {
	nextId int64
	data   map[int64]Expense
	// StoreErr, when set, makes Store fail. Used to exercise per-row
	// isolation in import tests.
	StoreErr error
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[int64]Expense{}}
}

func (s *StubRepo) List(ctx context.Context) ([]Expense, error) {
	expenses := make([]Expense, 0, len(s.data))
	for _, expense := range s.data {
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

func (s *StubRepo) Store(ctx context.Context, expense Expense) (int64, error) {
	if s.StoreErr != nil {
		return 0, s.StoreErr
	}
	s.nextId++
	expense.ID = s.nextId
	s.data[expense.ID] = expense
	return expense.ID, nil
}

func (s *StubRepo) Update(ctx context.Context, expense Expense) (bool, error) {
	if _, ok := s.data[expense.ID]; !ok {
		return false, nil
	}
	s.data[expense.ID] = expense
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) SumForCategoryAndMonth(ctx context.Context, categoryID int64, monthKey string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, expense := range s.data {
		if expense.CategoryID == categoryID && MonthKey(expense.Date) == monthKey {
			total = total.Add(expense.Amount)
		}
	}
	return total, nil
}

func (s *StubRepo) Cleanup() {
	s.nextId = 0
	s.data = map[int64]Expense{}
	s.StoreErr = nil
}
