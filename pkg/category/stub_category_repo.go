package category

import (
	"context"
)

type StubRepo struct {
	nextId int64
	data   map[int64]Category
	// ExpenseCounts simulates referencing expenses per category id for the
	// transactional deletion check.
	ExpenseCounts map[int64]int
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		data:          map[int64]Category{},
		ExpenseCounts: map[int64]int{},
	}
}

func (s *StubRepo) List(ctx context.Context) ([]Category, error) {
	categories := make([]Category, 0, len(s.data))
	for _, category := range s.data {
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *StubRepo) FindByID(ctx context.Context, id int64) (Category, error) {
	category, ok := s.data[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return category, nil
}

func (s *StubRepo) FindByName(ctx context.Context, name string) (Category, error) {
	for _, category := range s.data {
		if category.Name == name {
			return category, nil
		}
	}
	return Category{}, ErrNotFound
}

func (s *StubRepo) FindOrCreateByName(ctx context.Context, name string) (int64, error) {
	if existing, err := s.FindByName(ctx, name); err == nil {
		return existing.ID, nil
	}
	return s.Store(ctx, Category{Name: name})
}

func (s *StubRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := s.data[id]
	return ok, nil
}

func (s *StubRepo) Store(ctx context.Context, category Category) (int64, error) {
	for _, existing := range s.data {
		if existing.Name == category.Name {
			return 0, ErrNameTaken
		}
	}
	s.nextId++
	category.ID = s.nextId
	s.data[category.ID] = category
	return category.ID, nil
}

func (s *StubRepo) Update(ctx context.Context, category Category) (bool, error) {
	if _, ok := s.data[category.ID]; !ok {
		return false, nil
	}
	s.data[category.ID] = category
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	if count := s.ExpenseCounts[id]; count > 0 {
		return DeleteResult{Deleted: false, Reason: ReasonHasExpenses, ExpenseCount: count}, nil
	}
	if _, ok := s.data[id]; !ok {
		return DeleteResult{Deleted: false}, nil
	}
	delete(s.data, id)
	return DeleteResult{Deleted: true}, nil
}

func (s *StubRepo) Cleanup() {
	s.nextId = 0
	s.data = map[int64]Category{}
	s.ExpenseCounts = map[int64]int{}
}
