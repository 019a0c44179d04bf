package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/moneta-app/moneta/internal/event_bus"
	"github.com/moneta-app/moneta/internal/utils"
	"github.com/moneta-app/moneta/pkg/expense"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CategoryResolver turns a free-text category name into a category id,
// creating the category when no exact match exists.
type CategoryResolver interface {
	FindOrCreateByName(ctx context.Context, name string) (int64, error)
}

type ExpenseStore interface {
	Store(ctx context.Context, expense expense.Expense) (int64, error)
}

// Result aggregates one import run. Items holds the inserted expenses in
// row order.
type Result struct {
	Imported int
	Items    []expense.Expense
}

type Service interface {
	// Import ingests CSV content. Bad rows are skipped and never abort
	// the batch; only a failure to read the source fails the whole run.
	Import(ctx context.Context, source io.Reader) (Result, error)
}

type ServiceImpl struct {
	categories CategoryResolver
	expenses   ExpenseStore
	bus        *event_bus.EventBus
	clock      utils.Clock
}

func NewService(categories CategoryResolver, expenses ExpenseStore, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{categories: categories, expenses: expenses, bus: bus, clock: clock}
}

func (s *ServiceImpl) Import(ctx context.Context, source io.Reader) (Result, error) {
	logger := log.WithField("importId", uuid.NewString())
	started := s.clock.Now()

	content, err := io.ReadAll(source)
	if err != nil {
		err := fmt.Errorf("could not read import source: %w", err)
		logger.Error(err)
		s.publish(ctx, event_bus.ImportFailedEvent, event_bus.ImportFailed{Reason: err.Error()})
		return Result{}, err
	}

	result := s.importRows(ctx, string(content), logger)

	if result.Imported > 0 {
		s.publish(ctx, event_bus.ExpensesImportedEvent, event_bus.ExpensesImported{Count: result.Imported})
	}
	logger.Infof("CSV import finished: %d expenses imported in %s", result.Imported, s.clock.Now().Sub(started))

	return result, nil
}

func (s *ServiceImpl) importRows(ctx context.Context, content string, logger *log.Entry) Result {
	lines := make([]string, 0)
	for _, line := range strings.Split(content, "\n") {
		// TrimSpace also drops the \r of CRLF line endings.
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	// Header only, or nothing at all. Not an error.
	if len(lines) <= 1 {
		logger.Debug("CSV is empty or contains only a header")
		return Result{Imported: 0, Items: []expense.Expense{}}
	}

	// resolved caches name lookups for this run only, so a name repeated
	// across rows maps to one category even before the row's upsert.
	resolved := make(map[string]int64)
	items := make([]expense.Expense, 0, len(lines)-1)

	for _, line := range lines[1:] {
		// Separator is detected per row: semicolon wins over comma.
		sep := ","
		if strings.Contains(line, ";") {
			sep = ";"
		}
		parts := strings.Split(line, sep)
		if len(parts) < 4 {
			logger.Warnf("skipping row with too few fields: %q", line)
			continue
		}

		label := strings.TrimSpace(parts[0])
		amountText := strings.TrimSpace(parts[1])
		date := strings.TrimSpace(parts[2])
		categoryName := strings.TrimSpace(parts[3])

		// Amounts may use a comma as the decimal separator. Only the first
		// comma is rewritten; anything beyond that (thousands separators)
		// fails to parse and skips the row.
		amount, err := decimal.NewFromString(strings.Replace(amountText, ",", ".", 1))
		if label == "" || date == "" || categoryName == "" || err != nil {
			logger.Warnf("skipping invalid row: %q", line)
			continue
		}

		categoryId, ok := resolved[categoryName]
		if !ok {
			categoryId, err = s.categories.FindOrCreateByName(ctx, categoryName)
			if err != nil {
				logger.Errorf("could not resolve category %q: %v", categoryName, err)
				continue
			}
			resolved[categoryName] = categoryId
		}

		item := expense.Expense{
			Label:      label,
			Amount:     amount,
			Date:       date,
			CategoryID: categoryId,
		}
		id, err := s.expenses.Store(ctx, item)
		if err != nil {
			logger.Errorf("could not insert expense %q: %v", label, err)
			continue
		}
		item.ID = id
		items = append(items, item)
	}

	return Result{Imported: len(items), Items: items}
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("could not publish %s event: %v", eventType, err)
	}
}
