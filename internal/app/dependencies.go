package app

import (
	"database/sql"

	"github.com/moneta-app/moneta/internal/config"
	"github.com/moneta-app/moneta/internal/event_bus"
	"github.com/moneta-app/moneta/internal/utils"
	"github.com/moneta-app/moneta/pkg/budget"
	"github.com/moneta-app/moneta/pkg/category"
	"github.com/moneta-app/moneta/pkg/expense"
	"github.com/moneta-app/moneta/pkg/importer"
	"github.com/moneta-app/moneta/pkg/notification"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	DB  *sql.DB
	Bus *event_bus.EventBus

	CategoryRepo    category.Repo
	CategoryService category.Service
	CategoryHandler *category.Handler

	ExpenseRepo    expense.Repo
	ExpenseService expense.Service
	ExpenseHandler *expense.Handler

	BudgetEvaluator *budget.Evaluator

	ImportService importer.Service
	ImportHandler *importer.Handler

	Notifiers []notification.Notifier

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{DB: db}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.CategoryRepo = category.NewRepo(db)
	deps.ExpenseRepo = expense.NewRepo(db)

	deps.BudgetEvaluator = budget.NewEvaluator(deps.CategoryRepo, deps.ExpenseRepo, deps.Bus)

	deps.ExpenseService = expense.NewService(deps.ExpenseRepo, deps.CategoryRepo, deps.BudgetEvaluator)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.CategoryService = category.NewService(deps.CategoryRepo, deps.ExpenseRepo)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.ImportService = importer.NewService(deps.CategoryRepo, deps.ExpenseRepo, deps.Bus, deps.Clock)
	deps.ImportHandler = importer.NewHandler(deps.ImportService)

	deps.Notifiers = []notification.Notifier{notification.NewLogNotifier()}
	if cfg.Notifications.AMQP.Enabled {
		amqpNotifier, err := notification.NewAMQPNotifier(
			cfg.Notifications.AMQP.URL,
			cfg.Notifications.AMQP.Exchange,
			cfg.Notifications.AMQP.Queue,
		)
		if err != nil {
			return nil, err
		}
		log.Infof("AMQP notifications enabled (exchange %s, queue %s)",
			cfg.Notifications.AMQP.Exchange, cfg.Notifications.AMQP.Queue)
		deps.Notifiers = append(deps.Notifiers, amqpNotifier)
	}
	notification.RegisterSubscribers(deps.Bus, deps.Notifiers...)

	return deps, nil
}
