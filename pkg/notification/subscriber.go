package notification

import (
	"context"
	"fmt"

	"github.com/moneta-app/moneta/internal/event_bus"
)

// RegisterSubscribers bridges domain events to the configured notifiers.
// Delivery failures are reported back to the bus, which logs them; they
// never reach the operation that raised the event.
func RegisterSubscribers(bus *event_bus.EventBus, notifiers ...Notifier) {
	event_bus.SubscribeTyped(bus, event_bus.BudgetExceededEvent,
		func(e event_bus.EventT[event_bus.BudgetExceeded]) error {
			return notifyAll(e.Context(), notifiers, Notification{
				Title: "Budget exceeded",
				Body: fmt.Sprintf("Category %q went over its monthly limit of %s for %s (month total: %s).",
					e.Data.CategoryName, e.Data.Limit, e.Data.MonthKey, e.Data.Total),
			})
		})

	event_bus.SubscribeTyped(bus, event_bus.ExpensesImportedEvent,
		func(e event_bus.EventT[event_bus.ExpensesImported]) error {
			return notifyAll(e.Context(), notifiers, Notification{
				Title: "CSV import finished",
				Body:  fmt.Sprintf("%d expenses were imported successfully.", e.Data.Count),
			})
		})

	event_bus.SubscribeTyped(bus, event_bus.ImportFailedEvent,
		func(e event_bus.EventT[event_bus.ImportFailed]) error {
			return notifyAll(e.Context(), notifiers, Notification{
				Title: "CSV import failed",
				Body:  "The import could not be completed. Check the file and try again.",
			})
		})
}

func notifyAll(ctx context.Context, notifiers []Notifier, notification Notification) error {
	var firstErr error
	for _, notifier := range notifiers {
		if err := notifier.Notify(ctx, notification); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
