package notification

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Notification is the structured event handed to a delivery transport.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers a notification to the user. Delivery is best effort and
// advisory: no caller treats a failed delivery as a failed operation.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// LogNotifier writes notifications to the application log. It is always
// registered, so notifications are visible even without a transport.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	log.WithField("title", notification.Title).Info(notification.Body)
	return nil
}
