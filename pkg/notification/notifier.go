// Package notification informs the participants of an event about changes to it. Messages are
// streamed to subscribed browsers, published to RabbitMQ and mailed to the recipient.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/delegasi/delegation-manager/internal/middleware"
	"github.com/delegasi/delegation-manager/pkg/model"
	"golang.org/x/exp/slices"
)

// Message describes a change of an event.
type Message struct {
	EventID         uint         `json:"eventId"`
	Title           string       `json:"title"`
	Action          string       `json:"action"`
	Status          model.Status `json:"status"`
	RejectionReason *string      `json:"rejectionReason,omitempty"`
	FromUserID      uint         `json:"fromUserId"`
	ToDivisionID    uint         `json:"toDivisionId"`
	ToPersonID      uint         `json:"toPersonId"`
	CorrelationID   string       `json:"correlationId,omitempty"`
	Time            time.Time    `json:"time"`
}

func newMessage(ctx context.Context, event *model.Event, action string) Message {
	correlationID, _ := middleware.GetCorrelationID(ctx)
	return Message{
		EventID:         event.ID,
		Title:           event.Title,
		Action:          action,
		Status:          event.Status,
		RejectionReason: event.RejectionReason,
		FromUserID:      event.FromUserID,
		ToDivisionID:    event.ToDivisionID,
		ToPersonID:      event.ToPersonID,
		CorrelationID:   correlationID,
		Time:            time.Now(),
	}
}

// RoutingActions are the actions after which the recipient of an event is mailed.
var RoutingActions = []string{"created", "accept", "handler-changed"}

type publisher interface {
	Publish(ctx context.Context, message Message) error
}

type mailer interface {
	Send(ctx context.Context, to string, message Message) error
}

func NewNotifier(logger *slog.Logger, broker *Broker, publisher publisher, mailer mailer) *Notifier {
	return &Notifier{
		logger:    logger,
		broker:    broker,
		publisher: publisher,
		mailer:    mailer,
	}
}

// Notifier fans out changes of events. Publisher and mailer are optional. Failures are logged and
// never returned since the change itself already succeeded.
type Notifier struct {
	logger    *slog.Logger
	broker    *Broker
	publisher publisher
	mailer    mailer
	pending   sync.WaitGroup
}

// Notify sends the message to subscribers right away. Publishing and mailing happen in the
// background so a slow broker or mail server doesn't delay the response, use Wait to let them
// finish.
func (n *Notifier) Notify(ctx context.Context, event *model.Event, action string) {
	message := newMessage(ctx, event, action)

	n.broker.Send(event.FromUserID, message)
	if event.ToPersonID != event.FromUserID {
		n.broker.Send(event.ToPersonID, message)
	}

	mail := n.mailer != nil && slices.Contains(RoutingActions, action) && event.ToPerson != nil && event.ToPerson.Email != ""
	if n.publisher == nil && !mail {
		return
	}

	var to string
	if mail {
		to = event.ToPerson.Email
	}
	// the request context is cancelled once the response is written
	ctx = context.WithoutCancel(ctx)
	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		n.deliver(ctx, message, to)
	}()
}

// Wait blocks until all notifications are published and mailed.
func (n *Notifier) Wait() {
	n.pending.Wait()
}

// deliver publishes the message and mails it to the recipient if to isn't empty.
func (n *Notifier) deliver(ctx context.Context, message Message, to string) {
	if n.publisher != nil {
		if err := n.publisher.Publish(ctx, message); err != nil {
			n.logger.ErrorContext(ctx, "Failed to publish event notification", "eventId", message.EventID, "action", message.Action, "error", err)
		}
	}

	if to != "" {
		if err := n.mailer.Send(ctx, to, message); err != nil {
			n.logger.ErrorContext(ctx, "Failed to mail event notification", "eventId", message.EventID, "action", message.Action, "error", err)
		}
	}
}
