package notification

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/delegasi/delegation-manager/internal/middleware"
	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, message Message) error {
	called := m.Called(ctx, message)
	return called.Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to string, message Message) error {
	called := m.Called(ctx, to, message)
	return called.Error(0)
}

func newEvent() *model.Event {
	return &model.Event{
		ID:           7,
		Title:        "Rapat koordinasi",
		Status:       model.StatusNeedsRecipientVerification,
		FromUserID:   1,
		ToDivisionID: 2,
		ToPersonID:   3,
		ToPerson:     &model.User{ID: 3, Email: "recipient@example.com"},
	}
}

func TestNotifier_Notify(t *testing.T) {
	broker := NewBroker()
	_, sender := broker.Subscribe(1)
	_, recipient := broker.Subscribe(3)
	publisher := &mockPublisher{}
	publisher.
		On("Publish", mock.Anything, mock.MatchedBy(func(m Message) bool {
			return m.EventID == 7 && m.Action == "accept" && m.CorrelationID == "correlation"
		})).
		Return(nil)
	mailer := &mockMailer{}
	mailer.
		On("Send", mock.Anything, "recipient@example.com", mock.AnythingOfType("Message")).
		Return(nil)
	notifier := NewNotifier(slog.New(slog.DiscardHandler), broker, publisher, mailer)
	ctx := middleware.NewContextWithCorrelationID(context.Background(), "correlation")

	notifier.Notify(ctx, newEvent(), "accept")
	notifier.Wait()

	message := <-sender
	assert.Equal(t, model.StatusNeedsRecipientVerification, message.Status)
	message = <-recipient
	assert.Equal(t, "Rapat koordinasi", message.Title)
	publisher.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestNotifier_Notify_OnlyMailsOnRouting(t *testing.T) {
	mailer := &mockMailer{}
	notifier := NewNotifier(slog.New(slog.DiscardHandler), NewBroker(), nil, mailer)

	notifier.Notify(context.Background(), newEvent(), "confirm")
	notifier.Wait()

	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifier_Notify_FailuresAreNotFatal(t *testing.T) {
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("connection closed"))
	mailer := &mockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	notifier := NewNotifier(slog.New(slog.DiscardHandler), NewBroker(), publisher, mailer)

	require.NotPanics(t, func() {
		notifier.Notify(context.Background(), newEvent(), "created")
		notifier.Wait()
	})

	publisher.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestNotifier_Notify_DoesNotWaitForDelivery(t *testing.T) {
	release := make(chan struct{})
	mailer := &mockMailer{}
	mailer.
		On("Send", mock.Anything, "recipient@example.com", mock.AnythingOfType("Message")).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)
	broker := NewBroker()
	_, recipient := broker.Subscribe(3)
	notifier := NewNotifier(slog.New(slog.DiscardHandler), broker, nil, mailer)
	ctx, cancel := context.WithCancel(context.Background())

	returned := make(chan struct{})
	go func() {
		notifier.Notify(ctx, newEvent(), "accept")
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("Notify waited for the mail server")
	}
	message := <-recipient
	assert.Equal(t, "accept", message.Action)

	// a finished request must not abort the delivery
	cancel()
	close(release)
	notifier.Wait()
	mailer.AssertExpectations(t)
	assert.NoError(t, mailer.Calls[0].Arguments.Get(0).(context.Context).Err())
}

type mockDialer struct{ mock.Mock }

func (m *mockDialer) DialAndSend(messages ...*mail.Message) error {
	called := m.Called(messages)
	return called.Error(0)
}

func TestMailer_Send(t *testing.T) {
	dialer := &mockDialer{}
	dialer.
		On("DialAndSend", mock.MatchedBy(func(messages []*mail.Message) bool {
			return len(messages) == 1 &&
				messages[0].GetHeader("To")[0] == "recipient@example.com" &&
				messages[0].GetHeader("Subject")[0] == "Delegasi: Rapat koordinasi"
		})).
		Return(nil)
	mailer := NewMailer(dialer, "Delegation <no-reply@delegation.local>", "http://localhost:3000")

	err := mailer.Send(context.Background(), "recipient@example.com", Message{EventID: 7, Title: "Rapat koordinasi"})

	require.NoError(t, err)
	dialer.AssertExpectations(t)
}
