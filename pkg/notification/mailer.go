package notification

import (
	"context"
	"fmt"

	"github.com/go-mail/mail"
)

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

func NewMailer(dialer dialer, from string, uiUrl string) *Mailer {
	return &Mailer{
		dialer: dialer,
		from:   from,
		uiUrl:  uiUrl,
	}
}

// Mailer informs recipients about events routed to them.
type Mailer struct {
	dialer dialer
	from   string
	uiUrl  string
}

func (m *Mailer) Send(_ context.Context, to string, message Message) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Delegasi: %s", message.Title))
	link := fmt.Sprintf("%s/event/%d", m.uiUrl, message.EventID)
	body := fmt.Sprintf("Hello, the event %q has been routed to you and is now %q.<br/>%s", message.Title, message.Status, link)
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}
