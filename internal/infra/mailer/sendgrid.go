package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailerはSendGridでテキストメールを送る
type SendGridMailer struct {
	apiKey string
	from   string
}

func NewSendGridMailer(apiKey string, from string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, from: from}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail("Storefront", m.from),
		subject,
		mail.NewEmail("", to),
		body,
		"<pre>"+html.EscapeString(body)+"</pre>",
	)

	client := sendgrid.NewSendClient(m.apiKey)
	res, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", res.StatusCode, res.Body)
	}
	return nil
}

// NopMailerはAPIキー未設定時に使う
type NopMailer struct{}

func (NopMailer) Send(context.Context, string, string, string) error { return nil }
