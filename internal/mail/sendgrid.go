package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SendGridMailer) SendPasswordRecovery(ctx context.Context, to, name, tempPassword string) error {
	msg := buildRecoveryMessage(s.fromName, s.fromEmail, to, name, tempPassword)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("mail: sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func buildRecoveryMessage(fromName, fromEmail, to, name, tempPassword string) *sgmail.SGMailV3 {
	from := sgmail.NewEmail(fromName, fromEmail)
	recipient := sgmail.NewEmail(name, to)

	htmlContent := fmt.Sprintf(`<p>Hello %s,</p>
<p>A password recovery was requested for your Civic Sense account.</p>
<p>Your temporary password is: <strong>%s</strong></p>
<p>Please log in and change it as soon as possible.</p>`,
		html.EscapeString(name), html.EscapeString(tempPassword))

	return sgmail.NewSingleEmail(from, recoverySubject(), recipient, recoveryText(name, tempPassword), htmlContent)
}
