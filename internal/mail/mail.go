package mail

import (
	"context"
	"fmt"

	"civic-sense/internal/logger"
)

// Mailer delivers password recovery messages.
type Mailer interface {
	SendPasswordRecovery(ctx context.Context, to, name, tempPassword string) error
}

// LogMailer writes the message to the service log instead of sending it.
// Intended for local development only.
type LogMailer struct {
	log logger.Logger
}

func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordRecovery(_ context.Context, to, name, tempPassword string) error {
	m.log.Warn("password recovery (log delivery)", "to", to, "name", name, "temporary_password", tempPassword)
	return nil
}

func recoverySubject() string {
	return "Your Civic Sense password"
}

func recoveryText(name, tempPassword string) string {
	return fmt.Sprintf(`Hello %s,

A password recovery was requested for your Civic Sense account.

Your temporary password is: %s

Please log in and change it as soon as possible.
If you did not request this, contact your administrator.`, name, tempPassword)
}
