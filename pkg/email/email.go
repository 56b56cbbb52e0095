// Package email sends transactional mail for the user-management flows.
package email

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers invitation mail to newly provisioned users.
type Mailer interface {
	// SendInvitation notifies a user that an account was created for them,
	// including the temporary password they must change on first login.
	SendInvitation(ctx context.Context, to, name, role, tempPassword string) error
}

// NopMailer is used when mail delivery is disabled; it logs and succeeds.
type NopMailer struct {
	Logger *zap.Logger
}

func (m *NopMailer) SendInvitation(_ context.Context, to, name, _, _ string) error {
	if m.Logger != nil {
		m.Logger.Info("email disabled, skipping invitation",
			zap.String("to", to),
			zap.String("name", name),
		)
	}
	return nil
}
