package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendMailer sends invitation mail through the Resend API.
type ResendMailer struct {
	client    *resend.Client
	fromName  string
	fromEmail string
	appURL    string
	logger    *zap.Logger
}

func NewResendMailer(apiKey, fromName, fromEmail, appURL string, logger *zap.Logger) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if fromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &ResendMailer{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		appURL:    appURL,
		logger:    logger,
	}, nil
}

func (m *ResendMailer) SendInvitation(ctx context.Context, to, name, role, tempPassword string) error {
	html := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You have been invited to Miti as a <strong>%s</strong>.</p>
<p>Sign in at <a href="%s">%s</a> with this temporary password and change it right away:</p>
<p><code>%s</code></p>`,
		name, role, m.appURL, m.appURL, tempPassword,
	)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail),
		To:      []string{to},
		Subject: "You have been invited to Miti",
		Html:    html,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		m.logger.Error("failed to send invitation email", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("send invitation email: %w", err)
	}

	m.logger.Info("invitation email sent", zap.String("to", to), zap.String("email_id", sent.Id))
	return nil
}
