package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier delivers mail through the Resend API.
type ResendNotifier struct {
	emails sender
	config Config
	log    logrus.FieldLogger
}

func NewResendNotifier(cfg Config, log logrus.FieldLogger) (*ResendNotifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("resend API key is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("from email is required")
	}

	return &ResendNotifier{
		emails: resend.NewClient(cfg.APIKey).Emails,
		config: cfg,
		log:    log,
	}, nil
}

func (n *ResendNotifier) SendWelcome(ctx context.Context, to, name string) error {
	body, err := render(welcomeMessage, n.config.AppName, name, "")
	if err != nil {
		return err
	}
	return n.send(ctx, to, "Welcome to "+n.config.AppName, body)
}

func (n *ResendNotifier) SendPasswordChanged(ctx context.Context, to, name string) error {
	body, err := render(passwordChangedMessage, n.config.AppName, name, "")
	if err != nil {
		return err
	}
	return n.send(ctx, to, "Your password was changed", body)
}

func (n *ResendNotifier) SendAccountStatus(ctx context.Context, to, name, status string) error {
	body, err := render(accountStatusMessage, n.config.AppName, name, status)
	if err != nil {
		return err
	}
	return n.send(ctx, to, "Your account status changed", body)
}

func (n *ResendNotifier) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", n.config.FromName, n.config.FromEmail),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := n.emails.SendWithContext(ctx, params)
	if err != nil {
		n.log.WithError(err).WithField("to", to).Warn("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.log.WithFields(logrus.Fields{"to": to, "id": sent.Id, "subject": subject}).Info("email sent")
	return nil
}
