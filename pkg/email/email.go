// Package email sends transactional account mail.
package email

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier sends account lifecycle messages. Delivery failures are reported
// to the caller, which decides whether they matter.
type Notifier interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordChanged(ctx context.Context, to, name string) error
	SendAccountStatus(ctx context.Context, to, name, status string) error
}

type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	AppName   string
}

// NoopNotifier logs instead of sending. Used when mail is disabled.
type NoopNotifier struct {
	log logrus.FieldLogger
}

func NewNoopNotifier(log logrus.FieldLogger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

func (n *NoopNotifier) SendWelcome(_ context.Context, to, _ string) error {
	n.log.WithField("to", to).Debug("email disabled, skipping welcome mail")
	return nil
}

func (n *NoopNotifier) SendPasswordChanged(_ context.Context, to, _ string) error {
	n.log.WithField("to", to).Debug("email disabled, skipping password changed mail")
	return nil
}

func (n *NoopNotifier) SendAccountStatus(_ context.Context, to, _, status string) error {
	n.log.WithFields(logrus.Fields{"to": to, "status": status}).Debug("email disabled, skipping status mail")
	return nil
}
