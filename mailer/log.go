package mailer

import (
	"context"
	"sync"

	"github.com/goliatone/go-accounts"
)

// Log writes notifications to a logger instead of delivering them. It keeps
// the last notification per recipient so local setups can read the link.
type Log struct {
	logger accounts.Logger
	mu     sync.Mutex
	last   map[string]accounts.Notification
}

var _ accounts.Notifier = (*Log)(nil)

// NewLog returns a Log notifier
func NewLog(logger accounts.Logger) *Log {
	if logger == nil {
		logger = accounts.NopLogger{}
	}
	return &Log{
		logger: logger,
		last:   map[string]accounts.Notification{},
	}
}

// Send implements accounts.Notifier
func (l *Log) Send(ctx context.Context, msg accounts.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	l.last[msg.To] = msg
	l.mu.Unlock()

	l.logger.Info("mail to=%s subject=%q\n%s", msg.To, msg.Subject, msg.Text)
	return nil
}

// Last returns the last notification sent to recipient
func (l *Log) Last(recipient string) (accounts.Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg, ok := l.last[recipient]
	return msg, ok
}
