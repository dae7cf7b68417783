// Package notify delivers territory notifications. Delivery is best effort:
// callers log a failed Notify and carry on.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vietanh2810/basepoint-api/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LogNotifier{
		logger: logger.Named("notify"),
	}
}

func (l *LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	fields := []zap.Field{
		zap.String("kind", n.Kind),
		zap.String("channel", n.Channel),
		zap.String("body", n.Body),
		zap.Time("timestamp", n.Timestamp),
	}
	for _, f := range n.Fields {
		fields = append(fields, zap.String("field."+f.Name, f.Value))
	}
	l.logger.Info(n.Title, fields...)

	return nil
}
