// Package notify delivers user-facing toasts raised by the page controllers.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	// LevelAlert is a blocking alert rather than a toast.
	LevelAlert Level = "alert"
)

// Notification is one message shown to the user.
type Notification struct {
	ID      uuid.UUID `json:"id"`
	Source  string    `json:"source"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// New stamps a notification with an ID and the current time.
func New(source string, level Level, message string) Notification {
	return Notification{
		ID:      uuid.New(),
		Source:  source,
		Level:   level,
		Message: message,
		At:      time.Now().UTC(),
	}
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	level := slog.LevelInfo
	if n.Level != LevelSuccess {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, "notification",
		"id", n.ID.String(),
		"source", n.Source,
		"level", string(n.Level),
		"message", n.Message,
	)
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
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

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) error { return nil }
