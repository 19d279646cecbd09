// Package notifier is the user-facing alert surface. Sessions push the outcome of remote
// operations through it and never depend on how the alert is shown.
package notifier

//go:generate mockgen -source=notifier.go -destination=mocks/notifier.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(c context.Context, n Notification)
}

// ConsoleNotifier writes one line per notification to w and mirrors it to the context
// logger.
type ConsoleNotifier struct {
	w  io.Writer
	mu sync.Mutex
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (n *ConsoleNotifier) Notify(c context.Context, notification Notification) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ConsoleNotifier Notify").
		Str(log.KeyNotificationLevel, string(notification.Level)).
		Str(log.KeyNotificationTitle, notification.Title).
		Str(log.KeyNotificationMessage, notification.Message).
		Logger()

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := fmt.Fprintf(n.w, "%s %s: %s\n", prefix(notification.Level), notification.Title, notification.Message); err != nil {
		err = fmt.Errorf("failed writing notification with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Debug().Msg("notified")
}

func prefix(level Level) string {
	switch level {
	case LevelSuccess:
		return "[ok]"
	case LevelError:
		return "[error]"
	default:
		return "[info]"
	}
}

// Recorder keeps every notification in memory.
type Recorder struct {
	notifications []Notification
	mu            sync.Mutex
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}
