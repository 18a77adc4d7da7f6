// Package notify delivers user-facing toasts.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Level is the toast severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notifier shows a titled message to the user.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
	Warning(title, message string)
}

// Toast is one delivered notification.
type Toast struct {
	Level   Level
	Title   string
	Message string
}

// LogNotifier writes toasts to the structured log.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a notifier logging under the "notify" component.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Success(title, message string) {
	n.log.Info().Str("title", title).Msg(message)
}

func (n *LogNotifier) Error(title, message string) {
	n.log.Error().Str("title", title).Msg(message)
}

func (n *LogNotifier) Warning(title, message string) {
	n.log.Warn().Str("title", title).Msg(message)
}

// Recorder keeps toasts in memory until drained.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) add(level Level, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Level: level, Title: title, Message: message})
}

func (r *Recorder) Success(title, message string) { r.add(LevelSuccess, title, message) }
func (r *Recorder) Error(title, message string)   { r.add(LevelError, title, message) }
func (r *Recorder) Warning(title, message string) { r.add(LevelWarning, title, message) }

// Toasts returns a copy of everything recorded.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Drain returns and clears the recorded toasts.
func (r *Recorder) Drain() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.toasts
	r.toasts = nil
	return out
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// Multi fans a toast out to several notifiers.
type Multi []Notifier

func (m Multi) Success(title, message string) {
	for _, n := range m {
		n.Success(title, message)
	}
}

func (m Multi) Error(title, message string) {
	for _, n := range m {
		n.Error(title, message)
	}
}

func (m Multi) Warning(title, message string) {
	for _, n := range m {
		n.Warning(title, message)
	}
}
