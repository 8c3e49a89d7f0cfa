// Package notify shows short-lived toast messages to the user.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/blockedby/interview-list/internal/errmsg"
	"github.com/blockedby/interview-list/internal/logger"
)

// Severity tags a toast.
type Severity string

// Severity constants match the toast color names.
const (
	Positive Severity = "positive"
	Negative Severity = "negative"
	Warning  Severity = "warning"
	Info     Severity = "info"
)

// DefaultTimeout is how long a toast stays visible.
const DefaultTimeout = 2 * time.Second

// Toast is a single transient message.
type Toast struct {
	Severity Severity
	Message  string
	Timeout  time.Duration
}

// Sink displays toasts.
type Sink interface {
	Display(t Toast)
}

// Notifier normalizes messages and errors into toasts.
type Notifier struct {
	sink Sink
}

// New creates a Notifier writing to sink.
func New(sink Sink) *Notifier {
	return &Notifier{sink: sink}
}

// Notify shows v as a toast. Errors are mapped through errmsg, strings are
// shown as-is and anything else is formatted with %v.
// Without a severity, or with an empty one, the toast is Negative.
func (n *Notifier) Notify(v any, severity ...Severity) {
	sev := Negative
	if len(severity) > 0 && severity[0] != "" {
		sev = severity[0]
	}

	var msg string
	switch val := v.(type) {
	case error:
		msg = errmsg.Get(val)
	case string:
		msg = val
	default:
		msg = fmt.Sprint(val)
	}

	n.sink.Display(Toast{
		Severity: sev,
		Message:  msg,
		Timeout:  DefaultTimeout,
	})
}

// Error is Notify(err, Negative).
func (n *Notifier) Error(err error) {
	if err == nil {
		err = errors.New("unknown")
	}
	n.Notify(err, Negative)
}

// Success is Notify(msg, Positive).
func (n *Notifier) Success(msg string) {
	n.Notify(msg, Positive)
}

// TerminalSink prints toasts to a terminal in the severity's color and
// mirrors them to the log.
type TerminalSink struct {
	out io.Writer
	log *logger.Logger
	mu  sync.Mutex
}

// NewTerminalSink creates a sink printing to out.
func NewTerminalSink(out io.Writer, log *logger.Logger) *TerminalSink {
	return &TerminalSink{out: out, log: log}
}

var severityColors = map[Severity]*color.Color{
	Positive: color.New(color.FgGreen, color.Bold),
	Negative: color.New(color.FgRed, color.Bold),
	Warning:  color.New(color.FgYellow, color.Bold),
	Info:     color.New(color.FgCyan),
}

// Display implements Sink.
func (s *TerminalSink) Display(t Toast) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := severityColors[t.Severity]
	if !ok {
		c = severityColors[Info]
	}
	_, _ = c.Fprintf(s.out, "● %s\n", t.Message)

	if s.log != nil {
		s.log.Debug().
			Str("severity", string(t.Severity)).
			Dur("timeout", t.Timeout).
			Msg(t.Message)
	}
}

// Recorder keeps every toast in memory. Useful in tests and for
// rendering a toast history.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Display implements Sink.
func (r *Recorder) Display(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of the recorded toasts.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}
