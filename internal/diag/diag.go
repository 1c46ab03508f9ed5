// Package diag carries generator diagnostics from the checker and the unit
// assembler to the caller.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"martianoff/unapplygen/internal/model"
)

// Severity classifies a diagnostic.
type Severity int

const (
	Note Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a single message attached to a source location.
type Diagnostic struct {
	Severity Severity
	Message  string
	// Subject names the holder type or method the message is about.
	Subject string
	Pos     model.Position
}

func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s: %s", d.Pos.File, d.Pos.Line, d.Pos.Column, d.Severity, d.Subject, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Subject, d.Message)
}

// Sink receives diagnostics. Implementations must be safe for concurrent use,
// since units are generated in parallel.
type Sink interface {
	Report(d Diagnostic)
}

// Collector records every diagnostic it receives.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// All returns a copy of the recorded diagnostics in arrival order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]Diagnostic, len(c.diags))
	copy(result, c.diags)
	return result
}

// Count returns the number of recorded diagnostics of the given severity.
func (c *Collector) Count(s Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// LogSink writes diagnostics through a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) Report(d Diagnostic) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"subject", d.Subject}
	if d.Pos.IsValid() {
		attrs = append(attrs, "file", d.Pos.File, "line", d.Pos.Line, "column", d.Pos.Column)
	}
	logger.Log(context.Background(), level(d.Severity), d.Message, attrs...)
}

func level(s Severity) slog.Level {
	switch s {
	case Error:
		return slog.LevelError
	case Warning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Tee forwards every diagnostic to all given sinks.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Report(d Diagnostic) {
	for _, s := range t {
		s.Report(d)
	}
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}
