package reporting

import (
	"context"
	"log/slog"
)

// Level distinguishes output that must always be shown from evaluation results and
// diagnostics.
type Level int

const (
	LevelDebug Level = iota
	LevelResults
	LevelRequired
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelResults:
		return "results"
	case LevelRequired:
		return "required"
	default:
		return "unknown"
	}
}

// Sink receives leveled, non-fatal messages from the evaluation core.
type Sink interface {
	Emit(level Level, msg string, args ...any)
}

type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(level Level, msg string, args ...any) {
	s.logger.Log(context.Background(), slogLevel(level), msg, append(args, "channel", level.String())...)
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelRequired:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Discard drops every message.
type Discard struct{}

func (Discard) Emit(Level, string, ...any) {}
