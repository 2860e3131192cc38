package logger

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ZeroLogger implements the ports.Logger interface on top of zerolog,
// producing structured JSON lines. Preferred for batch runs whose output is
// collected rather than read live.
type ZeroLogger struct {
	logger zerolog.Logger
}

// NewZeroLogger creates a zerolog-backed logger writing to w.
func NewZeroLogger(w io.Writer, levelStr string) *ZeroLogger {
	level := parseZerologLevel(levelStr)
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &ZeroLogger{logger: zl}
}

func parseZerologLevel(levelStr string) zerolog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func withFields(e *zerolog.Event, fields []map[string]interface{}) *zerolog.Event {
	if len(fields) > 0 && fields[0] != nil {
		e = e.Fields(fields[0])
	}
	return e
}

func (l *ZeroLogger) Debug(_ context.Context, msg string, fields ...map[string]interface{}) {
	withFields(l.logger.Debug(), fields).Msg(msg)
}

func (l *ZeroLogger) Info(_ context.Context, msg string, fields ...map[string]interface{}) {
	withFields(l.logger.Info(), fields).Msg(msg)
}

func (l *ZeroLogger) Warn(_ context.Context, msg string, fields ...map[string]interface{}) {
	withFields(l.logger.Warn(), fields).Msg(msg)
}

func (l *ZeroLogger) Error(_ context.Context, err error, msg string, fields ...map[string]interface{}) {
	withFields(l.logger.Error().Err(err), fields).Msg(msg)
}
