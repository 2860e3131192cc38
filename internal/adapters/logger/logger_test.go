package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStdLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerWithWriter(&buf, LevelWarn)
	ctx := context.Background()

	l.Debug(ctx, "hidden debug")
	l.Info(ctx, "hidden info")
	l.Warn(ctx, "visible warn")
	l.Error(ctx, errors.New("boom"), "visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the threshold leaked: %s", out)
	}
	if !strings.Contains(out, "visible warn") || !strings.Contains(out, "visible error") {
		t.Errorf("expected warn and error lines, got: %s", out)
	}
	if !strings.Contains(out, "error: boom") {
		t.Errorf("expected the wrapped error in output, got: %s", out)
	}
}

func TestStdLoggerFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerWithWriter(&buf, LevelDebug)

	l.Info(context.Background(), "fields", map[string]interface{}{
		"zeta": 1, "alpha": 2, "mid": 3,
	})

	out := buf.String()
	alpha := strings.Index(out, "alpha=")
	mid := strings.Index(out, "mid=")
	zeta := strings.Index(out, "zeta=")
	if !(alpha < mid && mid < zeta) {
		t.Errorf("fields not sorted: %s", out)
	}
}

func TestZeroLoggerStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, "debug")
	ctx := context.Background()

	l.Info(ctx, "run finished", map[string]interface{}{"symbol": "PETR4", "trades": 3})
	l.Error(ctx, errors.New("boom"), "run failed")

	out := buf.String()
	if !strings.Contains(out, `"symbol":"PETR4"`) {
		t.Errorf("expected structured field in output: %s", out)
	}
	if !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected error field in output: %s", out)
	}
}

func TestZeroLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, "error")

	l.Info(context.Background(), "hidden info")
	if buf.Len() != 0 {
		t.Errorf("info line should be filtered at error level: %s", buf.String())
	}
}
