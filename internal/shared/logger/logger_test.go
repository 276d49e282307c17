package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceHandler_OnlyForSelectedLevels(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := slog.New(newSourceHandler(base, slog.LevelWarn, slog.LevelError))

	l.Info("plain message")
	assert.NotContains(t, buf.String(), "source=")

	buf.Reset()
	l.Warn("warning message")
	assert.Contains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "logger_test.go")
}

func TestSourceHandler_PreservesAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	l := slog.New(newSourceHandler(base, slog.LevelError)).With("component", "sweep").WithGroup("run")

	l.Error("failed", "count", 3)

	out := buf.String()
	assert.Contains(t, out, "component=sweep")
	assert.Contains(t, out, "run.count=3")
	assert.Contains(t, out, "source=")
}

func TestNamed_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithSlog(slog.New(slog.NewTextHandler(&buf, nil))).Named("capacity")

	l.Infow("seat reserved", "course_id", 7)

	assert.Contains(t, buf.String(), "component=capacity")
	assert.Contains(t, buf.String(), "course_id=7")
}

func TestNop_DiscardsEverything(t *testing.T) {
	l := NewNop().With("k", "v").Named("x")
	assert.NotPanics(t, func() {
		l.Infow("ignored", "a", 1)
		l.Errorw("ignored")
	})
}
