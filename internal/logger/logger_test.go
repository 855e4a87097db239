package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_FormatSelection(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		environment string
		want        string
	}{
		{"auto production uses json", FormatAuto, "production", `"msg":"hello"`},
		{"empty production uses json", "", "production", `"msg":"hello"`},
		{"auto development uses pretty", FormatAuto, "development", "INF"},
		{"explicit text", FormatText, "production", "msg=hello"},
		{"explicit json in development", FormatJSON, "development", `"level":"INFO"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Writer: &buf, Format: tt.format, Environment: tt.environment, Level: slog.LevelInfo})
			log.Info("hello")
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Info("genre created", "id", "death-metal", "parents", 2, "name", "Death Metal")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "genre created")
	assert.Contains(t, out, "id=death-metal")
	assert.Contains(t, out, "parents=2")
	assert.Contains(t, out, `name="Death Metal"`)
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN")
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	assert.Equal(t, h, h.WithGroup(""))

	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("service", "api")}).WithGroup("request"))
	log.Info("handled", "status", 200)

	out := buf.String()
	assert.Contains(t, out, "service=api")
	assert.Contains(t, out, "request.status=200")
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01T12:00:00Z", formatValue(slog.TimeValue(ts)))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
	assert.Equal(t, "plain", formatValue(slog.StringValue("plain")))
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON, Level: slog.LevelDebug})

	log.WithError(errors.New("boom")).
		WithField("genre", "metal").
		WithFields(map[string]any{"bands": 3}).
		Debug("blocked")

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"genre":"metal"`)
	assert.Contains(t, out, `"bands":3`)
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	assert.False(t, OrDiscard(nil).Enabled(context.Background(), slog.LevelError))

	l := slog.Default()
	assert.Same(t, l, OrDiscard(l))
}
