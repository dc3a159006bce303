package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Debug("hidden")
	log.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("info record missing from output")
	}
}

func TestHandlerColors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Error("it broke")
	if !strings.Contains(buf.String(), colorRed) {
		t.Error("error record should be red")
	}

	buf.Reset()
	log.Warn("careful")
	if !strings.Contains(buf.String(), colorYellow) {
		t.Error("warn record should be yellow")
	}

	buf.Reset()
	log.Info("offers fetched", "count", 3)
	if !strings.Contains(buf.String(), colorGreen) {
		t.Error("provider success line should be green")
	}

	buf.Reset()
	log.Info("starting pipeline")
	if strings.Contains(buf.String(), colorGreen) {
		t.Error("plain info line should not be green")
	}
}

func TestHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, nil)).With("request_id", "req-1")

	log.Info("processing", "candidates", 6)

	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") {
		t.Errorf("output missing bound attr: %q", out)
	}
	if !strings.Contains(out, "candidates=6") {
		t.Errorf("output missing record attr: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
