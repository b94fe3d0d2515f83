package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "bogus": slog.LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "warn")
	slog.Info("report: hidden")
	slog.Warn("report: shown", "topic", "climate")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "topic=climate") {
		t.Errorf("log output = %q", out)
	}

	SetupWriter(&buf, "debug")
	slog.Debug("report: now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("level change did not take effect: %q", buf.String())
	}
}
