package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t, LevelWarn)

	Debug("debug line")
	Info("info line")
	Warn("warn line", "uid", "a@b")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("Expected debug/info to be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] warn line uid=a@b") {
		t.Errorf("Missing warn line, got:\n%s", out)
	}
}

func TestErrorLevelMutesDiagnostics(t *testing.T) {
	buf := captureOutput(t, LevelError)

	Debug("debug line")
	Info("info line")
	Warn("warn line", "err", errors.New("boom"))

	if buf.Len() != 0 {
		t.Errorf("Expected no output at ERROR level, got:\n%s", buf.String())
	}
}

func TestKeyValueQuoting(t *testing.T) {
	buf := captureOutput(t, LevelDebug)

	Info("parsed", "summary", "Team Kickoff", "count", 3, "dangling")

	out := buf.String()
	if !strings.Contains(out, `summary="Team Kickoff"`) {
		t.Errorf("Expected quoted value, got %q", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Errorf("Expected count=3, got %q", out)
	}
	if strings.Contains(out, "dangling") {
		t.Errorf("Expected dangling key to be dropped, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" INFO ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"trace", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
