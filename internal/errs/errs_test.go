package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{"file not found", New(FileNotFound, "cal.ics", fs.ErrNotExist), []string{"file not found", "cal.ics"}},
		{"encoding", New(EncodingError, "cal.ics", nil), []string{"UTF-8", "cal.ics"}},
		{"parse", New(ParseError, "cal.ics", errors.New("expected begin")), []string{"failed to parse ICS file cal.ics", "expected begin"}},
		{"write", New(WriteError, "/out/events.csv", cause), []string{"/out/events.csv", "permission denied"}},
		{"output path", New(InvalidOutputPath, "/nope/events.md", cause), []string{"invalid output path /nope/events.md"}},
		{"config without path", Newf(ConfigError, "", "unknown format %q", "xml"), []string{"invalid configuration", `"xml"`}},
		{"usage", Newf(UsageError, "", "missing calendar file"), []string{"missing calendar file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("Expected message to contain %q, got %q", w, msg)
				}
			}
			if strings.Contains(msg, "\n") {
				t.Errorf("Expected single-line message, got %q", msg)
			}
		})
	}
}

func TestKindMatching(t *testing.T) {
	base := New(WriteError, "events.csv", fs.ErrPermission)
	wrapped := fmt.Errorf("render: %w", base)

	if KindOf(wrapped) != WriteError {
		t.Errorf("Expected WriteError, got %v", KindOf(wrapped))
	}
	if !Is(wrapped, WriteError) {
		t.Error("Expected Is(wrapped, WriteError) to be true")
	}
	if Is(wrapped, ParseError) {
		t.Error("Expected Is(wrapped, ParseError) to be false")
	}
	if !errors.Is(wrapped, &Error{Kind: WriteError}) {
		t.Error("Expected errors.Is to match on kind")
	}
	if !errors.Is(wrapped, fs.ErrPermission) {
		t.Error("Expected underlying cause to be reachable")
	}
	if KindOf(errors.New("plain")) != Unknown {
		t.Error("Expected Unknown for foreign errors")
	}
}

func TestKindString(t *testing.T) {
	if ParseError.String() != "ParseError" {
		t.Errorf("Expected ParseError, got %s", ParseError.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("Expected Kind(99), got %s", Kind(99).String())
	}
}
