// Package errs defines the error kinds surfaced to the user by icsevents.
//
// Every failure that reaches the top level is an *Error carrying a Kind, the
// path (file or URL) it concerns and the underlying cause. The CLI turns it
// into a single "Error: ..." line and a non-zero exit status.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	Unknown Kind = iota
	FileNotFound
	ReadError
	EncodingError
	ParseError
	FetchError
	InvalidOutputPath
	WriteError
	ConfigError
	UsageError
)

var kindNames = map[Kind]string{
	Unknown:           "Unknown",
	FileNotFound:      "FileNotFound",
	ReadError:         "ReadError",
	EncodingError:     "EncodingError",
	ParseError:        "ParseError",
	FetchError:        "FetchError",
	InvalidOutputPath: "InvalidOutputPath",
	WriteError:        "WriteError",
	ConfigError:       "ConfigError",
	UsageError:        "UsageError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type returned across package boundaries.
type Error struct {
	Kind Kind
	// Path is the input file, URL or output file involved, if any.
	Path string
	Err  error
}

// New wraps err with the given kind and path.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, path string, format string, args ...any) *Error {
	return New(kind, path, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	switch e.Kind {
	case FileNotFound:
		return fmt.Sprintf("file not found: %s", e.Path)
	case ReadError:
		return fmt.Sprintf("failed to read file %s: %v", e.Path, e.Err)
	case EncodingError:
		return fmt.Sprintf("file encoding error in %s: check that the file is UTF-8 encoded", e.Path)
	case ParseError:
		return fmt.Sprintf("failed to parse ICS file %s: %v", e.Path, e.Err)
	case FetchError:
		return fmt.Sprintf("failed to fetch %s: %v", e.Path, e.Err)
	case InvalidOutputPath:
		return fmt.Sprintf("invalid output path %s: %v", e.Path, e.Err)
	case WriteError:
		return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
	case ConfigError:
		if e.Path == "" {
			return fmt.Sprintf("invalid configuration: %v", e.Err)
		}
		return fmt.Sprintf("invalid configuration in %s: %v", e.Path, e.Err)
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare *Error of the same kind, so that
// errors.Is(err, &errs.Error{Kind: errs.ParseError}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Path == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
