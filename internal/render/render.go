// Package render turns the ordered event list into a terminal table, a CSV
// file or a Markdown table.
package render

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"icsevents/internal/errs"
	appLog "icsevents/internal/log"
	"icsevents/internal/model"
)

// Format selects a renderer.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatTable, FormatCSV, FormatMarkdown}

// ParseFormat accepts a format name case-insensitively; "md" is an alias
// for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, csv or markdown)", s)
}

// WritesFile reports whether the format produces an output file.
func (f Format) WritesFile() bool {
	return f == FormatCSV || f == FormatMarkdown
}

// Label is the human name used in "<Label> file saved" notices.
func (f Format) Label() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatMarkdown:
		return "Markdown"
	}
	return "Table"
}

// ToFile renders events in a file format to path, replacing any existing
// file only once the new content is complete.
func ToFile(f Format, path string, events []model.Event) error {
	var write func(io.Writer, []model.Event) error
	switch f {
	case FormatCSV:
		write = CSV
	case FormatMarkdown:
		write = Markdown
	default:
		return fmt.Errorf("render: format %q does not write files", f)
	}

	if err := writeFileAtomic(path, func(w io.Writer) error { return write(w, events) }); err != nil {
		return err
	}
	appLog.Info("output written", "format", string(f), "path", path, "events", len(events))
	return nil
}

// CheckOutputPath verifies that path can be created before any work is done:
// its directory must exist and accept new files, and path itself must not be
// a directory. An existing file at path is left untouched.
func CheckOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errs.New(errs.InvalidOutputPath, path, errors.New("empty path"))
	}
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Newf(errs.InvalidOutputPath, path, "directory %s does not exist", dir)
		}
		return errs.New(errs.InvalidOutputPath, path, err)
	}
	if !info.IsDir() {
		return errs.Newf(errs.InvalidOutputPath, path, "%s is not a directory", dir)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return errs.New(errs.InvalidOutputPath, path, errors.New("is a directory"))
	}

	probe, err := os.CreateTemp(dir, ".icsevents-probe-*")
	if err != nil {
		return errs.Newf(errs.InvalidOutputPath, path, "cannot write to %s: %v", dir, errors.Unwrap(err))
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// writeFileAtomic writes through a temp file in the destination directory
// and renames it over path. Any failure is a WriteError for path and leaves
// no partial file behind.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".icsevents-*.tmp")
	if err != nil {
		return errs.New(errs.WriteError, path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return errs.New(errs.WriteError, path, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return errs.New(errs.WriteError, path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errs.New(errs.WriteError, path, err)
	}
	if err := tmp.Close(); err != nil {
		return errs.New(errs.WriteError, path, err)
	}
	if err := os.Chmod(tmpName, fileMode(path)); err != nil {
		return errs.New(errs.WriteError, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errs.New(errs.WriteError, path, err)
	}
	return nil
}

// fileMode keeps the permissions of a file being replaced; new files get 0644.
func fileMode(path string) fs.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return 0o644
}

// flatten folds line breaks so a value stays on one table row.
func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
