// Package app runs the single-pass pipeline: load the calendar, normalize
// and filter its events, sort, truncate, render.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"icsevents/internal/errs"
	"icsevents/internal/ics"
	appLog "icsevents/internal/log"
	"icsevents/internal/model"
	"icsevents/internal/render"
)

// NoEventsMessage is printed instead of any output when nothing is left
// after filtering.
const NoEventsMessage = "No events found in the ICS file."

// Options describes one run.
type Options struct {
	// Input is a calendar file path or an http(s) URL.
	Input string

	Format render.Format
	// Output is the destination for file formats; ignored for tables.
	Output string

	IncludePast bool
	// Short keeps only the first N events after sorting; 0 keeps all.
	Short int

	// Location is the zone "today" and timed starts are evaluated in.
	Location *time.Location

	Table render.TableOptions
}

// Result reports what a run produced.
type Result struct {
	Events []model.Event
	// Written is the output file, empty for tables or when nothing matched.
	Written string
}

// App carries the run's collaborators. Stdout receives the table and the
// user-facing notices.
type App struct {
	Stdout  io.Writer
	Now     func() time.Time
	Fetcher *ics.Fetcher
}

// New creates an App writing to stdout with the system clock.
func New(stdout io.Writer, fetcher *ics.Fetcher) *App {
	return &App{
		Stdout:  stdout,
		Now:     time.Now,
		Fetcher: fetcher,
	}
}

// Run executes the pipeline. An empty result is not an error: the
// NoEventsMessage notice is printed and no file is created.
func (a *App) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Format == "" {
		opts.Format = render.FormatTable
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	if opts.Format.WritesFile() {
		if err := render.CheckOutputPath(opts.Output); err != nil {
			return Result{}, err
		}
	}

	raw, err := ics.Load(ctx, opts.Input, a.Fetcher)
	if err != nil {
		return Result{}, err
	}

	// One cutoff for the whole run.
	today := model.Today(a.now(), opts.Location)

	events := ics.Normalize(raw, ics.NormalizeConfig{
		DisplayLocation: opts.Location,
		Today:           today,
		IncludePast:     opts.IncludePast,
	})
	if len(events) == 0 {
		appLog.Info("no events after filtering", "parsed", len(raw), "today", today, "include_past", opts.IncludePast)
		fmt.Fprintln(a.Stdout, NoEventsMessage)
		return Result{}, nil
	}

	model.SortByDate(events)
	events = model.Limit(events, opts.Short)

	res := Result{Events: events}

	switch opts.Format {
	case render.FormatTable:
		if err := render.Table(a.Stdout, events, opts.Table); err != nil {
			return res, errs.New(errs.WriteError, "<stdout>", err)
		}
	case render.FormatCSV, render.FormatMarkdown:
		if err := render.ToFile(opts.Format, opts.Output, events); err != nil {
			return res, err
		}
		res.Written = opts.Output
		fmt.Fprintf(a.Stdout, "%s file saved: %s\n", opts.Format.Label(), opts.Output)
	default:
		return res, errs.Newf(errs.UsageError, "", "unknown format %q", opts.Format)
	}

	return res, nil
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
