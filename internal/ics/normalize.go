package ics

import (
	"strings"
	"time"

	appLog "icsevents/internal/log"
	"icsevents/internal/model"
)

// NormalizeConfig controls how parsed events become model.Event rows.
type NormalizeConfig struct {
	// DisplayLocation is the zone timed starts are converted to before the
	// date is taken. If nil, time.Local is used.
	DisplayLocation *time.Location

	// Today is the cutoff date (YYYY-MM-DD), computed once per run.
	Today string

	// IncludePast keeps events dated before Today.
	IncludePast bool
}

// Normalize derives the display date, applies the location and title
// placeholders and drops past events unless cfg.IncludePast is set. Input
// order is preserved; sorting is left to the caller.
func Normalize(events []ParsedEvent, cfg NormalizeConfig) []model.Event {
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}

	out := make([]model.Event, 0, len(events))
	dropped := 0

	for _, ev := range events {
		e := model.Event{
			Date:     eventDate(ev, cfg.DisplayLocation),
			Location: orDefault(ev.Location, model.UnknownLocation),
			Name:     orDefault(ev.Summary, model.NoTitle),
		}
		if !cfg.IncludePast && e.Date < cfg.Today {
			dropped++
			continue
		}
		out = append(out, e)
	}

	appLog.Debug("events normalized", "kept", len(out), "past_dropped", dropped, "today", cfg.Today)
	return out
}

// eventDate keeps all-day dates verbatim and converts timed starts into loc.
func eventDate(ev ParsedEvent, loc *time.Location) string {
	if ev.AllDay {
		return model.FormatDate(ev.Start)
	}
	return model.FormatDate(ev.Start.In(loc))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
