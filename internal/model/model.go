package model

import (
	"fmt"
	"sort"
	"time"
)

const (
	// UnknownLocation replaces an absent or blank LOCATION.
	UnknownLocation = "Unknown"
	// NoTitle replaces an absent or blank SUMMARY.
	NoTitle = "No Title"
)

// Event is the normalized (date, location, name) record every renderer
// consumes. Date is always zero-padded YYYY-MM-DD so that plain string
// comparison orders events chronologically.
type Event struct {
	Date     string
	Location string
	Name     string
}

// Record returns the event as a row in column order Date, Location, Event Name.
func (e Event) Record() []string {
	return []string{e.Date, e.Location, e.Name}
}

// Header is the column header shared by all output formats.
var Header = []string{"Date", "Location", "Event Name"}

// FormatDate renders the calendar date of t as YYYY-MM-DD. The layout is
// spelled out explicitly instead of relying on time.Format so the zero
// padding holds for every year the ordering depends on.
func FormatDate(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Today returns the current date in loc as YYYY-MM-DD. A nil loc means
// time.Local.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return FormatDate(now.In(loc))
}

// SortByDate orders events by date, keeping the input order for equal dates.
func SortByDate(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
}

// Limit returns the first n events. n <= 0 means no limit.
func Limit(events []Event, n int) []Event {
	if n <= 0 || n >= len(events) {
		return events
	}
	return events[:n]
}
