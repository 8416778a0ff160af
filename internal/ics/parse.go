package ics

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	ical "github.com/arran4/golang-ical"

	"icsevents/internal/errs"
	appLog "icsevents/internal/log"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParsedEvent is the part of a VEVENT this tool works with.
type ParsedEvent struct {
	UID string

	Summary  string
	Location string

	// Start is the DTSTART instant. For all-day events it holds the calendar
	// date at 00:00 UTC and must not be converted to another zone.
	Start  time.Time
	AllDay bool
}

// Load reads the calendar named by src, which is either a filesystem path or
// an http(s) URL fetched through f, and parses its events.
func Load(ctx context.Context, src string, f *Fetcher) ([]ParsedEvent, error) {
	var (
		body []byte
		err  error
	)
	if IsURL(src) {
		if f == nil {
			f = NewFetcher(0)
		}
		body, err = f.Fetch(ctx, src)
	} else {
		body, err = ReadFile(src)
	}
	if err != nil {
		return nil, err
	}
	return ParseICS(src, body)
}

// ReadFile reads a calendar file, classifying a missing file separately from
// other read failures.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.New(errs.FileNotFound, path, err)
		}
		return nil, errs.New(errs.ReadError, path, err)
	}
	return data, nil
}

// ParseICS decodes body as a UTF-8 iCalendar document and returns its VEVENTs
// in document order.
//
//   - A leading UTF-8 BOM is ignored.
//   - Invalid UTF-8 is an EncodingError; anything that is not a complete
//     VCALENDAR is a ParseError.
//   - Events without DTSTART are skipped and logged. A DTSTART that is
//     present but cannot be read fails the whole document.
func ParseICS(name string, body []byte) ([]ParsedEvent, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		return nil, errs.New(errs.EncodingError, name, errors.New("invalid UTF-8"))
	}
	if err := checkEnvelope(body); err != nil {
		return nil, errs.New(errs.ParseError, name, err)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Warn("ics parse failed", "err", err, "src", displayName(name))
		return nil, errs.New(errs.ParseError, name, err)
	}
	if cal == nil {
		return nil, errs.New(errs.ParseError, name, errors.New("no calendar found"))
	}

	events := make([]ParsedEvent, 0)
	skipped := 0

	for _, comp := range cal.Events() {
		ev, ok, perr := parseVEvent(comp)
		if perr != nil {
			return nil, errs.New(errs.ParseError, name, perr)
		}
		if !ok {
			skipped++
			appLog.Warn("ics vevent without DTSTART skipped", "src", displayName(name), "uid", ev.UID)
			continue
		}
		events = append(events, ev)
	}

	appLog.Info("ics parse completed", "src", displayName(name), "event_count", len(events), "skipped", skipped)
	return events, nil
}

// checkEnvelope verifies the document is framed by BEGIN:VCALENDAR and
// END:VCALENDAR, which catches plain text and truncated downloads before the
// component parser sees them.
func checkEnvelope(body []byte) error {
	var first, last string
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), len(body)+1)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if first == "" {
			first = line
		}
		last = line
	}
	if err := sc.Err(); err != nil {
		return err
	}

	switch {
	case first == "":
		return errors.New("empty calendar")
	case !strings.EqualFold(first, "BEGIN:VCALENDAR"):
		return fmt.Errorf("expected BEGIN:VCALENDAR, got %q", truncate(first, 40))
	case !strings.EqualFold(last, "END:VCALENDAR"):
		return errors.New("missing END:VCALENDAR (truncated file?)")
	}
	return nil
}

// parseVEvent extracts UID, SUMMARY, LOCATION and DTSTART. ok is false when
// the event has no DTSTART at all.
func parseVEvent(ve *ical.VEvent) (out ParsedEvent, ok bool, err error) {
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = unescapeText(p.Value)
	}

	dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStartProp == nil || strings.TrimSpace(dtStartProp.Value) == "" {
		return out, false, nil
	}
	val := strings.TrimSpace(dtStartProp.Value)

	// VALUE=DATE or no 'T' in the value -> all-day
	if params := dtStartProp.ICalParameters; params != nil {
		if vs, found := params["VALUE"]; found && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
	}
	if !strings.Contains(val, "T") {
		out.AllDay = true
	}

	if out.AllDay {
		d, perr := time.Parse("20060102", val)
		if perr != nil {
			return out, false, fmt.Errorf("event %q: invalid DTSTART date %q", out.UID, val)
		}
		out.Start = d
		return out, true, nil
	}

	// The library reads a TZID it cannot load as UTC wall time; such starts
	// are treated as floating local time instead.
	if tzid, known := startZone(dtStartProp); !known {
		appLog.Warn("ics unknown TZID, using local time", "uid", out.UID, "tzid", tzid)
		start, perr := parseICSTime(strings.TrimSuffix(val, "Z"))
		if perr != nil {
			return out, false, fmt.Errorf("event %q: invalid DTSTART %q", out.UID, val)
		}
		out.Start = start
		return out, true, nil
	}

	start, gerr := ve.GetStartAt()
	if gerr != nil {
		start, gerr = parseICSTime(val)
		if gerr != nil {
			return out, false, fmt.Errorf("event %q: invalid DTSTART %q", out.UID, val)
		}
	}
	out.Start = start
	return out, true, nil
}

// startZone returns the DTSTART TZID and whether it names a loadable zone.
// A DTSTART without TZID counts as known.
func startZone(p *ical.IANAProperty) (string, bool) {
	vs := p.ICalParameters["TZID"]
	if len(vs) == 0 || strings.TrimSpace(vs[0]) == "" {
		return "", true
	}
	tzid := strings.Trim(strings.TrimSpace(vs[0]), `"`)
	_, err := time.LoadLocation(tzid)
	return tzid, err == nil
}

// parseICSTime parses the UTC (20250101T090000Z) and floating
// (20250101T090000) DATE-TIME forms. Floating times are read as local time.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	return time.ParseInLocation("20060102T150405", v, time.Local)
}

// unescapeText reverses RFC 5545 TEXT escaping.
func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch next := s[i+1]; next {
			case 'n', 'N':
				b.WriteByte('\n')
				i++
				continue
			case ',', ';', '\\':
				b.WriteByte(next)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func displayName(src string) string {
	if IsURL(src) {
		return redactURL(src)
	}
	return src
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
