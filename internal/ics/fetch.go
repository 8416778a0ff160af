package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"icsevents/internal/errs"
	appLog "icsevents/internal/log"
)

const (
	defaultFetchTimeout = 15 * time.Second
	maxBodyBytes        = 16 << 20
)

// Fetcher downloads remote calendars.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a Fetcher with the given overall request timeout.
// A zero timeout uses 15 seconds.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxBodyBytes,
	}
}

// IsURL reports whether src should be fetched over HTTP instead of read
// from disk.
func IsURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch GETs rawURL and returns the body. Network failures, non-200
// responses and oversized bodies are FetchErrors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	safe := redactURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.New(errs.FetchError, safe, err)
	}
	req.Header.Set("Accept", "text/calendar, */*;q=0.5")
	req.Header.Set("User-Agent", "icsevents")

	appLog.Info("ics fetch start", "url", safe)

	resp, err := f.client.Do(req)
	if err != nil {
		appLog.Warn("ics fetch failed", "err", err, "url", safe)
		return nil, errs.New(errs.FetchError, safe, stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Newf(errs.FetchError, safe, "unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, errs.New(errs.FetchError, safe, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, errs.Newf(errs.FetchError, safe, "calendar larger than %d bytes", f.maxBytes)
	}

	appLog.Info("ics fetch success", "url", safe, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

// redactURL hides the path and query of a calendar URL, which often carry
// private tokens:
//
//	https://example.com/private/abcd.ics?token=x -> https://example.com/...(redacted)
func redactURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return "ics://...(redacted)"
	}
	base := parsed.Scheme + "://" + parsed.Host
	if (parsed.Path == "" || parsed.Path == "/") && parsed.RawQuery == "" {
		return base
	}
	return base + "/...(redacted)"
}

// stripURL drops the *url.Error wrapper, whose message repeats the full URL.
func stripURL(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return fmt.Errorf("%s: %w", strings.ToLower(ue.Op), ue.Err)
	}
	return err
}
