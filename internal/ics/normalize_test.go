package ics

import (
	"testing"
	"time"

	"icsevents/internal/model"
)

func TestNormalize(t *testing.T) {
	events := []ParsedEvent{
		{UID: "kickoff", Summary: "Kickoff", Location: "HQ", Start: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{UID: "gala", Summary: "Gala", Location: "Hall", Start: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), AllDay: true},
		{UID: "today", Summary: "  ", Location: "", Start: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
	}

	t.Run("future only", func(t *testing.T) {
		got := Normalize(events, NormalizeConfig{DisplayLocation: time.UTC, Today: "2025-06-01"})
		want := []model.Event{
			{Date: "2099-01-01", Location: "Hall", Name: "Gala"},
			{Date: "2025-06-01", Location: model.UnknownLocation, Name: model.NoTitle},
		}
		if len(got) != len(want) {
			t.Fatalf("Expected %d events, got %d: %+v", len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("event %d: expected %+v, got %+v", i, want[i], got[i])
			}
		}
	})

	t.Run("include past keeps everything", func(t *testing.T) {
		got := Normalize(events, NormalizeConfig{DisplayLocation: time.UTC, Today: "2025-06-01", IncludePast: true})
		if len(got) != len(events) {
			t.Errorf("Expected %d events, got %d", len(events), len(got))
		}
	})
}

func TestNormalizeDisplayLocation(t *testing.T) {
	late := ParsedEvent{Summary: "Late call", Start: time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC)}
	allDay := ParsedEvent{Summary: "Holiday", Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), AllDay: true}
	east := time.FixedZone("UTC+9", 9*60*60)
	west := time.FixedZone("UTC-5", -5*60*60)

	got := Normalize([]ParsedEvent{late, allDay}, NormalizeConfig{DisplayLocation: east, IncludePast: true})
	if got[0].Date != "2025-06-02" {
		t.Errorf("Expected timed event to move to 2025-06-02 in UTC+9, got %s", got[0].Date)
	}
	if got[1].Date != "2025-06-01" {
		t.Errorf("Expected all-day date to stay 2025-06-01, got %s", got[1].Date)
	}

	got = Normalize([]ParsedEvent{allDay}, NormalizeConfig{DisplayLocation: west, IncludePast: true})
	if got[0].Date != "2025-06-01" {
		t.Errorf("Expected all-day date to stay 2025-06-01 in UTC-5, got %s", got[0].Date)
	}
}

func TestNormalizeZonedStartUsesDisplayZone(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	body := calendar("UID:berlin@test\nDTSTAMP:20250101T000000Z\nDTSTART;TZID=Europe/Berlin:20990301T003000\nSUMMARY:Berlin")
	parsed, err := ParseICS("test.ics", []byte(body))
	if err != nil {
		t.Fatalf("ParseICS failed: %v", err)
	}

	// 00:30 in Berlin is still the previous afternoon in Los Angeles
	got := Normalize(parsed, NormalizeConfig{DisplayLocation: la, IncludePast: true})
	if len(got) != 1 || got[0].Date != "2099-02-28" {
		t.Errorf("Expected 2099-02-28 in America/Los_Angeles, got %+v", got)
	}
}
