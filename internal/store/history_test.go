package store

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/p200/internal/model"
)

func openTest(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

var records = []model.WeekRecord{
	{Label: "Week 1", Amount: 1_000_000, Change: 500_000, Cumulative: 1_000_000},
	{Label: "Week 2", Amount: math.NaN(), Change: 300_000, Cumulative: 3_000_000},
}

func TestSaveAndLatest(t *testing.T) {
	h := openTest(t)
	raw := "h\nWeek 1,1000000,500000,1000000\nWeek 2,x,300000,3000000"
	at := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

	saved, err := h.Save(raw, records, 3, at)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Save did not assign an ID")
	}
	if saved.Checksum != Checksum(raw) {
		t.Fatalf("Checksum = %x, want %x", saved.Checksum, Checksum(raw))
	}

	got, ok, err := h.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest = %v, %v", ok, err)
	}
	if got.ID != saved.ID || got.Checksum != saved.Checksum {
		t.Fatalf("Latest = %+v, want %+v", got, saved)
	}
	if !got.FetchedAt.Equal(at) {
		t.Fatalf("FetchedAt = %v, want %v", got.FetchedAt, at)
	}
	if got.WeekCount != 2 || got.CurrentWeek != 3 || got.TotalGiven != 3_000_000 {
		t.Fatalf("summary fields = %d, %d, %v", got.WeekCount, got.CurrentWeek, got.TotalGiven)
	}

	weeks, err := h.Weeks(saved.ID)
	if err != nil {
		t.Fatalf("Weeks: %v", err)
	}
	if len(weeks) != 2 || weeks[1].Label != "Week 2" {
		t.Fatalf("Weeks = %+v", weeks)
	}
	if !math.IsNaN(weeks[1].Amount) {
		t.Fatalf("Weeks[1].Amount = %v, want NaN", weeks[1].Amount)
	}
}

func TestLatestEmpty(t *testing.T) {
	h := openTest(t)
	if _, ok, err := h.Latest(); ok || err != nil {
		t.Fatalf("Latest on empty db = %v, %v; want false, nil", ok, err)
	}
}

func TestListOrderAndPrune(t *testing.T) {
	h := openTest(t)
	base := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	for i := range 4 {
		if _, err := h.Save("h", nil, i+1, base.Add(time.Duration(i)*time.Hour+time.Duration(i)*time.Millisecond)); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	list, err := h.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].CurrentWeek != 4 || list[1].CurrentWeek != 3 {
		t.Fatalf("List(2) = %+v", list)
	}
	if !math.IsNaN(list[0].TotalGiven) {
		t.Fatalf("empty snapshot TotalGiven = %v, want NaN", list[0].TotalGiven)
	}

	removed, err := h.Prune(1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 3 {
		t.Fatalf("Prune removed %d, want 3", removed)
	}
	if n, _ := h.Count(); n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	if got, want := DefaultPath(), filepath.Join(dir, "p200", "history.db"); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}
