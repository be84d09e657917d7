package daemon

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/theirongolddev/p200/internal/campaign"
	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/store"
	"github.com/theirongolddev/p200/internal/tracker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleCSV = "Header\nWeek 1,1000000,500000,1000000\nWeek 2,2000000,300000,3000000"

type stubFetcher struct {
	mu   sync.Mutex
	text string
}

func (s *stubFetcher) Fetch(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, nil
}

func (s *stubFetcher) set(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func newTestService(t *testing.T, src *stubFetcher, cfg Config) *Service {
	t.Helper()
	start, err := time.Parse(time.RFC3339, "2025-11-02T00:00:00+01:00")
	require.NoError(t, err)
	c := campaign.Campaign{Name: "Project 200", Target: 200_000_000, Start: start, Currency: "NGN", Locale: "en-NG"}
	clock := campaign.FixedClock(c.WeekStart(3).Add(time.Hour))
	tr := tracker.New(c, src, tracker.WithClock(clock))
	return New(tr, cfg)
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Checksum:  "a",
		WeekCount: 2,
		Progress:  tracker.Progress{TotalGiven: 3_000_000, Remaining: 197_000_000},
	}
	curr := Snapshot{
		Checksum:  "b",
		WeekCount: 3,
		Progress:  tracker.Progress{TotalGiven: 4_500_000, Remaining: 195_500_000},
	}

	delta := diffSnapshots(prev, curr)
	if delta.Weeks != 1 {
		t.Fatalf("Weeks delta = %d, want 1", delta.Weeks)
	}
	if delta.TotalGiven != 1_500_000 {
		t.Fatalf("TotalGiven delta = %.0f, want 1500000", delta.TotalGiven)
	}
	if delta.Remaining != -1_500_000 {
		t.Fatalf("Remaining delta = %.0f, want -1500000", delta.Remaining)
	}
	if !delta.FeedChanged {
		t.Fatal("FeedChanged = false, want true")
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestDiffSnapshotsIgnoresNaN(t *testing.T) {
	prev := Snapshot{Checksum: "a", Progress: tracker.Progress{TotalGiven: math.NaN()}}
	curr := Snapshot{Checksum: "a", Progress: tracker.Progress{TotalGiven: math.NaN()}}
	if d := diffSnapshots(prev, curr); !d.isZero() {
		t.Fatalf("delta = %+v, want zero", d)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(t, &stubFetcher{}, Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollEmitsOnFeedChange(t *testing.T) {
	h, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	src := &stubFetcher{text: sampleCSV}
	s := newTestService(t, src, Config{History: h})
	ctx := context.Background()

	s.pollOnce(ctx)
	s.pollOnce(ctx) // unchanged feed, no event
	src.set(sampleCSV + "\nWeek 3,1500000,0,4500000")
	s.pollOnce(ctx)

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()

	require.Len(t, events, 2)
	assert.Equal(t, EventSnapshot, events[0].Type)
	assert.Equal(t, EventFeedChanged, events[1].Type)
	assert.Equal(t, 1, events[1].Delta.Weeks)
	assert.Equal(t, 3, events[1].Snapshot.ActiveWeek)
	assert.Equal(t, 4_500_000.0, events[1].Snapshot.Progress.TotalGiven)

	n, err := h.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.snapshotStatus().StoredSnapshots)
}

func TestHandlers(t *testing.T) {
	src := &stubFetcher{text: sampleCSV}
	footer := config.DefaultConfig().Footer
	s := newTestService(t, src, Config{Footer: &footer})
	s.pollOnce(context.Background())
	h := s.Handler()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = get("/v1/view?week=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		ActiveWeek  int  `json:"activeWeek"`
		ViewingPast bool `json:"viewingPast"`
		Summary     struct {
			TotalGiven float64 `json:"totalGiven"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1, view.ActiveWeek)
	assert.True(t, view.ViewingPast)
	assert.Equal(t, 1_000_000.0, view.Summary.TotalGiven)

	assert.Equal(t, http.StatusBadRequest, get("/v1/view?week=9").Code)
	assert.Equal(t, http.StatusBadRequest, get("/v1/view?week=two").Code)

	rec = get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Project 200 Tracker")
	assert.Contains(t, body, "Viewing past data (Current: Week 3)")
	assert.Contains(t, body, "Viewing Week 2 of 2")
	assert.Contains(t, body, "3,000,000")
	assert.Contains(t, body, "All rights reserved.")

	assert.Equal(t, http.StatusNotFound, get("/nope").Code)

	rec = get("/chart.svg")
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = get("/v1/status")
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, int64(1), st.PollCount)
	assert.Equal(t, "cumulative", st.Variant)
	assert.Equal(t, 1, st.EventCount)
}

func TestServeStopsOnCancel(t *testing.T) {
	s := newTestService(t, &stubFetcher{text: sampleCSV}, Config{Interval: time.Hour})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	defer transport.CloseIdleConnections()

	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestStreamSendsCurrentSnapshot(t *testing.T) {
	s := newTestService(t, &stubFetcher{text: sampleCSV}, Config{})
	s.pollOnce(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	cancel() // handler writes the current snapshot, then sees the closed context

	s.handleStream(rec, req)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: snapshot\n"), body)
	assert.Contains(t, body, `"week_count":2`)
}
