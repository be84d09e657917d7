// Package daemon serves the tracker dashboard over HTTP and keeps it fresh
// by polling the feed in the background.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/p200/internal/campaign"
	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/feed"
	"github.com/theirongolddev/p200/internal/store"
	"github.com/theirongolddev/p200/internal/tracker"
)

// Reloader rebuilds the campaign and fetcher from configuration.
type Reloader func() (campaign.Campaign, feed.Fetcher, error)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	ConfigPath   string               // watched for changes when Reload is set
	Reload       Reloader             // optional
	History      *store.History       // optional; stores each changed feed
	Footer       *config.FooterConfig // optional decorative footer on the HTML page
	Logger       *zap.Logger
}

// Snapshot is a compact dashboard state for status/event payloads.
type Snapshot struct {
	At          time.Time        `json:"at"`
	Checksum    string           `json:"checksum"`
	WeekCount   int              `json:"week_count"`
	CurrentWeek int              `json:"current_week"`
	ActiveWeek  int              `json:"active_week"`
	Progress    tracker.Progress `json:"progress"`
	FeedError   string           `json:"feed_error,omitempty"`
}

// Delta captures snapshot deltas between polls. Non-finite figures count as zero.
type Delta struct {
	Weeks       int     `json:"weeks"`
	TotalGiven  float64 `json:"total_given"`
	Remaining   float64 `json:"remaining"`
	FeedChanged bool    `json:"feed_changed"`
}

func (d Delta) isZero() bool {
	return d.Weeks == 0 &&
		d.TotalGiven == 0 &&
		d.Remaining == 0 &&
		!d.FeedChanged
}

// Event types.
const (
	EventSnapshot       = "snapshot"
	EventFeedChanged    = "feed_changed"
	EventConfigReloaded = "config_reloaded"
)

// Event is emitted whenever the dashboard state changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	FeedURL         string    `json:"feed_url"`
	Variant         string    `json:"variant"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
	StoredSnapshots int       `json:"stored_snapshots"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	tracker *tracker.Tracker
	log     *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	stored      int
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service for t with the provided config.
func New(t *tracker.Tracker, cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8200"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		tracker:   t,
		log:       cfg.Logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/chart.svg", s.handleChart)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/view", s.handleView)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints, polling and the config watcher until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("daemon listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("serving dashboard", zap.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		// Seed initial snapshot so status is useful immediately.
		s.pollOnce(ctx)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce(ctx)
			}
		}
	})

	if s.cfg.ConfigPath != "" && s.cfg.Reload != nil {
		w := NewConfigWatcher(s.cfg.ConfigPath, func() { s.reload(ctx) }, s.log)
		g.Go(func() error {
			if err := w.Run(ctx); err != nil {
				// A missing config directory only disables live reload.
				s.log.Warn("config watch disabled", zap.Error(err))
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) pollOnce(ctx context.Context) {
	res := s.tracker.Load(ctx)
	now := time.Now()
	view := s.tracker.View()

	snap := snapshotFromView(view, res.Raw, now)
	if res.Err != nil {
		snap.FeedError = res.Err.Error()
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = snap.FeedError

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      EventFeedChanged,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	s.log.Debug("poll complete",
		zap.Int("weeks", snap.WeekCount),
		zap.String("checksum", snap.Checksum),
		zap.Bool("changed", publish),
	)

	if publish {
		s.publishEvent(ev)
		if res.Err == nil {
			s.record(res, view.CurrentWeek)
		}
	}
}

// record stores the fetched feed unless the newest stored copy is identical.
func (s *Service) record(res feed.Result, currentWeek int) {
	h := s.cfg.History
	if h == nil {
		return
	}
	if latest, ok, err := h.Latest(); err == nil && ok && latest.Checksum == store.Checksum(res.Raw) {
		return
	}
	if _, err := h.Save(res.Raw, res.Records, currentWeek, res.FetchedAt); err != nil {
		s.log.Warn("saving snapshot", zap.Error(err))
		return
	}
	n, _ := h.Count()
	s.mu.Lock()
	s.stored = n
	s.mu.Unlock()
}

func (s *Service) reload(ctx context.Context) {
	c, src, err := s.cfg.Reload()
	if err != nil {
		s.log.Error("config reload failed", zap.Error(err))
		return
	}
	s.tracker.Reconfigure(c, src)
	s.log.Info("config reloaded", zap.Float64("target", c.Target), zap.String("feed", c.FeedURL))

	s.pollOnce(ctx)

	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      EventConfigReloaded,
		Timestamp: time.Now(),
		Snapshot:  s.snapshot,
	}
	s.mu.Unlock()
	s.publishEvent(ev)
}

func snapshotFromView(v tracker.View, raw string, at time.Time) Snapshot {
	return Snapshot{
		At:          at,
		Checksum:    fmt.Sprintf("%016x", store.Checksum(raw)),
		WeekCount:   v.WeekCount,
		CurrentWeek: v.CurrentWeek,
		ActiveWeek:  v.ActiveWeek,
		Progress:    v.Progress,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Weeks:       curr.WeekCount - prev.WeekCount,
		TotalGiven:  finite(curr.Progress.TotalGiven) - finite(prev.Progress.TotalGiven),
		Remaining:   finite(curr.Progress.Remaining) - finite(prev.Progress.Remaining),
		FeedChanged: curr.Checksum != prev.Checksum,
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	c := s.tracker.Campaign()
	variant := s.tracker.Variant()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		FeedURL:         c.FeedURL,
		Variant:         variant.String(),
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
		StoredSnapshots: s.stored,
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
