// Package tracker turns feed records into the dashboard presentation model
// and holds the selection state of one viewing session.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/p200/internal/campaign"
	"github.com/theirongolddev/p200/internal/feed"
	"github.com/theirongolddev/p200/internal/model"
)

var (
	// ErrWeekNotSelectable is returned when the requested week is not a dropdown option.
	ErrWeekNotSelectable = errors.New("tracker: week not selectable")
	// ErrSelectionUnsupported is returned when the variant has no week selection.
	ErrSelectionUnsupported = errors.New("tracker: variant does not support week selection")
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock pins the clock used for the current week.
func WithClock(c campaign.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithVariant chooses the dashboard variant. The default is Cumulative.
func WithVariant(v Variant) Option {
	return func(t *Tracker) { t.variant = v }
}

// Tracker is one viewing session. It is safe for concurrent use.
type Tracker struct {
	mu sync.RWMutex

	campaign campaign.Campaign
	src      feed.Fetcher
	clock    campaign.Clock
	variant  Variant
	log      *zap.Logger

	state     State
	records   []model.WeekRecord
	current   int
	selected  int
	pinned    bool // selection came from Select, not from InitialSelection
	loadedAt  time.Time
	fetchedAt time.Time
	fetchErr  error
}

// New creates a tracker in the Loading state.
func New(c campaign.Campaign, src feed.Fetcher, opts ...Option) *Tracker {
	t := &Tracker{
		campaign: c,
		src:      src,
		clock:    campaign.SystemClock{},
		variant:  Cumulative,
		log:      zap.NewNop(),
		records:  []model.WeekRecord{},
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Load fetches and parses the feed once and moves the tracker to Loaded.
// The result's FetchedAt is taken from the tracker clock.
// A failed fetch still completes the load, with no records. A week chosen
// through Select survives a reload while it stays selectable; otherwise the
// selection follows the current week.
func (t *Tracker) Load(ctx context.Context) feed.Result {
	t.mu.RLock()
	mode, src := t.variant.Mode(), t.src
	t.mu.RUnlock()

	res := feed.Load(ctx, src, mode, t.log)
	now := t.clock.Now()
	res.FetchedAt = now

	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = res.Records
	t.fetchedAt = res.FetchedAt
	t.fetchErr = res.Err
	t.loadedAt = now
	t.current = t.campaign.CurrentWeek(now)

	opts := SelectableWeeks(t.records, t.current)
	if !t.pinned || !hasOption(opts, t.selected) {
		t.selected = InitialSelection(t.current, len(t.records))
		t.pinned = false
	}
	t.state = Loaded

	t.log.Info("tracker loaded",
		zap.Int("records", len(t.records)),
		zap.Int("current_week", t.current),
		zap.Int("selected_week", t.selected),
		zap.Stringer("variant", t.variant),
	)
	for _, w := range CheckConsistency(t.records) {
		t.log.Warn("feed inconsistency", zap.String("detail", w.String()))
	}
	return res
}

// Select makes week the active week.
func (t *Tracker) Select(week int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.variant.Selectable() {
		return ErrSelectionUnsupported
	}
	if !hasOption(SelectableWeeks(t.records, t.current), week) {
		return fmt.Errorf("%w: week %d (current week %d, %d records)",
			ErrWeekNotSelectable, week, t.current, len(t.records))
	}
	t.selected = week
	t.pinned = true
	return nil
}

// View returns the presentation model for the current state.
func (t *Tracker) View() View {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.state != Loaded {
		return View{
			Campaign: t.campaign,
			Variant:  t.variant,
			State:    Loading,
			Now:      t.clock.Now(),
		}
	}
	v := BuildView(t.campaign, t.variant, t.records, t.current, t.selected, t.clock.Now())
	v.FetchedAt = t.fetchedAt
	if t.fetchErr != nil {
		v.FeedError = t.fetchErr.Error()
	}
	return v
}

// ViewWeek builds the view for week without changing the session selection.
func (t *Tracker) ViewWeek(week int) (View, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.variant.Selectable() {
		return View{}, ErrSelectionUnsupported
	}
	if !hasOption(SelectableWeeks(t.records, t.current), week) {
		return View{}, fmt.Errorf("%w: week %d", ErrWeekNotSelectable, week)
	}
	v := BuildView(t.campaign, t.variant, t.records, t.current, week, t.clock.Now())
	v.FetchedAt = t.fetchedAt
	if t.fetchErr != nil {
		v.FeedError = t.fetchErr.Error()
	}
	return v, nil
}

// State returns the lifecycle phase.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Records returns a copy of the parsed records.
func (t *Tracker) Records() []model.WeekRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]model.WeekRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Campaign returns the campaign the tracker reports on.
func (t *Tracker) Campaign() campaign.Campaign {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.campaign
}

// Variant returns the dashboard variant.
func (t *Tracker) Variant() Variant {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.variant
}

// Reconfigure swaps the campaign and fetcher. The next Load applies them.
// A nil src keeps the current fetcher.
func (t *Tracker) Reconfigure(c campaign.Campaign, src feed.Fetcher) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.campaign = c
	if src != nil {
		t.src = src
	}
}
