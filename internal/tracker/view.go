package tracker

import (
	"time"

	"github.com/theirongolddev/p200/internal/campaign"
	"github.com/theirongolddev/p200/internal/model"
)

// State is the lifecycle phase of a tracker.
type State int

const (
	Loading State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "loading"
}

// BreakdownRow is one line of the weekly breakdown list.
type BreakdownRow struct {
	Week      model.WeekRecord `json:"week"`
	Highlight bool             `json:"highlight"`
}

// View is everything a surface needs to draw the dashboard.
type View struct {
	Campaign campaign.Campaign `json:"-"`
	Variant  Variant           `json:"variant"`
	State    State             `json:"-"`

	CurrentWeek  int    `json:"currentWeek"`
	SelectedWeek int    `json:"selectedWeek"`
	ActiveWeek   int    `json:"activeWeek"`
	ActiveLabel  string `json:"activeLabel"`
	WeekCount    int    `json:"weekCount"`

	Progress    Progress       `json:"summary"`
	BarWidth    float64        `json:"barWidth"`
	Trending    bool           `json:"trending"`
	ViewingPast bool           `json:"viewingPast"`
	Segments    []Segment      `json:"segments"`
	Breakdown   []BreakdownRow `json:"breakdown"`
	Options     []WeekOption   `json:"options"`

	FetchedAt time.Time `json:"fetchedAt"`
	FeedError string    `json:"feedError,omitempty"`
	Now       time.Time `json:"now"`
}

// Loaded reports whether data has arrived.
func (v View) Loaded() bool { return v.State == Loaded }

// BuildView derives the presentation model. It is a pure function of its
// inputs; selected is ignored by variants that do not allow selection.
func BuildView(c campaign.Campaign, v Variant, records []model.WeekRecord, current, selected int, now time.Time) View {
	active := current
	if v.Selectable() {
		active = selected
	}

	p := Derive(records, active, c.Target, v)
	view := View{
		Campaign:     c,
		Variant:      v,
		State:        Loaded,
		CurrentWeek:  current,
		SelectedWeek: selected,
		ActiveWeek:   active,
		ActiveLabel:  model.WeekLabel(active),
		WeekCount:    len(records),
		Progress:     p,
		BarWidth:     BarWidth(p.Percent),
		Trending:     Trending(p.Percent),
		ViewingPast:  v.Selectable() && selected != current,
		Segments:     Segments(p),
		Breakdown:    make([]BreakdownRow, len(records)),
		Now:          now,
	}
	if v.Selectable() {
		view.Options = SelectableWeeks(records, current)
	}
	for i, r := range records {
		view.Breakdown[i] = BreakdownRow{Week: r, Highlight: r.Label == view.ActiveLabel}
	}
	return view
}
