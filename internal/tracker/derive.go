package tracker

import (
	"encoding/json"
	"math"

	"github.com/theirongolddev/p200/internal/model"
)

// Segment colors of the donut chart.
const (
	ColorGiven     = "#10b981"
	ColorRemaining = "#aa80ff"
)

// Progress holds the derived figures for the active week.
type Progress struct {
	TotalGiven float64 `json:"totalGiven"`
	Remaining  float64 `json:"remaining"`
	Percent    float64 `json:"progress"` // unclamped
	Found      bool    `json:"found"`    // a record labelled with the active week exists
}

// Find returns the record labelled "Week {week}".
func Find(records []model.WeekRecord, week int) (model.WeekRecord, bool) {
	for _, r := range records {
		if r.Is(week) {
			return r, true
		}
	}
	return model.WeekRecord{}, false
}

// Derive computes totalGiven, remaining and progress for the active week.
// A missing record yields a total of 0 and the full target remaining.
func Derive(records []model.WeekRecord, week int, target float64, v Variant) Progress {
	rec, ok := Find(records, week)
	if !ok {
		return Progress{Remaining: target}
	}

	p := Progress{Found: true, TotalGiven: v.Total(rec)}
	switch v.Policy() {
	case FeedChange:
		p.Remaining = rec.Change
	default:
		p.Remaining = target - p.TotalGiven
	}
	if target != 0 {
		p.Percent = p.TotalGiven / target * 100
	}
	return p
}

// BarWidth clamps progress into [0, 100] for the bar fill. NaN yields 0.
func BarWidth(progress float64) float64 {
	if math.IsNaN(progress) {
		return 0
	}
	return math.Min(math.Max(progress, 0), 100)
}

// Trending reports whether the trend marker is shown.
func Trending(progress float64) bool { return progress > 10 }

// Segment is one slice of the donut chart.
type Segment struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Share float64 `json:"share"` // fraction of the drawn whole, 0..1
	Color string  `json:"color"`
}

// Segments returns exactly two slices: given, then remaining.
// Negative or NaN values are drawn as zero.
func Segments(p Progress) []Segment {
	given := drawable(p.TotalGiven)
	remaining := drawable(p.Remaining)
	segs := []Segment{
		{Name: "Total Given", Value: p.TotalGiven, Color: ColorGiven},
		{Name: "Remaining", Value: p.Remaining, Color: ColorRemaining},
	}
	if sum := given + remaining; sum > 0 {
		segs[0].Share = given / sum
		segs[1].Share = remaining / sum
	}
	return segs
}

func drawable(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

// MarshalJSON encodes non-finite figures as null.
func (p Progress) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalGiven *float64 `json:"totalGiven"`
		Remaining  *float64 `json:"remaining"`
		Percent    *float64 `json:"progress"`
		Found      bool     `json:"found"`
	}{model.Finite(p.TotalGiven), model.Finite(p.Remaining), model.Finite(p.Percent), p.Found})
}

// MarshalJSON encodes a non-finite value as null.
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string   `json:"name"`
		Value *float64 `json:"value"`
		Share float64  `json:"share"`
		Color string   `json:"color"`
	}{s.Name, model.Finite(s.Value), s.Share, s.Color})
}
