// Package model defines the data types shared across the tracker.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// weekLabelPrefix is the textual prefix every feed label carries.
const weekLabelPrefix = "Week "

// WeekRecord is one parsed row of the feed.
// Numeric fields that failed to parse hold NaN.
type WeekRecord struct {
	Label      string  `json:"label" yaml:"label"`
	Amount     float64 `json:"amount" yaml:"amount"`         // given during this week alone
	Change     float64 `json:"change" yaml:"change"`         // auxiliary delta column
	Cumulative float64 `json:"cumulative" yaml:"cumulative"` // running total since campaign start
}

// WeekLabel returns the canonical label for week n, e.g. "Week 3".
func WeekLabel(n int) string {
	return fmt.Sprintf("%s%d", weekLabelPrefix, n)
}

// Number extracts n from a "Week {n}" label.
// Returns false if the label does not follow the pattern.
func (w WeekRecord) Number() (int, bool) {
	rest, ok := strings.CutPrefix(w.Label, weekLabelPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Is reports whether this record is the row for week n.
// Matching is by exact label, not by position.
func (w WeekRecord) Is(n int) bool {
	return w.Label == WeekLabel(n)
}

// Finite returns a pointer to f, or nil when f is NaN or infinite.
// JSON has no encoding for non-finite numbers; nil marshals as null.
func Finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// MarshalJSON encodes unparseable fields as null.
func (w WeekRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label      string   `json:"label"`
		Amount     *float64 `json:"amount"`
		Change     *float64 `json:"change"`
		Cumulative *float64 `json:"cumulative"`
	}{w.Label, Finite(w.Amount), Finite(w.Change), Finite(w.Cumulative)})
}
