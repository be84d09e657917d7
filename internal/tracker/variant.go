package tracker

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/p200/internal/feed"
	"github.com/theirongolddev/p200/internal/model"
)

// Variant names one of the two dashboard behaviours the feed supports.
type Variant string

const (
	// Cumulative reads the running total and lets the viewer pick a past week.
	Cumulative Variant = "cumulative"
	// Weekly reads the per-week amount of the current week only.
	Weekly Variant = "weekly"
)

// Variants lists every known variant, default first.
var Variants = []Variant{Cumulative, Weekly}

// RemainingPolicy names how the remaining amount is obtained.
type RemainingPolicy string

const (
	// TargetMinusTotal computes remaining as target minus totalGiven.
	TargetMinusTotal RemainingPolicy = "target-minus-total"
	// FeedChange takes the record's change column verbatim.
	FeedChange RemainingPolicy = "feed-change"
)

// Describe is the reader-facing wording of the policy.
func (p RemainingPolicy) Describe() string {
	switch p {
	case TargetMinusTotal:
		return "target minus total given"
	case FeedChange:
		return "as reported in the sheet"
	}
	return string(p)
}

// ParseVariant resolves a variant name. The empty string selects Cumulative.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", Cumulative:
		return Cumulative, nil
	case Weekly:
		return Weekly, nil
	}
	return "", fmt.Errorf("unknown variant %q (want %s or %s)", s, Cumulative, Weekly)
}

// Mode returns the parse mode the variant reads the feed with.
func (v Variant) Mode() feed.Mode {
	if v == Weekly {
		return feed.Lenient
	}
	return feed.Strict
}

// Selectable reports whether the viewer may choose the active week.
func (v Variant) Selectable() bool { return v != Weekly }

// Policy returns the variant's remaining-amount policy.
func (v Variant) Policy() RemainingPolicy {
	if v == Weekly {
		return FeedChange
	}
	return TargetMinusTotal
}

// Total returns the amount the variant counts as given for rec.
func (v Variant) Total(rec model.WeekRecord) float64 {
	if v == Weekly {
		return rec.Amount
	}
	return rec.Cumulative
}

// Marker is the breakdown annotation for the highlighted row.
func (v Variant) Marker() string {
	if v == Weekly {
		return "current"
	}
	return "selected"
}

func (v Variant) String() string { return string(v) }
