package tracker

import (
	"fmt"
	"math"

	"github.com/theirongolddev/p200/internal/model"
)

// Warning describes a record that breaks an assumption about the feed.
// Warnings are informational; derived figures never change because of them.
type Warning struct {
	Row     int    `json:"row"` // 1-based position in feed order
	Label   string `json:"label"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d (%s): %s", w.Row, w.Label, w.Message)
}

// amountTolerance absorbs rounding in spreadsheet exports.
const amountTolerance = 0.5

// CheckConsistency reports duplicate or out-of-sequence labels, decreasing
// cumulative totals and amounts that disagree with the cumulative delta.
func CheckConsistency(records []model.WeekRecord) []Warning {
	var warns []Warning
	seen := make(map[string]int, len(records))
	prevCum := math.NaN()

	for i, r := range records {
		row := i + 1
		add := func(format string, args ...any) {
			warns = append(warns, Warning{Row: row, Label: r.Label, Message: fmt.Sprintf(format, args...)})
		}

		if first, dup := seen[r.Label]; dup {
			add("duplicate label (first seen at row %d)", first)
		} else {
			seen[r.Label] = row
		}

		if n, ok := r.Number(); !ok {
			add("label is not of the form \"Week N\"")
		} else if n != row {
			add("expected %s", model.WeekLabel(row))
		}

		if math.IsNaN(r.Cumulative) {
			add("cumulative is not a number")
			continue
		}
		if !math.IsNaN(prevCum) {
			if r.Cumulative < prevCum {
				add("cumulative decreased from %.0f to %.0f", prevCum, r.Cumulative)
			}
			if !math.IsNaN(r.Amount) && math.Abs(r.Cumulative-prevCum-r.Amount) > amountTolerance {
				add("amount %.0f does not match cumulative delta %.0f", r.Amount, r.Cumulative-prevCum)
			}
		} else if i == 0 && !math.IsNaN(r.Amount) && math.Abs(r.Cumulative-r.Amount) > amountTolerance {
			add("first week amount %.0f differs from cumulative %.0f", r.Amount, r.Cumulative)
		}
		prevCum = r.Cumulative
	}
	return warns
}
