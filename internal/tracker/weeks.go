package tracker

import "github.com/theirongolddev/p200/internal/model"

// WeekOption is one entry of the week dropdown.
type WeekOption struct {
	Value int    `json:"value"` // 1-based position in feed order
	Text  string `json:"text"`  // the record's label
}

// InitialSelection is the week selected when data first arrives:
// the current week, capped at the record count, never below 1.
func InitialSelection(current, count int) int {
	return max(1, min(current, count))
}

// SelectableWeeks returns the first min(current, len(records)) records as
// dropdown options. Labels are shown as-is; the value is the position.
func SelectableWeeks(records []model.WeekRecord, current int) []WeekOption {
	n := min(max(current, 0), len(records))
	opts := make([]WeekOption, 0, n)
	for i := range n {
		opts = append(opts, WeekOption{Value: i + 1, Text: records[i].Label})
	}
	return opts
}

func hasOption(opts []WeekOption, week int) bool {
	for _, o := range opts {
		if o.Value == week {
			return true
		}
	}
	return false
}
