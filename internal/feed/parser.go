package feed

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/theirongolddev/p200/internal/model"
)

// Mode selects how malformed rows are treated.
type Mode int

const (
	// Strict drops rows whose label is empty or whose amount is not a number.
	Strict Mode = iota
	// Lenient keeps every data row, malformed ones included (fields become NaN).
	Lenient
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// Field positions within a feed row. Fields are split on raw commas: the feed
// never quotes values, so a comma inside a label is not representable.
const (
	fieldLabel = iota
	fieldAmount
	fieldChange
	fieldCumulative
)

// numericPrefix matches the longest leading decimal literal.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// Parse converts feed text into week records in feed order.
// The first line is a header and is always discarded.
func Parse(text string, mode Mode) []model.WeekRecord {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= 1 {
		return []model.WeekRecord{}
	}

	records := make([]model.WeekRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rec := parseRow(strings.TrimSuffix(line, "\r"))
		if mode == Strict && (rec.Label == "" || math.IsNaN(rec.Amount)) {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func parseRow(line string) model.WeekRecord {
	fields := strings.Split(line, ",")
	return model.WeekRecord{
		Label:      field(fields, fieldLabel),
		Amount:     ParseNumber(field(fields, fieldAmount)),
		Change:     ParseNumber(field(fields, fieldChange)),
		Cumulative: ParseNumber(field(fields, fieldCumulative)),
	}
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// ParseNumber reads the leading numeric prefix of s, skipping leading
// whitespace. Trailing garbage is ignored; no numeric prefix yields NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\r\n\v\f")
	m := numericPrefix.FindString(s)
	if m == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out-of-range literals still carry a value (±Inf) from ParseFloat.
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}
