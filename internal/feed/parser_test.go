package feed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WellFormed(t *testing.T) {
	text := "Header\nWeek 1,1000000,500000,1000000\nWeek 2,2000000,300000,3000000"

	records := Parse(text, Strict)
	require.Len(t, records, 2)

	assert.Equal(t, "Week 1", records[0].Label)
	assert.Equal(t, 1000000.0, records[0].Amount)
	assert.Equal(t, 500000.0, records[0].Change)
	assert.Equal(t, 1000000.0, records[0].Cumulative)

	assert.Equal(t, "Week 2", records[1].Label)
	assert.Equal(t, 3000000.0, records[1].Cumulative)
}

func TestParse_HeaderAlwaysDiscarded(t *testing.T) {
	// The first line is dropped even when it looks like data.
	records := Parse("Week 1,5,0,5\nWeek 2,7,0,12", Strict)
	require.Len(t, records, 1)
	assert.Equal(t, "Week 2", records[0].Label)
}

func TestParse_CRLFAndSurroundingWhitespace(t *testing.T) {
	text := "\n  weeks,amount,change,cumm\r\nWeek 1,10,1,10\r\nWeek 2,20,2,30\r\n\n"
	records := Parse(text, Strict)
	require.Len(t, records, 2)
	assert.Equal(t, 30.0, records[1].Cumulative)
	assert.Equal(t, "Week 2", records[1].Label)
}

func TestParse_StrictDropsMalformedRows(t *testing.T) {
	text := "h\nWeek 1,100,0,100\n,200,0,300\nWeek 3,n/a,0,300\nWeek 4,400,0,700\n"
	records := Parse(text, Strict)
	require.Len(t, records, 2)
	assert.Equal(t, "Week 1", records[0].Label)
	assert.Equal(t, "Week 4", records[1].Label)
}

func TestParse_LenientKeepsEverything(t *testing.T) {
	text := "h\nWeek 1,100,50\n,200,0\nWeek 3,n/a,x"
	records := Parse(text, Lenient)
	require.Len(t, records, 3)
	assert.Equal(t, "", records[1].Label)
	assert.True(t, math.IsNaN(records[2].Amount))
	assert.True(t, math.IsNaN(records[2].Change))
	// Three-column feeds have no cumulative field.
	assert.True(t, math.IsNaN(records[0].Cumulative))
}

func TestParse_RowCountNeverExceedsDataLines(t *testing.T) {
	text := "h\nWeek 1,1,1,1\nWeek 2,2,2,3\nWeek 3,3,3,6\n,,,\nWeek 5,x,,"
	assert.Len(t, Parse(text, Lenient), 5)
	assert.Len(t, Parse(text, Strict), 3)
}

func TestParse_EmbeddedCommaShiftsFields(t *testing.T) {
	// No quoting support: a quoted comma splits the label.
	records := Parse("h\n\"Week 1, final\",100,0,100", Lenient)
	require.Len(t, records, 1)
	assert.Equal(t, "\"Week 1", records[0].Label)
	assert.True(t, math.IsNaN(records[0].Amount))
}

func TestParse_EmptyInput(t *testing.T) {
	assert.Empty(t, Parse("", Strict))
	assert.Empty(t, Parse("header only", Lenient))
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1000000", 1000000},
		{"  42", 42},
		{"3.5", 3.5},
		{"-12", -12},
		{".5", 0.5},
		{"1e3", 1000},
		{"12abc", 12},
		{"7\r", 7},
		{"5e", 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseNumber(c.in), "ParseNumber(%q)", c.in)
	}

	for _, in := range []string{"", "abc", "₦100", "-", "."} {
		assert.True(t, math.IsNaN(ParseNumber(in)), "ParseNumber(%q) should be NaN", in)
	}

	assert.True(t, math.IsInf(ParseNumber("Infinity"), 1))
	assert.True(t, math.IsInf(ParseNumber("-Infinity"), -1))
}
