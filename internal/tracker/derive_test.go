package tracker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/p200/internal/model"
)

const target = 200_000_000

var sample = []model.WeekRecord{
	{Label: "Week 1", Amount: 1_000_000, Change: 500_000, Cumulative: 1_000_000},
	{Label: "Week 2", Amount: 2_000_000, Change: 300_000, Cumulative: 3_000_000},
}

func TestDerive_Cumulative(t *testing.T) {
	p := Derive(sample, 2, target, Cumulative)
	assert.True(t, p.Found)
	assert.Equal(t, 3_000_000.0, p.TotalGiven)
	assert.Equal(t, 197_000_000.0, p.Remaining)
	assert.InDelta(t, 1.5, p.Percent, 1e-9)
}

func TestDerive_QuarterProgress(t *testing.T) {
	recs := []model.WeekRecord{{Label: "Week 1", Amount: 50_000_000, Cumulative: 50_000_000}}
	p := Derive(recs, 1, target, Cumulative)
	assert.Equal(t, 25.0, p.Percent)
	assert.Equal(t, 150_000_000.0, p.Remaining)
}

func TestDerive_WeeklyUsesAmountAndChange(t *testing.T) {
	p := Derive(sample, 2, target, Weekly)
	assert.Equal(t, 2_000_000.0, p.TotalGiven)
	assert.Equal(t, 300_000.0, p.Remaining)
	assert.InDelta(t, 1.0, p.Percent, 1e-9)
}

func TestDerive_MissingRecord(t *testing.T) {
	for _, v := range Variants {
		p := Derive(sample, 7, target, v)
		assert.False(t, p.Found, v)
		assert.Zero(t, p.TotalGiven, v)
		assert.Equal(t, float64(target), p.Remaining, v)
		assert.Zero(t, p.Percent, v)
	}
}

func TestDerive_MatchesByLabelNotPosition(t *testing.T) {
	recs := []model.WeekRecord{
		{Label: "Week 2", Cumulative: 20},
		{Label: "Week 1", Cumulative: 10},
	}
	assert.Equal(t, 10.0, Derive(recs, 1, target, Cumulative).TotalGiven)
}

func TestDerive_OverTarget(t *testing.T) {
	recs := []model.WeekRecord{{Label: "Week 1", Cumulative: 250_000_000}}
	p := Derive(recs, 1, target, Cumulative)
	assert.Equal(t, 125.0, p.Percent)
	assert.Equal(t, -50_000_000.0, p.Remaining)
	assert.Equal(t, 100.0, BarWidth(p.Percent))
}

func TestBarWidth(t *testing.T) {
	cases := map[float64]float64{
		-5:  0,
		0:   0,
		42:  42,
		100: 100,
		180: 100,
	}
	for in, want := range cases {
		assert.Equal(t, want, BarWidth(in), "BarWidth(%v)", in)
	}
	assert.Zero(t, BarWidth(math.NaN()))
}

func TestTrending(t *testing.T) {
	assert.False(t, Trending(10))
	assert.True(t, Trending(10.01))
}

func TestSegments(t *testing.T) {
	segs := Segments(Progress{TotalGiven: 50, Remaining: 150})
	require.Len(t, segs, 2)
	assert.Equal(t, "Total Given", segs[0].Name)
	assert.Equal(t, ColorGiven, segs[0].Color)
	assert.Equal(t, 0.25, segs[0].Share)
	assert.Equal(t, "Remaining", segs[1].Name)
	assert.Equal(t, ColorRemaining, segs[1].Color)
	assert.Equal(t, 0.75, segs[1].Share)
}

func TestSegments_NegativeRemainingDrawsAsZero(t *testing.T) {
	segs := Segments(Progress{TotalGiven: 250, Remaining: -50})
	assert.Equal(t, 1.0, segs[0].Share)
	assert.Zero(t, segs[1].Share)
	assert.Equal(t, -50.0, segs[1].Value)
}

func TestSegments_Empty(t *testing.T) {
	segs := Segments(Progress{})
	assert.Zero(t, segs[0].Share)
	assert.Zero(t, segs[1].Share)
}
