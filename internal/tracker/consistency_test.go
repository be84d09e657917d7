package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/p200/internal/model"
)

func TestCheckConsistency_Clean(t *testing.T) {
	assert.Empty(t, CheckConsistency(sample))
}

func TestCheckConsistency_Problems(t *testing.T) {
	recs := []model.WeekRecord{
		{Label: "Week 1", Amount: 10, Cumulative: 10},
		{Label: "Week 1", Amount: 5, Cumulative: 15},
		{Label: "Week 3", Amount: 1, Cumulative: 12},
	}
	warns := CheckConsistency(recs)

	var msgs []string
	for _, w := range warns {
		msgs = append(msgs, w.String())
	}
	assert.Contains(t, msgs, "row 2 (Week 1): duplicate label (first seen at row 1)")
	assert.Contains(t, msgs, "row 2 (Week 1): expected Week 2")
	assert.Contains(t, msgs, "row 3 (Week 3): cumulative decreased from 15 to 12")
	assert.Contains(t, msgs, "row 3 (Week 3): amount 1 does not match cumulative delta -3")
}
