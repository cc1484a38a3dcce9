package evotri

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.5, s.Avg, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), s.Std, 1e-12)

	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestLogbook(t *testing.T) {
	lb := Logbook{
		{Gen: 0, NEvals: 4, Stats: Stats{Min: 9}},
		{Gen: 1, NEvals: 3, Stats: Stats{Min: 7}},
	}
	assert.Equal(t, []float64{9, 7}, lb.Mins())
	assert.Equal(t, 7, lb.Evaluations())
	assert.Contains(t, lb[1].String(), "gen    1")
}
