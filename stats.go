package evotri

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the fitness of a population.
type Stats struct {
	Min float64
	Max float64
	Avg float64
	// Std is the population standard deviation.
	Std float64
}

// Summarize computes Stats over values. An empty slice yields the zero value.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	avg, std := stat.PopMeanStdDev(values, nil)
	return Stats{
		Min: floats.Min(values),
		Max: floats.Max(values),
		Avg: avg,
		Std: std,
	}
}

// Record is one generation entry of the logbook.
type Record struct {
	Gen    int
	NEvals int
	Stats
}

func (r Record) String() string {
	return fmt.Sprintf("gen %4d  nevals %4d  min %12.4f  avg %12.4f  std %12.4f  max %12.4f",
		r.Gen, r.NEvals, r.Min, r.Avg, r.Std, r.Max)
}

// Logbook holds one record per generation, in generation order.
type Logbook []Record

// Mins returns the per-generation minimum fitness.
func (l Logbook) Mins() []float64 {
	out := make([]float64, len(l))
	for i, r := range l {
		out[i] = r.Min
	}
	return out
}

// Evaluations returns the total number of fitness evaluations recorded.
func (l Logbook) Evaluations() int {
	var n int
	for _, r := range l {
		n += r.NEvals
	}
	return n
}
