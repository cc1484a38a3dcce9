package evotri

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
)

var (
	// ErrConfig reports a malformed run configuration.
	ErrConfig = errors.New("invalid configuration")
	// ErrInvalidMethod reports an unknown local search perturbation method.
	ErrInvalidMethod = errors.New("invalid method")
	// ErrEvaluation reports an individual that could not be rendered or scored.
	ErrEvaluation = errors.New("evaluation failed")
)

// Selection strategy identifiers.
const (
	SelectBest       = "best"
	SelectTournament = "tournament"
)

// Comparison orders fitness values. Every component that ranks individuals
// receives one by value.
type Comparison interface {
	// Better reports whether a is strictly better than b.
	Better(a, b float64) bool
}

// Minimize is the default comparison policy: lower values are better.
type Minimize struct{}

// Better implements Comparison.
func (Minimize) Better(a, b float64) bool { return a < b }

// orMinimize returns c, or Minimize when c is nil.
func orMinimize(c Comparison) Comparison {
	if c == nil {
		return Minimize{}
	}
	return c
}

// Config holds the parameters of an evolutionary run. It is read-only once a run starts.
type Config struct {
	Mu     int     // population size
	Lambda int     // offspring per generation
	CxPb   float64 // crossover probability per offspring
	MutPb  float64 // mutation probability per offspring
	IndPb  float64 // mutation probability per vertex
	NGen   int     // generation budget

	// GaussianRate scales the mutation sigma by the image dimension.
	GaussianRate float64
	// EdgeRate is the chance a fresh vertex is drawn from the edge points.
	EdgeRate float64

	Selection      string
	TournamentSize int

	// Workers is the evaluation parallelism. One evaluates inline.
	Workers int
	// VertexCount is the number of interior vertices. Zero derives it from the image entropy.
	VertexCount int
	// HallOfFameSize bounds the best-ever archive.
	HallOfFameSize int

	// Outline strokes every triangle when set.
	Outline color.Color
	// Seed drives every random decision of the run. Zero seeds from the clock.
	Seed int64

	// Compare ranks fitness values. Nil means Minimize.
	Compare Comparison
	Logger  *slog.Logger
}

// DefaultConfig returns the defaults of the command line tool.
func DefaultConfig() Config {
	return Config{
		Mu:             50,
		Lambda:         50,
		CxPb:           0.8,
		MutPb:          0.1,
		IndPb:          0.1,
		NGen:           100,
		GaussianRate:   0.05,
		EdgeRate:       0.5,
		Selection:      SelectBest,
		TournamentSize: 3,
		Workers:        1,
		HallOfFameSize: 1,
		Compare:        Minimize{},
	}
}

// Validate reports the first malformed field wrapped in ErrConfig.
func (c Config) Validate() error {
	probability := func(name string, p float64) error {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %v", ErrConfig, name, p)
		}
		return nil
	}

	switch {
	case c.Mu < 1:
		return fmt.Errorf("%w: population size must be greater than 0", ErrConfig)
	case c.Lambda < 1:
		return fmt.Errorf("%w: offspring size must be greater than 0", ErrConfig)
	case c.NGen < 0:
		return fmt.Errorf("%w: generation budget must not be negative", ErrConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: worker count must be greater than 0", ErrConfig)
	case c.VertexCount < 0:
		return fmt.Errorf("%w: vertex count must not be negative", ErrConfig)
	case c.GaussianRate < 0:
		return fmt.Errorf("%w: gaussian rate must not be negative", ErrConfig)
	case c.HallOfFameSize < 1:
		return fmt.Errorf("%w: hall of fame size must be greater than 0", ErrConfig)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{{"crossover probability", c.CxPb}, {"mutation probability", c.MutPb}, {"gene mutation probability", c.IndPb}, {"edge rate", c.EdgeRate}} {
		if err := probability(p.name, p.v); err != nil {
			return err
		}
	}
	if c.CxPb+c.MutPb > 1 {
		return fmt.Errorf("%w: crossover and mutation probabilities must sum to at most 1", ErrConfig)
	}
	if c.CxPb > 0 && c.Mu < 2 {
		return fmt.Errorf("%w: crossover needs a population of at least 2", ErrConfig)
	}
	if _, err := NewSelector(c.Selection, c.TournamentSize, c.Compare); err != nil {
		return err
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
