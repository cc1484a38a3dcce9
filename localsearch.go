package evotri

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// Local search perturbation methods.
const (
	MethodGaussian    = "gaussian"
	MethodLocalSearch = "local_search"
)

// LocalSearchOptions configures the single individual baseline.
type LocalSearchOptions struct {
	// Method is MethodGaussian or MethodLocalSearch.
	Method string
	// Threshold is the gaussian standard deviation, or the half width of the
	// exhaustive delta range.
	Threshold int
	MaxIter   int
	MaxEvals  int
	// EdgeRate is the chance an initial vertex is drawn from the edge points.
	EdgeRate float64
	Seed     int64
	// Compare ranks fitness values. Nil means Minimize.
	Compare Comparison
	Logger  *slog.Logger
}

// DefaultLocalSearchOptions mirrors the command line defaults.
func DefaultLocalSearchOptions() LocalSearchOptions {
	return LocalSearchOptions{
		Method:    MethodGaussian,
		Threshold: 5,
		MaxIter:   100,
		MaxEvals:  100,
		EdgeRate:  0.5,
		Compare:   Minimize{},
	}
}

// LocalResult is the outcome of a local search.
type LocalResult struct {
	Genome      []int
	Fitness     float64
	Initial     float64
	Iterations  int
	Evaluations int
}

// LocalSearch perturbs one coordinate per iteration and keeps improving moves.
type LocalSearch struct {
	opts LocalSearchOptions
	ref  *Reference
	eval EvalFunc
	rng  *rand.Rand
	log  *slog.Logger
}

// NewLocalSearch validates opts against ref. An unknown method fails with ErrInvalidMethod.
func NewLocalSearch(ref *Reference, opts LocalSearchOptions) (*LocalSearch, error) {
	if opts.Method != MethodGaussian && opts.Method != MethodLocalSearch {
		return nil, fmt.Errorf("%w: %q, try %s or %s", ErrInvalidMethod, opts.Method, MethodGaussian, MethodLocalSearch)
	}
	switch {
	case ref == nil:
		return nil, fmt.Errorf("%w: missing reference image", ErrConfig)
	case opts.Threshold < 1:
		return nil, fmt.Errorf("%w: threshold must be at least 1", ErrConfig)
	case opts.MaxIter < 1:
		return nil, fmt.Errorf("%w: max iter must be at least 1", ErrConfig)
	case opts.MaxEvals < 1:
		return nil, fmt.Errorf("%w: max evals must be at least 1", ErrConfig)
	case opts.EdgeRate < 0 || opts.EdgeRate > 1:
		return nil, fmt.Errorf("%w: edge rate must be between 0 and 1, got %v", ErrConfig, opts.EdgeRate)
	}
	opts.Compare = orMinimize(opts.Compare)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := opts.Logger
	if log == nil {
		log = Config{}.logger()
	}
	return &LocalSearch{
		opts: opts,
		ref:  ref,
		eval: NewCodec(ref).Evaluate,
		rng:  rand.New(rand.NewSource(seed)),
		log:  log,
	}, nil
}

// WithEvaluator replaces the fitness function.
func (ls *LocalSearch) WithEvaluator(eval EvalFunc) *LocalSearch {
	ls.eval = eval
	return ls
}

// Initial draws a starting genome of n vertices, biased toward the edge points by EdgeRate.
func (ls *LocalSearch) Initial(n int) []int {
	return Initialize(ls.rng, ls.ref, n, ls.opts.EdgeRate)
}

// Solve improves a copy of genome until MaxIter iterations or MaxEvals evaluations
// are spent. ctx is checked between iterations.
func (ls *LocalSearch) Solve(ctx context.Context, genome []int) (*LocalResult, error) {
	if len(genome) == 0 {
		return nil, fmt.Errorf("%w: empty genome", ErrConfig)
	}
	g := make([]int, len(genome))
	copy(g, genome)

	best, err := ls.eval(g)
	if err != nil {
		return nil, err
	}
	res := &LocalResult{Genome: g, Initial: best, Evaluations: 1}

	for res.Iterations < ls.opts.MaxIter && res.Evaluations < ls.opts.MaxEvals {
		if ctx.Err() != nil {
			break
		}
		gene := ls.rng.Intn(len(g))
		delta, evals, err := ls.scan(g, gene, &best)
		res.Evaluations += evals
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", res.Iterations, err)
		}
		g[gene] += delta
		res.Iterations++

		ls.log.Debug("local search iteration",
			slog.Int("iter", res.Iterations), slog.Int("evals", res.Evaluations), slog.Float64("fitness", best))
	}

	res.Fitness = best
	ls.log.Info("local search finished",
		slog.String("method", ls.opts.Method), slog.Float64("initial", res.Initial), slog.Float64("final", best))
	return res, nil
}

// deltas returns the candidate moves of one iteration.
func (ls *LocalSearch) deltas() []int {
	t := ls.opts.Threshold
	if ls.opts.Method == MethodGaussian {
		return []int{int(math.Round(ls.rng.NormFloat64() * float64(t)))}
	}
	out := make([]int, 0, 2*t+1)
	for d := -t; d <= t; d++ {
		out = append(out, d)
	}
	return out
}

// scan tries every candidate delta on gene and returns the last one that improved
// best, which it updates. The genome is left unchanged.
func (ls *LocalSearch) scan(g []int, gene int, best *float64) (delta, evals int, err error) {
	limit := ls.ref.Width - 1
	if gene%2 == 1 {
		limit = ls.ref.Height - 1
	}
	for _, d := range ls.deltas() {
		shifted := g[gene] + d
		if d == 0 || shifted < 0 || shifted > limit {
			continue
		}

		g[gene] = shifted
		fit, err := ls.eval(g)
		g[gene] -= d
		evals++
		if err != nil {
			return 0, evals, err
		}
		if ls.opts.Compare.Better(fit, *best) {
			*best = fit
			delta = d
		}
	}
	return delta, evals, nil
}
