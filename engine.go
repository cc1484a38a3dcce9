package evotri

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// StopFlag requests a cooperative stop. Once set it stays set.
// It is safe to set from any goroutine.
type StopFlag struct {
	set atomic.Bool
}

// Stop sets the flag.
func (f *StopFlag) Stop() { f.set.Store(true) }

// Stopped reports whether the flag is set.
func (f *StopFlag) Stopped() bool { return f.set.Load() }

// Snapshot is handed to the generation callback. It owns copies of the population.
type Snapshot struct {
	Gen        int
	Population Population
	Fitness    []float64
	Record     Record
}

// RunOptions carries the caller hooks of a run. Every field is optional.
type RunOptions struct {
	// OnGeneration is called synchronously after each generation is recorded.
	OnGeneration func(Snapshot)
	// StopWhen is polled at every generation boundary.
	StopWhen func() bool
	// Stop is the externally settable forced-stop flag.
	Stop *StopFlag
}

// Result is the outcome of a run.
type Result struct {
	Population    Population
	Logbook       Logbook
	HallOfFame    *HallOfFame
	BestFitnesses []float64
	// Evaluations counts every fitness computation of the run.
	Evaluations int
	// Stopped is set when the run ended before its generation budget.
	Stopped bool
}

// Engine drives the (mu+lambda) evolution of a population against a reference image.
type Engine struct {
	cfg      Config
	ref      *Reference
	codec    *Codec
	eval     EvalFunc
	selector Selector
	vertices int
}

// NewEngine validates cfg and prepares an engine for ref.
func NewEngine(ref *Reference, cfg Config) (*Engine, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: missing reference image", ErrConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Compare = orMinimize(cfg.Compare)
	selector, err := NewSelector(cfg.Selection, cfg.TournamentSize, cfg.Compare)
	if err != nil {
		return nil, err
	}

	codec := NewCodec(ref)
	codec.Outline = cfg.Outline

	vertices := cfg.VertexCount
	if vertices == 0 {
		vertices = ref.AutoVertexCount()
	}
	return &Engine{
		cfg:      cfg,
		ref:      ref,
		codec:    codec,
		eval:     codec.Evaluate,
		selector: selector,
		vertices: vertices,
	}, nil
}

// WithEvaluator replaces the fitness function. Used to score genomes by other means than rendering.
func (e *Engine) WithEvaluator(eval EvalFunc) *Engine {
	e.eval = eval
	return e
}

// Codec returns the codec the engine renders with.
func (e *Engine) Codec() *Codec { return e.codec }

// VertexCount returns the number of interior vertices per genome.
func (e *Engine) VertexCount() int { return e.vertices }

// Run evolves the population until the generation budget is spent or a stop is
// requested. Stops, including ctx cancellation, are honored only between
// generations and yield a result with Stopped set. Evaluation errors abort the run.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	var (
		cfg = e.cfg
		log = cfg.logger().With("run", uuid.NewString())
		hof = NewHallOfFame(cfg.HallOfFameSize, cfg.Compare)
		res = &Result{HallOfFame: hof}
	)
	stop := opts.Stop
	if stop == nil {
		stop = new(StopFlag)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	vary := variation{
		cxpb:   cfg.CxPb,
		mutpb:  cfg.MutPb,
		indpb:  cfg.IndPb,
		sigmaX: float64(e.ref.Width-1) * cfg.GaussianRate,
		sigmaY: float64(e.ref.Height-1) * cfg.GaussianRate,
	}

	var pool *workerPool
	if cfg.Workers > 1 {
		pool = newWorkerPool(cfg.Workers, e.eval)
		defer pool.close()
	}
	chunkSize := Max(cfg.Mu/cfg.Workers, 1)

	log.Info("run started",
		slog.Int("mu", cfg.Mu), slog.Int("lambda", cfg.Lambda), slog.Int("ngen", cfg.NGen),
		slog.Int("vertices", e.vertices), slog.Int("workers", cfg.Workers), slog.String("selection", e.selector.Name()))

	pop := make(Population, cfg.Mu)
	for i := range pop {
		pop[i] = NewIndividual(Initialize(rng, e.ref, e.vertices, cfg.EdgeRate))
	}

	nevals, err := e.evaluate(pop, pool, chunkSize)
	if err != nil {
		return nil, fmt.Errorf("generation 0: evaluate: %w", err)
	}
	hof.Update(pop)
	e.record(res, log, opts, pop, 0, nevals)

	gen := 0
	for !e.shouldStop(ctx, opts, stop, gen) {
		gen++

		offspring := vary.varyOr(rng, pop, cfg.Lambda)
		nevals, err := e.evaluate(offspring, pool, chunkSize)
		if err != nil {
			return nil, fmt.Errorf("generation %d: evaluate: %w", gen, err)
		}
		hof.Update(offspring)

		candidates := make(Population, 0, len(pop)+len(offspring))
		candidates = append(candidates, pop...)
		candidates = append(candidates, offspring...)
		pop = e.selector.Select(rng, candidates, cfg.Mu)

		e.record(res, log, opts, pop, gen, nevals)
	}

	res.Population = pop
	res.Stopped = gen < cfg.NGen
	res.Evaluations = res.Logbook.Evaluations()
	log.Info("run finished",
		slog.Int("generations", gen), slog.Bool("stopped", res.Stopped),
		slog.Int("evaluations", res.Evaluations), slog.Float64("best", hof.Best().Fitness))
	return res, nil
}

// shouldStop folds the stop predicate and ctx into the sticky flag, then checks the budget.
func (e *Engine) shouldStop(ctx context.Context, opts RunOptions, stop *StopFlag, gen int) bool {
	if ctx.Err() != nil || (opts.StopWhen != nil && opts.StopWhen()) {
		stop.Stop()
	}
	return gen >= e.cfg.NGen || stop.Stopped()
}

// evaluate scores the invalid members of pop and returns how many were evaluated.
// Valid members keep their cached fitness.
func (e *Engine) evaluate(pop Population, pool *workerPool, chunkSize int) (int, error) {
	invalid := pop.Invalid()
	if len(invalid) == 0 {
		return 0, nil
	}

	var (
		fitnesses []float64
		err       error
	)
	if pool == nil {
		fitnesses = make([]float64, len(invalid))
		for i, ind := range invalid {
			if fitnesses[i], err = e.eval(ind.Genome); err != nil {
				break
			}
		}
	} else {
		genomes := make([][]int, len(invalid))
		for i, ind := range invalid {
			genomes[i] = ind.Genome
		}
		fitnesses, err = pool.evaluate(genomes, chunkSize)
	}
	if err != nil {
		return 0, err
	}

	for i, ind := range invalid {
		ind.Fitness = fitnesses[i]
		ind.Valid = true
	}
	return len(invalid), nil
}

func (e *Engine) record(res *Result, log *slog.Logger, opts RunOptions, pop Population, gen, nevals int) {
	fits := pop.Fitnesses()
	rec := Record{Gen: gen, NEvals: nevals, Stats: Summarize(fits)}
	res.Logbook = append(res.Logbook, rec)
	res.BestFitnesses = append(res.BestFitnesses, rec.Min)

	log.Debug("generation",
		slog.Int("gen", gen), slog.Int("nevals", nevals),
		slog.Float64("min", rec.Min), slog.Float64("avg", rec.Avg), slog.Float64("std", rec.Std))

	if opts.OnGeneration != nil {
		opts.OnGeneration(Snapshot{
			Gen:        gen,
			Population: pop.Clone(),
			Fitness:    fits,
			Record:     rec,
		})
	}
}
