package main

import (
	"flag"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/evotri/evotri"
)

// options mirrors the command line flags. A TOML file may provide any of them;
// flags given explicitly on the command line take precedence.
type options struct {
	Source      string `toml:"in"`
	Destination string `toml:"out"`
	Method      string `toml:"method"`
	Compare     bool   `toml:"compare"`
	Console     bool   `toml:"console"`
	Verbose     bool   `toml:"verbose"`
	Seed        int64  `toml:"seed"`

	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	EdgeThreshold float64 `toml:"edge_threshold"`
	BlurRadius    int     `toml:"blur"`
	Denoise       int     `toml:"denoise"`
	VertexCount   int     `toml:"vertex_count"`
	Outline       string  `toml:"outline"`

	Mu             int     `toml:"mu"`
	Lambda         int     `toml:"lambda"`
	CxPb           float64 `toml:"cxpb"`
	MutPb          float64 `toml:"mutpb"`
	IndPb          float64 `toml:"indpb"`
	NGen           int     `toml:"ngen"`
	Selection      string  `toml:"selection"`
	TournamentSize int     `toml:"tournament_size"`
	GaussianRate   float64 `toml:"gaussian_rate"`
	EdgeRate       float64 `toml:"edge_rate"`
	Workers        int     `toml:"workers"`

	Threshold int `toml:"threshold"`
	MaxIter   int `toml:"max_iter"`
	MaxEvals  int `toml:"max_evals"`
}

const methodEA = "ea"

func (o *options) register(fs *flag.FlagSet) *string {
	cfg := evotri.DefaultConfig()
	ref := evotri.DefaultRefOptions()
	ls := evotri.DefaultLocalSearchOptions()

	fs.StringVar(&o.Source, "in", "", "Source image path or URL")
	fs.StringVar(&o.Destination, "out", "", "Destination PNG")
	fs.StringVar(&o.Method, "method", methodEA, "Solver: ea, gaussian or local_search")
	fs.BoolVar(&o.Compare, "compare", false, "Run the evolutionary engine and the local search side by side")
	fs.BoolVar(&o.Console, "console", false, "Read commands from stdin while running (exit)")
	fs.BoolVar(&o.Verbose, "v", false, "Print every generation")
	fs.Int64Var(&o.Seed, "seed", 0, "Random seed, 0 seeds from the clock")

	fs.IntVar(&o.Width, "width", 0, "Resize width")
	fs.IntVar(&o.Height, "height", 0, "Resize height")
	fs.Float64Var(&o.EdgeThreshold, "edges", ref.EdgeThreshold, "Sobel edge threshold, negative disables edge points")
	fs.IntVar(&o.BlurRadius, "blur", ref.BlurRadius, "Blur radius applied before edge detection")
	fs.IntVar(&o.Denoise, "denoise", ref.Denoise, "Denoise radius applied to the source, 0 disables it")
	fs.IntVar(&o.VertexCount, "vertices", 0, "Number of vertices, 0 derives it from the image entropy")
	fs.StringVar(&o.Outline, "outline", "", "Triangle outline color as #rrggbb")

	fs.IntVar(&o.Mu, "mu", cfg.Mu, "Population size")
	fs.IntVar(&o.Lambda, "lambda", cfg.Lambda, "Offspring per generation")
	fs.Float64Var(&o.CxPb, "cxpb", cfg.CxPb, "Crossover probability")
	fs.Float64Var(&o.MutPb, "mutpb", cfg.MutPb, "Mutation probability")
	fs.Float64Var(&o.IndPb, "indpb", cfg.IndPb, "Probability of mutating a vertex")
	fs.IntVar(&o.NGen, "ngen", cfg.NGen, "Number of generations")
	fs.StringVar(&o.Selection, "selection", cfg.Selection, "Selection method: best or tournament")
	fs.IntVar(&o.TournamentSize, "tournament", cfg.TournamentSize, "Tournament size")
	fs.Float64Var(&o.GaussianRate, "gaussian", cfg.GaussianRate, "Mutation sigma as a fraction of the image size")
	fs.Float64Var(&o.EdgeRate, "edge-rate", cfg.EdgeRate, "Share of vertices initialized on edges, for every solver")
	fs.IntVar(&o.Workers, "workers", cfg.Workers, "Number of parallel evaluators")

	fs.IntVar(&o.Threshold, "threshold", ls.Threshold, "Local search range or gaussian deviation")
	fs.IntVar(&o.MaxIter, "max-iter", ls.MaxIter, "Local search iterations")
	fs.IntVar(&o.MaxEvals, "max-evals", ls.MaxEvals, "Local search evaluations")

	return fs.String("config", "", "TOML file with default values for the flags")
}

// parseOptions parses args and overlays the optional TOML file below the explicit flags.
func parseOptions(fs *flag.FlagSet, args []string) (*options, error) {
	o := new(options)
	configPath := o.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *configPath == "" {
		return o, nil
	}

	explicit := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	if _, err := toml.DecodeFile(*configPath, o); err != nil {
		return nil, fmt.Errorf("unable to read config %s: %w", *configPath, err)
	}
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) refOptions() evotri.RefOptions {
	return evotri.RefOptions{
		Width:         o.Width,
		Height:        o.Height,
		EdgeThreshold: o.EdgeThreshold,
		BlurRadius:    o.BlurRadius,
		Denoise:       o.Denoise,
	}
}

func (o *options) engineConfig() (evotri.Config, error) {
	cfg := evotri.DefaultConfig()
	cfg.Mu = o.Mu
	cfg.Lambda = o.Lambda
	cfg.CxPb = o.CxPb
	cfg.MutPb = o.MutPb
	cfg.IndPb = o.IndPb
	cfg.NGen = o.NGen
	cfg.Selection = o.Selection
	cfg.TournamentSize = o.TournamentSize
	cfg.GaussianRate = o.GaussianRate
	cfg.EdgeRate = o.EdgeRate
	cfg.Workers = o.Workers
	cfg.VertexCount = o.VertexCount
	cfg.Seed = o.Seed

	outline, err := o.outline()
	if err != nil {
		return cfg, err
	}
	cfg.Outline = outline
	return cfg, cfg.Validate()
}

// outline returns the stroke color, nil when none is set.
func (o *options) outline() (color.Color, error) {
	if o.Outline == "" {
		return nil, nil
	}
	c, err := parseHexColor(o.Outline)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (o *options) localSearchOptions() evotri.LocalSearchOptions {
	method := o.Method
	if method == methodEA {
		method = evotri.MethodGaussian
	}
	return evotri.LocalSearchOptions{
		Method:    method,
		Threshold: o.Threshold,
		MaxIter:   o.MaxIter,
		MaxEvals:  o.MaxEvals,
		EdgeRate:  o.EdgeRate,
		Seed:      o.Seed,
	}
}

// parseHexColor accepts #rrggbb or rrggbb.
func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q, expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
