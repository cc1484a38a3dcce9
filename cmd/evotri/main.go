package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/evotri/evotri"
	"github.com/evotri/evotri/utils"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/term"
)

func main() {
	opts, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Unable to parse options: %v", err)
	}
	if len(opts.Source) == 0 || len(opts.Destination) == 0 {
		log.Fatal("Usage: evotri -in input.jpg -out out.png")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	src, err := loadImage(opts.Source)
	if err != nil {
		log.Fatalf("Unable to open source: %v", err)
	}
	ref, err := evotri.NewReference(src, opts.refOptions())
	if err != nil {
		log.Fatalf("Unable to prepare source: %v", err)
	}

	start := time.Now()
	var best []int
	switch {
	case opts.Compare:
		best, err = compare(ctx, opts, ref, logger)
	case opts.Method == methodEA:
		best, err = runEngine(ctx, opts, ref, logger)
	default:
		best, err = runLocalSearch(ctx, opts, ref, logger)
	}
	if err != nil {
		log.Fatalf("Error approximating image: %v", err)
	}

	if err := save(opts, ref, best); err != nil {
		log.Fatalf("Unable to save result: %v", err)
	}
	fmt.Printf("\nGenerated in: %s%s%s\n", utils.SuccessColor, utils.FormatTime(time.Since(start)), utils.DefaultColor)
	fmt.Printf("Saved as: %s %s✓%s\n\n", path.Base(opts.Destination), utils.SuccessColor, utils.DefaultColor)
}

// loadImage decodes a local file or a downloaded URL.
func loadImage(source string) (image.Image, error) {
	var (
		file *os.File
		err  error
	)
	if utils.IsURL(source) {
		file, err = utils.DownloadImage(source)
		if err == nil {
			defer os.Remove(file.Name())
		}
	} else {
		file, err = os.Open(source)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	return src, err
}

func save(opts *options, ref *evotri.Reference, genome []int) error {
	outline, err := opts.outline()
	if err != nil {
		return err
	}
	codec := evotri.NewCodec(ref)
	codec.Outline = outline
	img, err := codec.Decode(genome)
	if err != nil {
		return err
	}

	out, err := os.Create(opts.Destination)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}

func runEngine(ctx context.Context, opts *options, ref *evotri.Reference, logger *slog.Logger) ([]int, error) {
	cfg, err := opts.engineConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logger = logger

	engine, err := evotri.NewEngine(ref, cfg)
	if err != nil {
		return nil, err
	}

	stop := new(evotri.StopFlag)
	if opts.Console {
		go readConsole(os.Stdin, stop)
	}

	var spinner *utils.Spinner
	if term.IsTerminal(int(os.Stdout.Fd())) && !opts.Verbose && !opts.Console {
		spinner = utils.NewSpinner(os.Stdout)
		spinner.Start("Evolving triangulated image...")
	}

	res, err := engine.Run(ctx, evotri.RunOptions{
		Stop: stop,
		OnGeneration: func(s evotri.Snapshot) {
			if spinner != nil {
				spinner.SetMessage(fmt.Sprintf("Generation %d/%d, best %.2f", s.Gen, cfg.NGen, s.Record.Min))
				return
			}
			fmt.Println(s.Record)
		},
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}

	best := res.HallOfFame.Best()
	if res.Stopped {
		fmt.Printf("Stopped early after %d generations\n", len(res.Logbook)-1)
	}
	fmt.Printf("Best fitness %s%.4f%s with %d vertices after %s evaluations\n",
		utils.SuccessColor, best.Fitness, utils.DefaultColor,
		engine.VertexCount(), humanize.Comma(int64(res.Evaluations)))
	return best.Genome, nil
}

func runLocalSearch(ctx context.Context, opts *options, ref *evotri.Reference, logger *slog.Logger) ([]int, error) {
	lsOpts := opts.localSearchOptions()
	lsOpts.Logger = logger
	ls, err := evotri.NewLocalSearch(ref, lsOpts)
	if err != nil {
		return nil, err
	}

	n := opts.VertexCount
	if n == 0 {
		n = ref.AutoVertexCount()
	}
	res, err := ls.Solve(ctx, ls.Initial(n))
	if err != nil {
		return nil, err
	}
	fmt.Printf("Initial fitness: %.4f - Final fitness: %s%.4f%s after %s evaluations\n",
		res.Initial, utils.SuccessColor, res.Fitness, utils.DefaultColor, humanize.Comma(int64(res.Evaluations)))
	return res.Genome, nil
}

// compare runs the evolutionary engine and the local search concurrently on the
// same reference and keeps the better genome.
func compare(ctx context.Context, opts *options, ref *evotri.Reference, logger *slog.Logger) ([]int, error) {
	var (
		eaBest, lsBest []int
		eaFit, lsFit   float64
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		cfg, err := opts.engineConfig()
		if err != nil {
			return err
		}
		cfg.Logger = logger.With("solver", methodEA)
		engine, err := evotri.NewEngine(ref, cfg)
		if err != nil {
			return err
		}
		res, err := engine.Run(ctx, evotri.RunOptions{})
		if err != nil {
			return err
		}
		eaBest, eaFit = res.HallOfFame.Best().Genome, res.HallOfFame.Best().Fitness
		return nil
	})
	p.Go(func(ctx context.Context) error {
		lsOpts := opts.localSearchOptions()
		lsOpts.Logger = logger.With("solver", lsOpts.Method)
		ls, err := evotri.NewLocalSearch(ref, lsOpts)
		if err != nil {
			return err
		}
		n := opts.VertexCount
		if n == 0 {
			n = ref.AutoVertexCount()
		}
		res, err := ls.Solve(ctx, ls.Initial(n))
		if err != nil {
			return err
		}
		lsBest, lsFit = res.Genome, res.Fitness
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	fmt.Printf("Evolutionary engine: %.4f\nLocal search:        %.4f\n", eaFit, lsFit)
	if lsFit < eaFit {
		return lsBest, nil
	}
	return eaBest, nil
}

// readConsole sets stop when the user types exit.
func readConsole(in io.Reader, stop *evotri.StopFlag) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "exit" {
			stop.Stop()
			fmt.Println("Waiting for the current generation to finish before exiting...")
			return
		}
	}
}
