// Command octilayout is a thin CLI wrapper around the library: read a
// CombGraph GeoJSON FeatureCollection from stdin (or -in), run the
// greedy router and, if enabled, the ILP refinement pass, and write the
// resulting line graph GeoJSON to stdout (or -out). Per spec.md §1/§6,
// flag/config loading is explicitly not a core concern of this module —
// this file exists only to exercise the library end to end.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/transitschema/octilayout/octi/basegraph"
	"github.com/transitschema/octilayout/octi/comb"
	"github.com/transitschema/octilayout/octi/drawing"
	"github.com/transitschema/octilayout/octi/ilp"
	"github.com/transitschema/octilayout/octi/params"
	"github.com/transitschema/octilayout/octi/router"
	"github.com/transitschema/octilayout/octidebug"
	"github.com/transitschema/octilayout/octierr"
	"github.com/transitschema/octilayout/octiio"
	"github.com/transitschema/octilayout/octilog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("octilayout", flag.ContinueOnError)
	inPath := fs.String("in", "", "input CombGraph GeoJSON path (default stdin)")
	outPath := fs.String("out", "", "output line-graph GeoJSON path (default stdout)")
	debugPath := fs.String("debug", "", "optional JSON-Lines base-graph dump path")
	ilpEnable := fs.Bool("ilp", false, "refine the greedy drawing with the ILP solver")
	ilpSolverBin := fs.String("ilp-solver", "cbc", "external MIP solver binary")
	ilpTimeLim := fs.Int("ilp-timelim", -1, "ILP solver time limit in seconds, <=0 for none")
	gridSize := fs.Float64("grid-size", 250, "grid cell size in input coordinates")
	maxGrDist := fs.Float64("max-gr-dist", 3, "candidate-sink radius in cells")
	verbose := fs.Bool("v", false, "raise log level to debug")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := octilog.New(level)
	ctx := octilog.WithLogger(context.Background(), logger)

	in := os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			logger.Error("open input", "err", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	cg, err := octiio.DecodeCombGraph(in)
	if err != nil {
		logger.Error("decode input", "err", err)
		return 1
	}

	p := params.Default()
	p.GridSize = *gridSize
	p.MaxGrDist = *maxGrDist
	p.ILP.Enable = *ilpEnable
	p.ILP.TimeLim = *ilpTimeLim
	p.ILP.Solver = *ilpSolverBin

	gr := basegraph.NewOctiGraph(cg, p)

	dw, err := router.Run(ctx, gr, cg, p, router.Options{})
	if err != nil {
		logger.Error("greedy routing failed", "err", err)
		return exitCodeFor(err)
	}

	if *debugPath != "" {
		if err := dumpDebug(*debugPath, gr, cg, dw); err != nil {
			logger.Error("debug dump", "err", err)
		}
	}

	ilpRan := false
	if p.ILP.Enable {
		solver := ilp.NewExternalSolver(*ilpSolverBin, p.ILP.CacheDir)
		refined, err := ilp.Run(ctx, gr, cg, p, dw, solver)
		switch {
		case err == nil:
			dw = refined
			ilpRan = true
		case octierr.Is(err, octierr.CodeSolverUnavailable):
			logger.Warn("ILP solver unavailable, keeping greedy drawing", "err", err)
		default:
			logger.Error("ILP refinement failed", "err", err)
			return exitCodeFor(err)
		}
	}

	lg := drawing.Aggregate(gr, cg, dw)

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("create output", "err", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	if err := octiio.EncodeLineGraph(out, lg); err != nil {
		logger.Error("encode output", "err", err)
		return 1
	}

	if ilpRan && !dw.Optimal {
		logger.Warn("layout returned with a non-optimal (time-limited) drawing")
		return 2
	}
	return 0
}

func dumpDebug(path string, gr basegraph.Graph, cg *comb.Graph, dw *drawing.Drawing) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := octidebug.DumpBaseGraph(f, gr); err != nil {
		return err
	}
	return octidebug.DumpDrawing(f, gr, cg, dw)
}

func exitCodeFor(err error) int {
	if octierr.Is(err, octierr.CodeSolverTimeout) {
		return 2
	}
	return 1
}
