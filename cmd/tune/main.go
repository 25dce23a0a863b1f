package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/snail/config"
)

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval     int     `csv:"eval"`
	Fitness  float64 `csv:"fitness"`
	Quality  float64 `csv:"quality"`
	F        float64 `csv:"f"`
	K        float64 `csv:"k"`
	ElapsedS float64 `csv:"elapsed_s"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// newMethod returns the search method named by name.
func newMethod(name string, dim, population int) (optimize.Method, error) {
	switch name {
	case "neldermead":
		return &optimize.NelderMead{SimplexSize: 0.2}, nil
	case "cmaes":
		if population == 0 {
			population = 4 + int(3.0*float64(dim)/2.0)
		}
		return &optimize.CmaEsChol{InitStepSize: 0.3, Population: population}, nil
	default:
		return nil, fmt.Errorf("unknown method %q (want neldermead or cmaes)", name)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxSteps := flag.Int("max-steps", 2000, "Field steps per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	methodName := flag.String("method", "neldermead", "Search method: neldermead or cmaes")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	gridSize := flag.Int("grid", 0, "Override field height and width (0 = use config)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if *outputDir == "" {
		fatal("missing flag", fmt.Errorf("--output is required"))
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("failed to create output directory", err)
	}

	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", err)
	}
	baseCfg := config.Cfg()
	if *gridSize > 0 {
		baseCfg.Dynamics.Height, baseCfg.Dynamics.Width = *gridSize, *gridSize
		baseCfg.Derived.Params.Height, baseCfg.Derived.Params.Width = *gridSize, *gridSize
	}

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *maxSteps, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	method, err := newMethod(*methodName, dim, *population)
	if err != nil {
		fatal("bad method", err)
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; seeds run in parallel
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		fatal("failed to create log file", err)
	}
	defer logFile.Close()
	headerWritten := false

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// Values actually used: denormalized, then clamped to range
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append(bestParams[:0], clamped...)
			}

			elapsed := time.Since(startTime)
			rec := []EvalRecord{{
				Eval:     evalCount,
				Fitness:  fitness,
				Quality:  evaluator.LastQuality(),
				F:        clamped[0],
				K:        clamped[1],
				ElapsedS: elapsed.Seconds(),
			}}
			if !headerWritten {
				err = gocsv.Marshal(rec, logFile)
				headerWritten = true
			} else {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if err != nil {
				slog.Warn("failed to write log row", "error", err)
			}

			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: f=%.4f k=%.4f quality=%.3f (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, clamped[0], clamped[1], evaluator.LastQuality(), -bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting %s search over %d parameters, max_evals=%d\n", *methodName, dim, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, steps per run: %d\n", *seeds, *maxSteps)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nSearch complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best quality: %.3f\n", -bestFitness)
	if bestParams == nil {
		return
	}

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}
	best := evaluator.BestStats()
	slog.Info("best run", "stats", best)

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to reload config", err)
	}
	if err := params.ApplyToConfig(bestCfg, bestParams); err != nil {
		fatal("failed to apply parameters", err)
	}

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Error("failed to write best config", "error", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
