package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/limaJavier/campus-timetabling/internal/config"
	"github.com/limaJavier/campus-timetabling/internal/csvio"
	"github.com/limaJavier/campus-timetabling/internal/logger"
	"github.com/limaJavier/campus-timetabling/pkg/engine"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type BenchmarkResult struct {
	Seed         int64   `csv:"seed"`
	Entries      int     `csv:"entries"`
	Sessions     int     `csv:"sessions"`
	Deficits     int     `csv:"deficits"`
	DeficitHours float64 `csv:"deficit_hours"`
	Violations   int     `csv:"violations"`
	Duration     int64   `csv:"duration_ms"`
}

type Summary struct {
	Runs             int
	MinDeficitHours  float64
	MeanDeficitHours float64
	MaxDeficitHours  float64
	MeanDuration     float64
	CleanRuns        int
}

func main() {
	configPathPtr := flag.String("config", "timetable.yaml", "Path to the run manifest")
	seedsPtr := flag.Int("seeds", 20, "Number of seeds to sweep")
	fromPtr := flag.Int64("from", 1, "First seed of the sweep")
	outPtr := flag.String("out", "benchmark_results.csv", "Path of the CSV file where per-seed results will be written")
	flag.Parse()

	if *seedsPtr <= 0 {
		log.Fatalf("the number of seeds must be positive: %v", *seedsPtr)
	}

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	// Per-pass logs of every seed would drown the sweep
	cfg.Log.Level = "warn"
	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer zapLogger.Sync()

	departments := lo.Map(cfg.Departments, func(department config.DepartmentConfig, _ int) csvio.DepartmentFile {
		return csvio.DepartmentFile{Name: department.Name, CoursesFile: department.CoursesFile}
	})
	rawInput, err := csvio.LoadInput(cfg.SlotsFile, cfg.RoomsFile, departments)
	if err != nil {
		log.Fatalf("cannot load input tables: %v", err)
	}
	input, err := model.ProcessRawInput(rawInput, cfg.InputOptions())
	if err != nil {
		log.Fatalf("cannot process input tables: %v", err)
	}

	seeds := lo.Map(lo.Range(*seedsPtr), func(i int, _ int) int64 { return *fromPtr + int64(i) })
	results, err := sweep(input, seeds, engine.Options{
		MaxAttempts: cfg.MaxAttempts,
		BreakLength: cfg.BreakLength,
		Logger:      zapLogger,
	})
	if err != nil {
		log.Fatalf("an error occurred during the sweep: %v", err)
	}

	if err := csvio.WriteRows(*outPtr, results); err != nil {
		log.Fatalf("cannot write results: %v", err)
	}

	summary := summarize(results)
	fmt.Printf("Runs: %v (%v without deficits or violations)\n", summary.Runs, summary.CleanRuns)
	fmt.Printf("Deficit hours: min %.1f, mean %.2f, max %.1f\n", summary.MinDeficitHours, summary.MeanDeficitHours, summary.MaxDeficitHours)
	fmt.Printf("Mean duration: %.1f ms\n", summary.MeanDuration)
}

// sweep builds the timetable once per seed; options.Seed is replaced by each seed
func sweep(input model.ModelInput, seeds []int64, options engine.Options) ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(seeds))
	for _, seed := range seeds {
		options.Seed = seed
		timetabler := engine.NewGreedyTimetabler(options)

		start := time.Now()
		report, err := timetabler.Build(input)
		if err != nil {
			return nil, fmt.Errorf("seed %v: %w", seed, err)
		}
		duration := time.Since(start)
		violations := timetabler.Verify(report, input)

		if options.Logger != nil {
			options.Logger.Info("seed completed", zap.Int64("seed", seed), zap.Float64("deficit_hours", report.DeficitHours()))
		}
		results = append(results, BenchmarkResult{
			Seed:         seed,
			Entries:      len(report.Entries),
			Sessions:     len(report.Sessions),
			Deficits:     len(report.Deficits),
			DeficitHours: report.DeficitHours(),
			Violations:   len(violations),
			Duration:     duration.Milliseconds(),
		})
	}
	return results, nil
}

func summarize(results []BenchmarkResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	deficitHours := lo.Map(results, func(result BenchmarkResult, _ int) float64 { return result.DeficitHours })
	durations := lo.Map(results, func(result BenchmarkResult, _ int) float64 { return float64(result.Duration) })
	return Summary{
		Runs:             len(results),
		MinDeficitHours:  lo.Min(deficitHours),
		MeanDeficitHours: lo.Sum(deficitHours) / float64(len(results)),
		MaxDeficitHours:  lo.Max(deficitHours),
		MeanDuration:     lo.Sum(durations) / float64(len(results)),
		CleanRuns: lo.CountBy(results, func(result BenchmarkResult) bool {
			return result.Deficits == 0 && result.Violations == 0
		}),
	}
}
