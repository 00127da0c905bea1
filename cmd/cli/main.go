package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/limaJavier/campus-timetabling/internal/config"
	"github.com/limaJavier/campus-timetabling/internal/csvio"
	"github.com/limaJavier/campus-timetabling/internal/logger"
	"github.com/limaJavier/campus-timetabling/internal/metrics"
	"github.com/limaJavier/campus-timetabling/pkg/engine"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	exitSuccess    = 10
	exitViolations = 15
	exitDeficits   = 20
)

func main() {
	// Define arguments
	configPathPtr := flag.String("config", "timetable.yaml", "Path to the run manifest (YAML, JSON or TOML)")
	seedPtr := flag.Int64("seed", 0, "Seed of the randomized search; overrides the manifest when given")
	outPtr := flag.String("out", "", "Directory where the output tables will be written; overrides the manifest when given")
	flag.Parse()

	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	// Load manifest
	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if setFlags["seed"] {
		cfg.Seed = *seedPtr
	}
	if setFlags["out"] {
		cfg.OutputDir = *outPtr
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}

	// Extract input
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

	// Build timetable
	recorder := metrics.NewRecorder()
	timetabler := engine.NewGreedyTimetabler(engine.Options{
		Seed:        cfg.Seed,
		MaxAttempts: cfg.MaxAttempts,
		BreakLength: cfg.BreakLength,
		Logger:      zapLogger,
		Recorder:    recorder,
	})
	report, err := timetabler.Build(input)
	if err != nil {
		log.Fatalf("an error occurred during timetable construction: %v", err)
	}

	// Verify timetable correctness
	violations := timetabler.Verify(report, input)
	for _, violation := range violations {
		zapLogger.Error("invariant violated",
			zap.String("kind", string(violation.Kind)),
			zap.String("department", violation.Department),
			zap.String("half", string(violation.Half)),
			zap.String("detail", violation.Detail),
		)
	}

	// Write output
	written, err := csvio.WriteReport(cfg.OutputDir, report, violations)
	if err != nil {
		log.Fatalf("an error occurred while writing the output tables: %v", err)
	}
	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Fatalf("an error occurred while writing metrics: %v", err)
		}
	}

	fmt.Printf("Run: %v (seed %v)\n", report.RunID, report.Seed)
	fmt.Printf("Entries: %v\n", len(report.Entries))
	fmt.Printf("Deficits: %v (%.1f hours)\n", len(report.Deficits), report.DeficitHours())
	fmt.Printf("Violations: %v\n", len(violations))
	fmt.Printf("Output: %v files in %v\n", len(written), cfg.OutputDir)

	code := exitSuccess
	if len(violations) > 0 {
		code = exitViolations
	} else if len(report.Deficits) > 0 {
		code = exitDeficits
	}
	_ = zapLogger.Sync()
	os.Exit(code)
}
