package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/torus-life/engine"
	"github.com/sheikhrachel/torus-life/model"
	"github.com/sheikhrachel/torus-life/utils"
)

// loadConfig falls back to the defaults only when the file does not exist
func loadConfig(path string) (utils.Config, error) {
	config, err := utils.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Using default configuration (%s not found)\n", path)
		return utils.DefaultConfig(), nil
	}
	return config, err
}

// openTelemetry creates the CSV file and saves the config beside it. An
// empty path disables telemetry and returns a nil recorder.
func openTelemetry(path string, config utils.Config) (*utils.CSVRecorder, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, errors.Wrapf(err, "[openTelemetry] creating directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[openTelemetry] creating %s", path)
	}
	configPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".config.yaml"
	if err = config.WriteYAML(configPath); err != nil {
		f.Close()
		return nil, nil, err
	}
	return utils.NewCSVRecorder(f), func() { f.Close() }, nil
}

// run drives one simulation until ctx ends or a stop condition is met
func run(ctx context.Context, config utils.Config, logger *slog.Logger, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recorder, closeTelemetry, err := openTelemetry(config.TelemetryPath, config)
	if err != nil {
		return err
	}
	defer closeTelemetry()

	stats := utils.NewStats()
	display, frames := engine.ChannelObserver(1)
	renderer := &model.TerminalRenderer{Out: out}
	stagnation := &utils.Stagnation{}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithContext(ctx),
		engine.WithObserver(stats.Observe),
		engine.WithObserver(stagnation.Observe),
	}
	if recorder != nil {
		opts = append(opts, engine.WithObserver(recorder.Observe))
	}
	opts = append(opts, engine.WithObserver(display))

	eng, err := engine.New(config, opts...)
	if err != nil {
		return err
	}
	if eng.State() == engine.Idle {
		if err = eng.Start(ctx); err != nil {
			return err
		}
	}
	displayGameInfo(out, config, eng)

	for {
		select {
		case <-eng.Done():
			displayFinalStats(out, stats)
			logger.Info("simulation finished", "stats", stats)
			if recorder != nil {
				return recorder.Err()
			}
			return nil
		case f := <-frames:
			livingCells := f.Cells.CountAlive()
			isStagnant := stagnation.Stagnant()

			if config.Render {
				renderer.Clear()
				displayGameStatus(out, f.Generation, livingCells, f.Cells.Len(), gameStatus(livingCells, isStagnant), stats)
				renderer.Display(f.Cells)
			}

			if reason, stop := checkStopConditions(livingCells, stagnation.Count(), f.Generation, config); stop {
				logger.Info("stopping simulation", "reason", reason, "generation", f.Generation)
				cancel()
			}
		}
	}
}

// displayGameInfo shows the initial game information
func displayGameInfo(out io.Writer, config utils.Config, eng *engine.Engine) {
	fmt.Fprintf(out, "Features: Memory Pool: %v, Parallel: %v\n",
		config.UseMemoryPool, config.UseParallel)
	fmt.Fprintf(out, "Grid: %dx%d | Initial living cells: %d\n",
		eng.Side(), eng.Side(), eng.Snapshot().CountAlive())
	fmt.Fprintln(out, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(out)
}

func gameStatus(livingCells int, isStagnant bool) string {
	switch {
	case livingCells == 0:
		return "Extinct"
	case isStagnant:
		return "Stagnant"
	}
	return "Active"
}

// displayGameStatus shows the current game status
func displayGameStatus(
	out io.Writer,
	generation, livingCells, totalCells int,
	status string,
	stats *utils.Stats,
) {
	density := float64(livingCells) / float64(totalCells) * 100
	mean, stddev := stats.PopulationSpread()
	current := stats.Current()

	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		generation, livingCells, density, status)
	fmt.Fprintf(out, "Performance: %.1f gen/sec | Avg Pop: %.1f (%.1f ± %.1f) | Runtime: %.1fs\n",
		current.GenerationsPerSecond, current.AveragePopulation, mean, stddev, time.Since(current.StartTime).Seconds())
	fmt.Fprintln(out)
}

// checkStopConditions determines if the run should end. Zero limits and a
// false StopOnExtinction never stop it.
func checkStopConditions(livingCells, stagnantCount, generation int, config utils.Config) (string, bool) {
	if config.MaxGenerations > 0 && generation >= config.MaxGenerations {
		return "generation limit", true
	}
	if config.StopOnExtinction && livingCells == 0 {
		return "extinction", true
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return "stagnation detected", true
	}
	return "", false
}

// displayFinalStats prints the summary on shutdown
func displayFinalStats(out io.Writer, stats *utils.Stats) {
	current := stats.Current()
	fmt.Fprintln(out, "\n🛑 Shutting down gracefully...")
	fmt.Fprintf(out, "Final stats: %d generations in %.1f seconds\n",
		current.TotalGenerations, time.Since(current.StartTime).Seconds())
	fmt.Fprintf(out, "Average: %.1f gen/sec, %.1f avg population\n",
		current.GenerationsPerSecond, current.AveragePopulation)
}
