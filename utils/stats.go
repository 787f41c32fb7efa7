package utils

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sheikhrachel/torus-life/model"
)

// populationWindow is how many recent generations feed the mean and stddev
const populationWindow = 50

// Summary is a point-in-time copy of the running figures
type Summary struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time
	ActiveCells          int
}

// Stats for performance monitoring. It is fed from the tick goroutine and
// read from the display, so all access goes through the mutex.
type Stats struct {
	mu sync.Mutex

	summary     Summary
	lastUpdate  time.Time
	populations []float64
}

func NewStats() *Stats {
	now := time.Now()
	return &Stats{summary: Summary{StartTime: now}, lastUpdate: now}
}

// Current returns a copy of the running figures
func (s *Stats) Current() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Observe records a published generation. It has the engine observer signature.
func (s *Stats) Observe(generation int, cells model.Snapshot) {
	now := time.Now()
	s.mu.Lock()
	duration := now.Sub(s.lastUpdate)
	s.lastUpdate = now
	s.mu.Unlock()

	s.Update(generation, cells.CountAlive(), duration)
}

func (s *Stats) Update(generation int, population int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := &s.summary
	sum.TotalGenerations = generation
	sum.ActiveCells = population
	if duration > 0 {
		sum.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	// Simple moving average for population
	if sum.AveragePopulation == 0 {
		sum.AveragePopulation = float64(population)
	} else {
		sum.AveragePopulation = (sum.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}

	s.populations = append(s.populations, float64(population))
	if len(s.populations) > populationWindow {
		s.populations = s.populations[1:]
	}
}

// PopulationSpread returns the mean and sample standard deviation of the
// population over the recent window. Fewer than two samples give a zero
// deviation.
func (s *Stats) PopulationSpread() (mean, stddev float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch len(s.populations) {
	case 0:
		return 0, 0
	case 1:
		return s.populations[0], 0
	}
	mean, stddev = stat.MeanStdDev(s.populations, nil)
	if math.IsNaN(stddev) {
		stddev = 0
	}
	return mean, stddev
}

// LogValue implements slog.LogValuer for structured logging.
func (s *Stats) LogValue() slog.Value {
	mean, stddev := s.PopulationSpread()
	sum := s.Current()
	return slog.GroupValue(
		slog.Int("generations", sum.TotalGenerations),
		slog.Int("alive", sum.ActiveCells),
		slog.Float64("gen_per_sec", sum.GenerationsPerSecond),
		slog.Float64("avg_population", sum.AveragePopulation),
		slog.Float64("window_mean", mean),
		slog.Float64("window_stddev", stddev),
		slog.Duration("runtime", time.Since(sum.StartTime)),
	)
}
