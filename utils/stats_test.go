package utils

import (
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/sheikhrachel/torus-life/model"
)

func TestStatsUpdate(t *testing.T) {
	s := NewStats()
	s.Update(1, 10, 100*time.Millisecond)
	s.Update(2, 20, 100*time.Millisecond)

	cur := s.Current()
	if cur.TotalGenerations != 2 || cur.ActiveCells != 20 {
		t.Fatalf("unexpected summary %+v", cur)
	}
	if math.Abs(cur.GenerationsPerSecond-10) > 0.001 {
		t.Errorf("GenerationsPerSecond = %v, want 10", cur.GenerationsPerSecond)
	}
	// 10*0.9 + 20*0.1
	if math.Abs(cur.AveragePopulation-11) > 0.001 {
		t.Errorf("AveragePopulation = %v, want 11", cur.AveragePopulation)
	}
}

func TestPopulationSpread(t *testing.T) {
	tests := []struct {
		name       string
		samples    []int
		wantMean   float64
		wantStdDev float64
	}{
		{"empty", nil, 0, 0},
		{"single", []int{5}, 5, 0},
		{"constant", []int{4, 4, 4, 4}, 4, 0},
		{"spread", []int{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2.138},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStats()
			for i, p := range tt.samples {
				s.Update(i+1, p, time.Millisecond)
			}
			mean, stddev := s.PopulationSpread()
			if math.Abs(mean-tt.wantMean) > 0.001 {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if math.Abs(stddev-tt.wantStdDev) > 0.001 {
				t.Errorf("stddev = %v, want %v", stddev, tt.wantStdDev)
			}
		})
	}
}

func TestPopulationWindow(t *testing.T) {
	s := NewStats()
	for i := 0; i < populationWindow; i++ {
		s.Update(i+1, 0, time.Millisecond)
	}
	for i := 0; i < populationWindow; i++ {
		s.Update(populationWindow+i+1, 100, time.Millisecond)
	}
	if mean, _ := s.PopulationSpread(); mean != 100 {
		t.Fatalf("mean = %v, old samples were not evicted", mean)
	}
}

func TestStatsObserve(t *testing.T) {
	g, _ := model.NewEmptyGrid(3)
	g.Set(0, 0, model.Alive)
	g.Set(1, 1, model.Alive)

	s := NewStats()
	s.Observe(1, g.Snapshot())
	if cur := s.Current(); cur.TotalGenerations != 1 || cur.ActiveCells != 2 {
		t.Fatalf("unexpected summary %+v", cur)
	}

	v := s.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}
	found := false
	for _, a := range v.Group() {
		if a.Key == "alive" && a.Value.Int64() == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("LogValue missing alive=2: %v", v)
	}
}
