package rules

import (
	"testing"

	"github.com/sheikhrachel/torus-life/model"
)

func TestApply(t *testing.T) {
	const (
		E = model.Empty
		A = model.Alive
	)
	tests := []struct {
		neighbors int
		fromEmpty model.State
		fromAlive model.State
	}{
		{0, E, E},
		{1, E, E},
		{2, E, A},
		{3, A, A},
		{4, E, E},
		{5, E, E},
		{6, E, E},
		{7, E, E},
		{8, E, E},
	}

	for _, tt := range tests {
		if got := Apply(tt.neighbors, E); got != tt.fromEmpty {
			t.Errorf("Apply(%d, empty) = %v, want %v", tt.neighbors, got, tt.fromEmpty)
		}
		if got := Apply(tt.neighbors, A); got != tt.fromAlive {
			t.Errorf("Apply(%d, alive) = %v, want %v", tt.neighbors, got, tt.fromAlive)
		}
	}
}
