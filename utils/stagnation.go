package utils

import (
	"sync"

	"github.com/sheikhrachel/torus-life/model"
)

// historyDepth is how many recent board hashes are kept to detect cycles
const historyDepth = 5

// Stagnation tracks recent board hashes and counts consecutive generations
// that repeat one of the last three boards (still lifes and period 2 or 3
// oscillators). Register Observe on the engine so every generation is
// counted, not only the frames a display gets to see.
type Stagnation struct {
	mu       sync.Mutex
	history  []string
	count    int
	stagnant bool
}

// Observe records a published generation. It has the engine observer signature.
func (s *Stagnation) Observe(_ int, cells model.Snapshot) {
	s.Record(cells.Hash())
}

// Record adds hash and reports whether it repeats a recent board
func (s *Stagnation) Record(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stagnant := false
	for i := len(s.history) - 1; i >= 0 && i >= len(s.history)-3; i-- {
		if s.history[i] == hash {
			stagnant = true
			break
		}
	}

	if stagnant {
		s.count++
	} else {
		s.count = 0
	}
	s.stagnant = stagnant

	s.history = append(s.history, hash)
	if len(s.history) > historyDepth {
		s.history = s.history[1:]
	}
	return stagnant
}

// Count is the number of consecutive stagnant generations
func (s *Stagnation) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Stagnant reports whether the most recent generation repeated a recent board
func (s *Stagnation) Stagnant() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stagnant
}
