package model

import "github.com/pkg/errors"

var (
	// ErrInvalidConfiguration is returned when a grid or engine is built with
	// an unusable side length or population.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrOutOfBoundsAccess marks a coordinate that a single wrap step cannot
	// bring back onto the board. It is raised as a panic.
	ErrOutOfBoundsAccess = errors.New("out of bounds access")
)

// State is the content of a single cell
type State uint8

const (
	Empty State = iota
	Alive
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Alive:
		return "alive"
	}
	return "unknown"
}

// Cell is one board position. X and Y record where the cell was written,
// the storage slot is what actually places it on the board.
type Cell struct {
	X     int
	Y     int
	State State
}

// IsAlive reports whether the cell is populated
func (c Cell) IsAlive() bool { return c.State == Alive }

// IsEmpty reports whether the cell is unpopulated
func (c Cell) IsEmpty() bool { return c.State == Empty }
