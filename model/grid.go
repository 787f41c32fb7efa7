package model

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

// neighborOffsets are the eight Moore neighbors. Every lookup made through
// them stays within one wrap step of the board.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid is the live toroidal board. Cells are stored flat at x*side+y.
type Grid struct {
	side  int
	cells []Cell
}

// DefaultPopulation is the number of seeding draws used when none is configured
func DefaultPopulation(side int) int {
	return 2 * side
}

// NewEmptyGrid creates a side x side grid with every cell empty
func NewEmptyGrid(side int) (*Grid, error) {
	if side < 1 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "[NewEmptyGrid] side length must be >= 1, got %d", side)
	}
	cells := make([]Cell, side*side)
	for x := range side {
		for y := range side {
			cells[x*side+y] = Cell{X: x, Y: y, State: Empty}
		}
	}
	return &Grid{side: side, cells: cells}, nil
}

// NewRandomGrid creates an empty grid and then marks population random
// positions alive. Positions are drawn with replacement, so repeated draws
// leave fewer than population live cells. A nil rng uses the global source.
func NewRandomGrid(side, population int, rng *rand.Rand) (*Grid, error) {
	if population < 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "[NewRandomGrid] initial population must be >= 0, got %d", population)
	}
	g, err := NewEmptyGrid(side)
	if err != nil {
		return nil, err
	}
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for range population {
		g.Set(intN(side), intN(side), Alive)
	}
	return g, nil
}

// Side returns the side length of the board
func (g *Grid) Side() int {
	return g.side
}

// Get returns the cell at (x, y) after wrap-around
func (g *Grid) Get(x, y int) Cell {
	x, y = normalize(x, y, g.side)
	return g.cells[x*g.side+y]
}

// Set replaces the cell at (x, y) after wrap-around
func (g *Grid) Set(x, y int, state State) {
	x, y = normalize(x, y, g.side)
	g.cells[x*g.side+y] = Cell{X: x, Y: y, State: state}
}

// CountAlive returns the number of live cells
func (g *Grid) CountAlive() int {
	return countAlive(g.cells)
}

// Snapshot returns a deep copy of the board that later Set calls cannot reach
func (g *Grid) Snapshot() Snapshot {
	return g.SnapshotInto(nil)
}

// SnapshotInto copies the board into buf, growing it when it is too small.
// The returned snapshot owns buf from then on.
func (g *Grid) SnapshotInto(buf []Cell) Snapshot {
	if cap(buf) < len(g.cells) {
		buf = make([]Cell, len(g.cells))
	}
	buf = buf[:len(g.cells)]
	copy(buf, g.cells)
	return Snapshot{side: g.side, cells: buf}
}

// normalize applies the single-step toroidal wrap. Anything further out
// than one side length is a caller bug.
func normalize(x, y, side int) (int, int) {
	return wrap(x, side), wrap(y, side)
}

func wrap(v, side int) int {
	if v < 0 {
		v += side
	}
	if v >= side {
		v -= side
	}
	if v < 0 || v >= side {
		panic(errors.Wrapf(ErrOutOfBoundsAccess, "coordinate %d on side %d", v, side))
	}
	return v
}

func countAlive(cells []Cell) (count int) {
	for _, c := range cells {
		if c.IsAlive() {
			count++
		}
	}
	return
}
