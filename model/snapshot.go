package model

import (
	"crypto/md5"
	"fmt"
)

// Snapshot is a frozen copy of one generation. It has no mutating methods,
// and Cells hands out a copy, so a snapshot is safe to keep and to read
// from any goroutine.
type Snapshot struct {
	side  int
	cells []Cell
}

// Side returns the side length of the board the snapshot was taken from
func (s Snapshot) Side() int { return s.side }

// Len returns the number of cells, side squared for any real snapshot
func (s Snapshot) Len() int { return len(s.cells) }

// Get returns the cell at (x, y) after wrap-around
func (s Snapshot) Get(x, y int) Cell {
	x, y = normalize(x, y, s.side)
	return s.cells[x*s.side+y]
}

// At returns the i-th cell in storage order
func (s Snapshot) At(i int) Cell {
	return s.cells[i]
}

// Cells returns the cells in storage order. The slice is a copy.
func (s Snapshot) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// CountAlive returns the number of live cells
func (s Snapshot) CountAlive() int {
	return countAlive(s.cells)
}

// CountAliveNeighbors counts live cells among the eight toroidal neighbors
// of (x, y). On boards of side 1 or 2 several offsets land on the same cell
// and each landing is counted, so a lone live cell on a 1x1 board has 8.
func (s Snapshot) CountAliveNeighbors(x, y int) int {
	count := 0
	for _, off := range neighborOffsets {
		if s.Get(x+off[0], y+off[1]).IsAlive() {
			count++
		}
	}
	return count
}

// Hash returns an MD5 digest of the cell states
func (s Snapshot) Hash() string {
	h := md5.New()
	for _, c := range s.cells {
		h.Write([]byte{byte(c.State)})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
