package model

import "sync"

// SnapshotPool recycles the cell buffers of scratch snapshots. Only
// snapshots that never leave the engine may be returned to it.
type SnapshotPool struct {
	pool sync.Pool
}

func NewSnapshotPool() *SnapshotPool {
	return &SnapshotPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]Cell)
			},
		},
	}
}

// Take copies g into a pooled buffer. A nil pool allocates.
func (p *SnapshotPool) Take(g *Grid) Snapshot {
	if p == nil {
		return g.Snapshot()
	}
	buf := p.pool.Get().(*[]Cell)
	return g.SnapshotInto(*buf)
}

// Release hands the snapshot's buffer back for reuse. A nil pool does nothing.
func (p *SnapshotPool) Release(s Snapshot) {
	if p == nil {
		return
	}
	buf := s.cells[:0]
	p.pool.Put(&buf)
}
