package model

import "testing"

func TestSnapshotPoolTakeCopiesGrid(t *testing.T) {
	pool := NewSnapshotPool()
	g, _ := NewEmptyGrid(4)
	g.Set(1, 2, Alive)

	s := pool.Take(g)
	if s.Len() != 16 || !s.Get(1, 2).IsAlive() || s.CountAlive() != 1 {
		t.Fatalf("pooled snapshot does not match grid")
	}
	pool.Release(s)

	g.Set(1, 2, Empty)
	g.Set(3, 3, Alive)
	s = pool.Take(g)
	if s.Get(1, 2).IsAlive() || !s.Get(3, 3).IsAlive() {
		t.Fatalf("reused buffer kept stale cells")
	}
}

func TestNilSnapshotPool(t *testing.T) {
	var pool *SnapshotPool
	g, _ := NewEmptyGrid(2)
	g.Set(0, 1, Alive)

	s := pool.Take(g)
	if !s.Get(0, 1).IsAlive() {
		t.Fatalf("nil pool snapshot does not match grid")
	}
	pool.Release(s)
}
