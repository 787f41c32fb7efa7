package utils

import (
	"io"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/torus-life/model"
)

// GenerationRecord is one row of the telemetry CSV
type GenerationRecord struct {
	Generation int     `csv:"generation"`
	Alive      int     `csv:"alive"`
	Density    float64 `csv:"density"`
	ElapsedMS  int64   `csv:"elapsed_ms"`
}

// CSVRecorder writes one GenerationRecord per published generation
type CSVRecorder struct {
	mu            sync.Mutex
	out           io.Writer
	start         time.Time
	headerWritten bool
	err           error
}

func NewCSVRecorder(out io.Writer) *CSVRecorder {
	return &CSVRecorder{out: out, start: time.Now()}
}

// Observe has the engine observer signature. The first write error is kept
// and later generations are skipped; read it with Err.
func (r *CSVRecorder) Observe(generation int, cells model.Snapshot) {
	rec := GenerationRecord{
		Generation: generation,
		Alive:      cells.CountAlive(),
		ElapsedMS:  time.Since(r.start).Milliseconds(),
	}
	if n := cells.Len(); n > 0 {
		rec.Density = float64(rec.Alive) / float64(n)
	}
	if err := r.Write(rec); err != nil {
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
	}
}

// Write appends rec, emitting the header before the first row
func (r *CSVRecorder) Write(rec GenerationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}

	records := []GenerationRecord{rec}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.out); err != nil {
			return errors.Wrapf(err, "[CSVRecorder.Write] writing generation %d with header", rec.Generation)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
		return errors.Wrapf(err, "[CSVRecorder.Write] writing generation %d", rec.Generation)
	}
	return nil
}

// Err returns the first write failure seen by Observe
func (r *CSVRecorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
