// Package engine advances a toroidal board one generation at a time and
// publishes every generation to registered observers.
package engine

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/torus-life/model"
	"github.com/sheikhrachel/torus-life/rules"
	"github.com/sheikhrachel/torus-life/utils"
)

// ErrAlreadyRunning is returned by Start once the loop has been started
var ErrAlreadyRunning = errors.New("engine already running")

// State is the lifecycle phase of an Engine
type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return "unknown"
}

// Observer receives each completed generation. It runs on the tick's
// goroutine and the next tick waits for it to return.
type Observer func(generation int, cells model.Snapshot)

// Engine owns the live grid. The tick is the only writer.
type Engine struct {
	cfg    utils.Config
	logger *slog.Logger
	rng    *rand.Rand
	pool   *model.SnapshotPool

	// tickMu is held for a whole tick, observers included, so ticks and
	// their notifications never interleave
	tickMu sync.Mutex

	// mu guards grid and generation
	mu         sync.Mutex
	grid       *model.Grid
	generation int

	obsMu     sync.RWMutex
	observers []Observer

	stateMu sync.Mutex
	state   State
	done    chan struct{}

	autoStartCtx context.Context
}

// Option customizes an Engine at construction
type Option func(*Engine)

// WithLogger sets the logger, the default discards everything
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRand sets the random source used for seeding the board
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithGrid starts the engine from g instead of a random board. The engine
// takes ownership of g.
func WithGrid(g *model.Grid) Option {
	return func(e *Engine) { e.grid = g }
}

// WithObserver registers fn before an auto-started loop can tick
func WithObserver(fn Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, fn) }
}

// WithContext is the context an auto-started loop runs under
func WithContext(ctx context.Context) Option {
	return func(e *Engine) { e.autoStartCtx = ctx }
}

// New validates cfg and builds the board. With AutoStart set the loop is
// already running when New returns.
func New(cfg utils.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "[engine.New]")
	}

	e := &Engine{
		cfg:          cfg,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:         make(chan struct{}),
		autoStartCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if cfg.UseMemoryPool {
		e.pool = model.NewSnapshotPool()
	}

	if e.grid == nil {
		if e.rng == nil {
			e.rng = newRand(cfg.Seed)
		}
		grid, err := model.NewRandomGrid(cfg.SideLength, cfg.Population(), e.rng)
		if err != nil {
			return nil, errors.Wrap(err, "[engine.New]")
		}
		e.grid = grid
	}

	e.logger.Info("board created",
		"side", e.grid.Side(),
		"alive", e.grid.CountAlive(),
	)

	if cfg.AutoStart {
		if err := e.Start(e.autoStartCtx); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, 0))
}

// OnGenerationAdvanced registers fn. Observers are called in registration order.
func (e *Engine) OnGenerationAdvanced(fn Observer) {
	if fn == nil {
		return
	}
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	e.observers = append(e.observers, fn)
}

// Start moves the engine from Idle to Running and launches the tick loop.
// The loop stops when ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	if e.state == Running {
		return ErrAlreadyRunning
	}
	e.state = Running
	e.logger.Info("engine started",
		"initial_delay", e.cfg.InitialDelay,
		"tick_interval", e.cfg.TickInterval,
	)
	go e.run(ctx)
	return nil
}

// State returns the current lifecycle phase
func (e *Engine) State() State {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.state
}

// Done is closed when the tick loop exits
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Generation returns the number of completed ticks
func (e *Engine) Generation() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Side returns the board side length
func (e *Engine) Side() int {
	return e.grid.Side()
}

// Snapshot returns a copy of the current board
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Snapshot()
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	if !sleep(ctx, e.cfg.InitialDelay) {
		e.logger.Info("engine stopped before first tick")
		return
	}
	for {
		e.Tick()
		if !sleep(ctx, e.cfg.TickInterval) {
			e.logger.Info("engine stopped", "generation", e.Generation())
			return
		}
	}
}

// sleep waits for d and reports false when ctx ends first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Tick advances the board one generation, notifies every observer with the
// new generation, and returns the published snapshot.
// Observers must not call Tick.
func (e *Engine) Tick() model.Snapshot {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	e.mu.Lock()
	prev := e.pool.Take(e.grid)
	if e.cfg.UseParallel {
		e.advanceParallel(prev)
	} else {
		e.advanceRows(prev, 0, prev.Side())
	}
	e.pool.Release(prev)
	e.generation++
	generation := e.generation
	published := e.grid.Snapshot()
	e.mu.Unlock()

	e.logger.Info("generation advanced",
		"generation", generation,
		"alive", published.CountAlive(),
	)

	e.obsMu.RLock()
	observers := e.observers
	e.obsMu.RUnlock()
	for _, fn := range observers {
		fn(generation, published)
	}
	return published
}

// advanceRows applies the rule to rows [from, to) of the live grid, reading
// neighbor counts only from prev
func (e *Engine) advanceRows(prev model.Snapshot, from, to int) {
	side := prev.Side()
	for i := from; i < to; i++ {
		for j := 0; j < side; j++ {
			n := prev.CountAliveNeighbors(i, j)
			e.grid.Set(i, j, rules.Apply(n, prev.Get(i, j).State))
		}
	}
}

// advanceParallel splits rows across workers. Each worker writes a disjoint
// band of cells, so the result matches advanceRows over the whole board.
func (e *Engine) advanceParallel(prev model.Snapshot) {
	var (
		eg            errgroup.Group
		side          = prev.Side()
		numWorkers    = min(runtime.NumCPU(), side)
		rowsPerWorker = (side + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, side)
		)
		if startRow >= side {
			break
		}

		eg.Go(func() error {
			e.advanceRows(prev, startRow, endRow)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		e.logger.Error("parallel tick failed", "error", err)
	}
}
