package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/toruslife/internal/config"
	"github.com/samdwyer/toruslife/internal/gamedata"
	"github.com/samdwyer/toruslife/internal/telemetry"
	"github.com/samdwyer/toruslife/internal/world"
)

var (
	// ErrNoHistory is returned by a step backward with nothing to restore.
	ErrNoHistory = errors.New("no history retained")
	// ErrStopped is returned by requests made after the controller stopped.
	ErrStopped = errors.New("controller stopped")
)

// Renderer paints a snapshot. It is called on the controller goroutine.
type Renderer interface {
	Render(Snapshot)
}

type nopRenderer struct{}

func (nopRenderer) Render(Snapshot) {}

// Game is the simulation controller. It owns the state exclusively: every
// read or write happens on the goroutine running Run, and other goroutines
// talk to it through Send and Snapshot.
type Game struct {
	store    *config.Store
	cfg      config.Config
	renderer Renderer
	logger   *log.Logger
	tracer   trace.Tracer
	runID    string

	queue   *Queue
	state   *State
	topo    *world.Topology
	history *History
	mode    Mode
	message string

	// lastReloadErr suppresses repeated reports of the same refresh failure.
	lastReloadErr string

	meter       metric.Meter
	generations metric.Int64Counter
	reloads     metric.Int64Counter

	done chan struct{}
}

// New creates a controller for the store's current configuration. Unless a
// state is supplied with WithState, the grid is seeded from the configured
// seed, or from a random one when the configuration has none.
func New(ctx context.Context, store *config.Store, renderer Renderer, opts ...Option) (*Game, error) {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	g := &Game{
		store:    store,
		cfg:      store.Current(),
		renderer: renderer,
		logger:   log.New(io.Discard),
		tracer:   telemetry.Tracer("game"),
		meter:    telemetry.Meter("game"),
		runID:    telemetry.RunID(),
		queue:    NewQueue(),
		mode:     ModeRunning,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.state == nil {
		seed := world.RandomSeed()
		if g.cfg.HasSeed {
			seed = g.cfg.Seed
		}
		s, err := world.Initialize(ctx, g.cfg.Rows, g.cfg.Cols, seed)
		if err != nil {
			return nil, err
		}
		g.state = NewState(s)
	} else if g.state.Grid.Rows != g.cfg.Rows || g.state.Grid.Cols != g.cfg.Cols {
		return nil, fmt.Errorf("%w: state is %dx%d but config wants %dx%d", world.ErrInvalidDimensions,
			g.state.Grid.Rows, g.state.Grid.Cols, g.cfg.Rows, g.cfg.Cols)
	}

	topo, err := world.BuildTopology(g.cfg.Rows, g.cfg.Cols)
	if err != nil {
		return nil, err
	}
	g.topo = topo
	g.history = NewHistory(g.cfg.History)

	if g.generations, err = g.meter.Int64Counter("toruslife.generations",
		metric.WithDescription("Generations computed")); err != nil {
		g.generations = metricnoop.Int64Counter{}
	}
	if g.reloads, err = g.meter.Int64Counter("toruslife.config.reloads",
		metric.WithDescription("Configuration changes applied")); err != nil {
		g.reloads = metricnoop.Int64Counter{}
	}

	return g, nil
}

// Send queues a command for the controller. It never blocks.
func (g *Game) Send(cmd Command) {
	g.queue.Push(cmd)
}

// Snapshot asks the controller for a copy of its state and waits for it.
func (g *Game) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	g.Send(snapshotRequest{reply: reply})
	select {
	case s := <-reply:
		return s, nil
	case <-g.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Done is closed when Run returns.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// Run executes the control loop until a Quit command arrives or ctx is
// cancelled; both are a clean stop and return nil.
func (g *Game) Run(ctx context.Context) error {
	defer close(g.done)

	g.logger.Info("simulation started",
		"rows", g.cfg.Rows, "cols", g.cfg.Cols,
		"seed", g.state.Seed, "generation", g.state.Generation,
		"interval", g.cfg.TickInterval)
	g.render()

	next := time.Now()
	for {
		if g.drain(ctx) {
			g.logger.Info("simulation stopped", "generation", g.state.Generation)
			return nil
		}

		if g.mode == ModeRunning {
			if now := time.Now(); !now.Before(next) {
				g.tick(ctx)
				next = now.Add(g.cfg.TickInterval)
			}
		}

		if err := g.wait(ctx, next); err != nil {
			g.logger.Info("simulation cancelled", "generation", g.state.Generation)
			return nil
		}
	}
}

// wait blocks until the next tick is due, a command arrives or ctx ends.
// While paused only a command or ctx can end the wait.
func (g *Game) wait(ctx context.Context, next time.Time) error {
	if g.mode != ModeRunning {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-g.queue.Ready():
			return nil
		}
	}

	d := time.Until(next)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.queue.Ready():
	case <-timer.C:
	}
	return nil
}

// drain applies every pending command in order. It reports whether Quit was seen.
func (g *Game) drain(ctx context.Context) bool {
	cmds := g.queue.Drain()
	if len(cmds) == 0 {
		return false
	}

	dirty := false
	for _, cmd := range cmds {
		quit, changed := g.handle(ctx, cmd)
		if quit {
			return true
		}
		dirty = dirty || changed
	}
	if dirty {
		g.render()
	}
	return false
}

// handle applies a single command. It reports whether the controller must
// stop and whether the visible state may have changed.
func (g *Game) handle(ctx context.Context, cmd Command) (quit, changed bool) {
	switch c := cmd.(type) {
	case Pause:
		return false, g.setMode(ModePaused)
	case Unpause:
		return false, g.setMode(ModeRunning)
	case StepForward:
		g.mode = ModePaused
		g.advance(ctx)
		g.render()
		return false, false
	case StepBackward:
		g.mode = ModePaused
		if err := g.rewind(); err != nil {
			g.logger.Warn("step backward failed", "err", err, "generation", g.state.Generation)
			g.report("Cannot step back: %v", err)
		} else {
			g.report("")
		}
		g.render()
		return false, false
	case SaveSeed:
		g.saveSeed(ctx, c.Path)
		return false, true
	case SaveState:
		g.saveState(ctx, c.Path)
		return false, true
	case Quit:
		return true, false
	case snapshotRequest:
		c.reply <- g.snapshot(true)
		return false, false
	default:
		g.logger.Warn("ignoring unknown command", "command", fmt.Sprintf("%T", cmd))
		return false, false
	}
}

// setMode switches mode and reports whether it actually changed.
func (g *Game) setMode(m Mode) bool {
	if g.mode == m {
		return false
	}
	g.logger.Debug("mode changed", "from", g.mode, "to", m)
	g.mode = m
	return true
}

// tick is one automatic cycle: pick up config changes, advance, render.
func (g *Game) tick(ctx context.Context) {
	g.reload(ctx)
	g.advance(ctx)
	g.render()
}

// advance computes the next generation, keeping the current one in history.
func (g *Game) advance(ctx context.Context) {
	g.history.Push(g.state.Grid)
	g.state.Grid = world.Step(g.state.Grid, g.topo)
	g.state.Generation++
	g.generations.Add(ctx, 1)
	g.logger.Debug("generation", "n", g.state.Generation, "live", g.state.Grid.LiveCount())
}

// rewind restores the most recent grid from history.
func (g *Game) rewind() error {
	if g.history.Cap() == 0 {
		return fmt.Errorf("%w: stepping back is disabled (history = 0)", ErrNoHistory)
	}
	prev, ok := g.history.Pop()
	if !ok {
		return fmt.Errorf("%w: at the oldest retained generation %d", ErrNoHistory, g.state.Generation)
	}
	g.state.Grid = prev
	g.state.Generation--
	return nil
}

// reload refreshes the configuration store and applies any change. A failed
// refresh keeps the last good configuration.
func (g *Game) reload(ctx context.Context) {
	changed, err := g.store.Refresh()
	if err != nil {
		if msg := err.Error(); msg != g.lastReloadErr {
			g.lastReloadErr = msg
			g.logger.Warn("config refresh failed, keeping last good config", "path", g.store.Path(), "err", err)
			g.report("Config reload failed: %v", err)
		}
		return
	}
	if g.lastReloadErr != "" {
		g.lastReloadErr = ""
		g.report("")
	}
	if changed {
		g.apply(ctx, g.store.Current())
	}
}

// apply switches to a new configuration. A change of dimensions or seed
// reseeds the grid and rebuilds the topology; anything else applies in place.
func (g *Game) apply(ctx context.Context, next config.Config) {
	ctx, span := g.tracer.Start(ctx, "config.apply")
	defer span.End()

	prev := g.cfg
	reseed := !prev.SameDimensions(next) || !prev.SameSeeding(next)
	span.SetAttributes(
		attribute.Bool("config.reseed", reseed),
		attribute.Int("grid.rows", next.Rows),
		attribute.Int("grid.cols", next.Cols),
	)

	if reseed {
		seed := g.state.Seed
		if next.HasSeed {
			seed = next.Seed
		} else if prev.HasSeed {
			seed = world.RandomSeed()
		}

		s, err := world.Initialize(ctx, next.Rows, next.Cols, seed)
		if err != nil {
			span.RecordError(err)
			g.logger.Error("config change rejected", "err", err)
			g.report("Config change rejected: %v", err)
			return
		}
		topo, err := world.BuildTopology(next.Rows, next.Cols)
		if err != nil {
			span.RecordError(err)
			g.logger.Error("config change rejected", "err", err)
			g.report("Config change rejected: %v", err)
			return
		}

		g.state.Grid = s.Grid
		g.state.Seed = s.Seed
		g.state.Trail = s.Trail
		g.topo = topo
		g.history = NewHistory(next.History)
	} else if prev.History != next.History {
		g.history.Resize(next.History)
	}

	g.cfg = next
	g.reloads.Add(ctx, 1)
	g.logger.Info("config reloaded",
		"rows", next.Rows, "cols", next.Cols,
		"interval", next.TickInterval, "reseeded", reseed, "seed", g.state.Seed)
	g.report("Config reloaded")
}

func (g *Game) saveSeed(ctx context.Context, path string) {
	_, span := g.tracer.Start(ctx, "export.seed")
	defer span.End()
	span.SetAttributes(attribute.String("export.path", path))

	err := errors.New("no path given")
	if path != "" {
		err = gamedata.SaveSeed(path, gamedata.SeedRecord{
			Seed:         g.state.Seed,
			NumbersAdded: g.state.Trail,
		})
	}
	if err != nil {
		span.RecordError(err)
		g.logger.Warn("seed export failed", "path", path, "err", err)
		g.report("Save seed failed: %v", err)
		return
	}
	g.logger.Info("seed exported", "path", path, "seed", g.state.Seed, "draws", len(g.state.Trail))
	g.report("Seed saved to %s", path)
}

func (g *Game) saveState(ctx context.Context, path string) {
	_, span := g.tracer.Start(ctx, "export.state")
	defer span.End()
	span.SetAttributes(
		attribute.String("export.path", path),
		attribute.Int("generation", g.state.Generation),
	)

	err := errors.New("no path given")
	if path != "" {
		rec := gamedata.NewStateRecord(g.runID, g.state.Generation, g.state.Seed, g.state.Trail, g.state.Grid)
		err = gamedata.SaveState(path, rec)
	}
	if err != nil {
		span.RecordError(err)
		g.logger.Warn("state export failed", "path", path, "err", err)
		g.report("Save state failed: %v", err)
		return
	}
	g.logger.Info("state exported", "path", path, "generation", g.state.Generation)
	g.report("State saved to %s", path)
}

// report sets the operator-facing status message. An empty format clears it.
func (g *Game) report(format string, args ...any) {
	if format == "" {
		g.message = ""
		return
	}
	g.message = fmt.Sprintf(format, args...)
}

func (g *Game) render() {
	g.renderer.Render(g.snapshot(false))
}

// snapshot builds a view of the state. Grids are never modified in place,
// so the renderer can share the current one; detached copies are cloned.
func (g *Game) snapshot(detached bool) Snapshot {
	grid := g.state.Grid
	if detached {
		grid = grid.Clone()
	}
	return Snapshot{
		Generation: g.state.Generation,
		Seed:       g.state.Seed,
		Grid:       grid,
		Mode:       g.mode,
		Message:    g.message,
		History:    g.history.Len(),
		LiveGlyph:  g.cfg.LiveGlyph,
		DeadGlyph:  g.cfg.DeadGlyph,
		LiveColor:  g.cfg.LiveColor,
		DeadColor:  g.cfg.DeadColor,
	}
}
