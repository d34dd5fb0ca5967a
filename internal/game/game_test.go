package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/samdwyer/toruslife/internal/config"
	"github.com/samdwyer/toruslife/internal/gamedata"
	"github.com/samdwyer/toruslife/internal/world"
)

// recordingRenderer keeps every snapshot it is asked to render.
type recordingRenderer struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (r *recordingRenderer) Render(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

// newTestGame creates a controller backed by a config file in a temp dir.
func newTestGame(t *testing.T, content string, opts ...Option) (*Game, *recordingRenderer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "life.toml")
	writeConfig(t, path, content)

	store, err := config.Open(path)
	if err != nil {
		t.Fatalf("config.Open() error: %v", err)
	}
	r := &recordingRenderer{}
	g, err := New(context.Background(), store, r, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return g, r, path
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeRunning, "running"},
		{ModePaused, "paused"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.expected {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.expected)
		}
	}
}

func TestNewSeedsFromConfig(t *testing.T) {
	g, _, _ := newTestGame(t, "grid_rows = 8\ngrid_cols = 6\nseed = 42\n")

	want, err := world.Initialize(context.Background(), 8, 6, 42)
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if g.state.Seed != 42 {
		t.Errorf("Seed = %d, want 42", g.state.Seed)
	}
	if !g.state.Grid.Equal(want.Grid) {
		t.Error("initial grid differs from Initialize(42)")
	}
	if g.state.Generation != 0 {
		t.Errorf("Generation = %d, want 0", g.state.Generation)
	}
	if g.mode != ModeRunning {
		t.Errorf("initial mode = %v, want running", g.mode)
	}
	if !g.topo.Fits(g.state.Grid) {
		t.Error("initial topology does not fit the grid")
	}
}

func TestPauseIdempotence(t *testing.T) {
	ctx := context.Background()
	g, _, _ := newTestGame(t, "grid_rows = 5\ngrid_cols = 5\nseed = 1\n")

	if _, changed := g.handle(ctx, Unpause{}); changed {
		t.Error("Unpause while running reported a change")
	}
	if g.mode != ModeRunning || g.state.Generation != 0 {
		t.Errorf("after Unpause: mode=%v generation=%d", g.mode, g.state.Generation)
	}

	g.handle(ctx, Pause{})
	if _, changed := g.handle(ctx, Pause{}); changed {
		t.Error("Pause while paused reported a change")
	}
	if g.mode != ModePaused || g.state.Generation != 0 {
		t.Errorf("after Pause: mode=%v generation=%d", g.mode, g.state.Generation)
	}
}

func TestStepForward(t *testing.T) {
	ctx := context.Background()
	g, r, _ := newTestGame(t, "grid_rows = 6\ngrid_cols = 6\nseed = 9\n")

	want := world.Step(g.state.Grid, world.MustBuildTopology(6, 6))
	g.handle(ctx, StepForward{})

	if g.mode != ModePaused {
		t.Errorf("mode after StepForward = %v, want paused", g.mode)
	}
	if g.state.Generation != 1 {
		t.Errorf("Generation = %d, want 1", g.state.Generation)
	}
	if !g.state.Grid.Equal(want) {
		t.Error("StepForward grid differs from one Step")
	}
	if r.count() != 1 {
		t.Errorf("StepForward rendered %d times, want 1", r.count())
	}

	// Stepping while already paused still advances.
	g.handle(ctx, StepForward{})
	if g.state.Generation != 2 {
		t.Errorf("Generation = %d, want 2", g.state.Generation)
	}
}

func TestStepBackward(t *testing.T) {
	ctx := context.Background()
	g, _, _ := newTestGame(t, "grid_rows = 6\ngrid_cols = 6\nseed = 3\nhistory = 2\n")

	grids := []*world.Grid{g.state.Grid}
	for i := 0; i < 3; i++ {
		g.handle(ctx, StepForward{})
		grids = append(grids, g.state.Grid)
	}

	for want := 2; want >= 1; want-- {
		g.handle(ctx, StepBackward{})
		if g.state.Generation != want {
			t.Fatalf("Generation after step back = %d, want %d", g.state.Generation, want)
		}
		if !g.state.Grid.Equal(grids[want]) {
			t.Errorf("grid after step back to %d differs", want)
		}
	}

	g.handle(ctx, StepBackward{})
	if g.state.Generation != 1 {
		t.Errorf("Generation after failed step back = %d, want 1", g.state.Generation)
	}
	if !strings.Contains(g.message, "Cannot step back") {
		t.Errorf("message = %q, want a step back failure", g.message)
	}
	if err := g.rewind(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("rewind() error = %v, want ErrNoHistory", err)
	}
}

func TestStepBackwardDisabled(t *testing.T) {
	ctx := context.Background()
	g, _, _ := newTestGame(t, "grid_rows = 4\ngrid_cols = 4\nhistory = 0\n")

	g.handle(ctx, StepForward{})
	g.handle(ctx, StepBackward{})

	if g.state.Generation != 1 {
		t.Errorf("Generation = %d, want 1", g.state.Generation)
	}
	if !strings.Contains(g.message, "disabled") {
		t.Errorf("message = %q, want it to mention rewind is disabled", g.message)
	}
}

func TestTickResizesOnConfigChange(t *testing.T) {
	ctx := context.Background()
	g, _, path := newTestGame(t, "grid_rows = 5\ngrid_cols = 5\nseed = 1\n")

	g.handle(ctx, StepForward{})
	writeConfig(t, path, "grid_rows = 7\ngrid_cols = 9\nseed = 1\n")
	g.tick(ctx)

	if g.state.Grid.Rows != 7 || g.state.Grid.Cols != 9 {
		t.Fatalf("grid after resize = %dx%d, want 7x9", g.state.Grid.Rows, g.state.Grid.Cols)
	}
	if g.topo.Rows != 7 || g.topo.Cols != 9 {
		t.Errorf("topology after resize = %dx%d, want 7x9", g.topo.Rows, g.topo.Cols)
	}
	if g.state.Generation != 2 {
		t.Errorf("Generation = %d, want 2", g.state.Generation)
	}
	if g.history.Len() != 1 {
		t.Errorf("history after resize holds %d grids, want 1", g.history.Len())
	}
	if len(g.state.Trail) != 7*9 {
		t.Errorf("len(Trail) = %d, want %d", len(g.state.Trail), 7*9)
	}

	// The next tick runs on the new dimensions without touching stale indices.
	g.tick(ctx)
	if g.state.Generation != 3 {
		t.Errorf("Generation = %d, want 3", g.state.Generation)
	}
}

func TestTickAppliesGlyphChangeInPlace(t *testing.T) {
	ctx := context.Background()
	g, r, path := newTestGame(t, "grid_rows = 5\ngrid_cols = 5\nseed = 1\n")

	seed := g.state.Seed
	writeConfig(t, path, "grid_rows = 5\ngrid_cols = 5\nseed = 1\nlive_cell = \"@\"\nhistory = 1\n")
	g.tick(ctx)

	if g.cfg.LiveGlyph != '@' {
		t.Errorf("LiveGlyph = %q, want '@'", g.cfg.LiveGlyph)
	}
	if g.state.Seed != seed {
		t.Errorf("Seed changed on glyph-only reload: %d -> %d", seed, g.state.Seed)
	}
	if g.history.Cap() != 1 {
		t.Errorf("history capacity = %d, want 1", g.history.Cap())
	}
	if got := r.snapshots[len(r.snapshots)-1].LiveGlyph; got != '@' {
		t.Errorf("rendered LiveGlyph = %q, want '@'", got)
	}
}

func TestTickKeepsRunningWhenRefreshFails(t *testing.T) {
	ctx := context.Background()
	g, _, path := newTestGame(t, "grid_rows = 5\ngrid_cols = 5\n")
	before := g.cfg

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	g.tick(ctx)
	g.tick(ctx)

	if g.state.Generation != 2 {
		t.Errorf("Generation = %d, want 2", g.state.Generation)
	}
	if g.cfg != before {
		t.Error("config changed after failed refresh")
	}
	if !strings.Contains(g.message, "Config reload failed") {
		t.Errorf("message = %q, want a reload failure", g.message)
	}

	writeConfig(t, path, "grid_rows = 5\ngrid_cols = 5\n")
	g.tick(ctx)
	if g.message != "" {
		t.Errorf("message after recovery = %q, want empty", g.message)
	}
}

func TestSaveSeed(t *testing.T) {
	ctx := context.Background()
	g, _, _ := newTestGame(t, "grid_rows = 4\ngrid_cols = 5\nseed = 11\n")
	path := filepath.Join(t.TempDir(), "seed.json")

	g.handle(ctx, SaveSeed{Path: path})

	rec, err := gamedata.LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed() error: %v", err)
	}
	if rec.Seed != 11 {
		t.Errorf("Seed = %d, want 11", rec.Seed)
	}
	if len(rec.NumbersAdded) != len(g.state.Trail) {
		t.Fatalf("len(NumbersAdded) = %d, want %d", len(rec.NumbersAdded), len(g.state.Trail))
	}
	for i := range rec.NumbersAdded {
		if rec.NumbersAdded[i] != g.state.Trail[i] {
			t.Errorf("NumbersAdded[%d] = %d, want %d", i, rec.NumbersAdded[i], g.state.Trail[i])
		}
	}

	replayed, err := world.Replay(4, 5, rec.Seed, rec.NumbersAdded)
	if err != nil {
		t.Fatalf("Replay() error: %v", err)
	}
	if !replayed.Equal(g.state.Grid) {
		t.Error("replayed grid differs from the initial grid")
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	ctx := context.Background()
	g, _, _ := newTestGame(t, "grid_rows = 4\ngrid_cols = 4\n")
	before := g.state.Grid.Clone()

	g.handle(ctx, SaveState{Path: filepath.Join(t.TempDir(), "missing", "state.json")})
	if !strings.Contains(g.message, "Save state failed") {
		t.Errorf("message = %q, want a save failure", g.message)
	}

	g.handle(ctx, SaveSeed{})
	if !strings.Contains(g.message, "Save seed failed") {
		t.Errorf("message = %q, want a save failure", g.message)
	}

	if !g.state.Grid.Equal(before) {
		t.Error("failed export changed the grid")
	}
}

func TestSaveStateAndResume(t *testing.T) {
	ctx := context.Background()
	g, _, _ := newTestGame(t, "grid_rows = 6\ngrid_cols = 6\nseed = 5\n", WithRunID("test-run"))
	g.handle(ctx, StepForward{})
	g.handle(ctx, StepForward{})

	path := filepath.Join(t.TempDir(), "state.yaml")
	g.handle(ctx, SaveState{Path: path})

	rec, err := gamedata.LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error: %v", err)
	}
	if rec.RunID != "test-run" || rec.Generation != 2 || rec.Seed != 5 {
		t.Errorf("LoadState() = %+v", rec)
	}

	grid, err := rec.Grid()
	if err != nil {
		t.Fatalf("Grid() error: %v", err)
	}
	resumed, _, _ := newTestGame(t, "grid_rows = 6\ngrid_cols = 6\n", WithState(&State{
		Grid:       grid,
		Generation: rec.Generation,
		Seed:       rec.Seed,
		Trail:      rec.NumbersAdded,
	}))
	if !resumed.state.Grid.Equal(g.state.Grid) || resumed.state.Generation != 2 {
		t.Error("resumed game differs from the saved one")
	}
}

func TestWithStateDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "life.toml")
	writeConfig(t, path, "grid_rows = 6\ngrid_cols = 6\n")
	store, err := config.Open(path)
	if err != nil {
		t.Fatalf("config.Open() error: %v", err)
	}

	_, err = New(context.Background(), store, nil, WithState(&State{Grid: world.MustNewGrid(3, 3)}))
	if !errors.Is(err, world.ErrInvalidDimensions) {
		t.Errorf("New() error = %v, want ErrInvalidDimensions", err)
	}
}

func TestRunProcessesCommands(t *testing.T) {
	g, r, _ := newTestGame(t, "grid_rows = 6\ngrid_cols = 6\nspeed = 3600000\n")

	// Queued before Run starts, so the first cycle pauses before any tick.
	g.Send(Pause{})
	g.Send(StepForward{})
	g.Send(StepForward{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- g.Run(ctx) }()

	snap, err := g.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if snap.Generation != 2 {
		t.Errorf("Snapshot().Generation = %d, want 2", snap.Generation)
	}
	if snap.Mode != ModePaused {
		t.Errorf("Snapshot().Mode = %v, want paused", snap.Mode)
	}
	if snap.History != 2 {
		t.Errorf("Snapshot().History = %d, want 2", snap.History)
	}

	g.Send(Quit{})
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-ctx.Done():
		t.Fatal("Run() did not return after Quit")
	}

	if _, err := g.Snapshot(ctx); !errors.Is(err, ErrStopped) {
		t.Errorf("Snapshot() after stop error = %v, want ErrStopped", err)
	}
	if r.count() < 3 {
		t.Errorf("rendered %d times, want at least 3", r.count())
	}
}

func TestRunTicksWhileRunning(t *testing.T) {
	g, _, _ := newTestGame(t, "grid_rows = 8\ngrid_cols = 8\nspeed = 1\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go g.Run(ctx)

	for {
		snap, err := g.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot() error: %v", err)
		}
		if snap.Generation >= 3 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	g.Send(Quit{})
	<-g.Done()
}

func TestRunQuitInterruptsSleep(t *testing.T) {
	g, _, _ := newTestGame(t, "grid_rows = 4\ngrid_cols = 4\nspeed = 3600000\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go g.Run(ctx)

	// Wait for the first tick so the controller is inside its hour-long sleep.
	for {
		snap, err := g.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot() error: %v", err)
		}
		if snap.Generation == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	start := time.Now()
	g.Send(Quit{})
	select {
	case <-g.Done():
	case <-ctx.Done():
		t.Fatal("Quit did not interrupt the tick sleep")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Quit took %v to take effect", elapsed)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g, _, _ := newTestGame(t, "grid_rows = 4\ngrid_cols = 4\n")

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- g.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

// counterValue returns the summed value of the named int64 counter.
func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s has data %T, want Sum[int64]", name, m.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestMetricsCountGenerationsAndReloads(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	g, _, path := newTestGame(t, "grid_rows = 5\ngrid_cols = 5\nseed = 3\n", WithMeterProvider(mp))

	g.handle(ctx, StepForward{})
	g.handle(ctx, StepForward{})
	g.tick(ctx)
	if got := counterValue(t, reader, "toruslife.generations"); got != 3 {
		t.Errorf("toruslife.generations = %d, want 3", got)
	}
	if got := counterValue(t, reader, "toruslife.config.reloads"); got != 0 {
		t.Errorf("toruslife.config.reloads = %d, want 0", got)
	}

	writeConfig(t, path, "grid_rows = 5\ngrid_cols = 5\nseed = 3\nspeed = 10\n")
	g.tick(ctx)
	if got := counterValue(t, reader, "toruslife.config.reloads"); got != 1 {
		t.Errorf("toruslife.config.reloads = %d, want 1", got)
	}
	if got := counterValue(t, reader, "toruslife.generations"); got != 4 {
		t.Errorf("toruslife.generations = %d, want 4", got)
	}
}
