package game

import (
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/metric"

	"github.com/samdwyer/toruslife/internal/telemetry"
)

// Option customizes a Game.
type Option func(*Game)

// WithLogger sets the logger used for lifecycle and error reports.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithState starts the simulation from an existing state, such as a resumed
// export or a replayed seed file, instead of seeding a new grid. Its grid must
// match the configured dimensions.
func WithState(s *State) Option {
	return func(g *Game) {
		g.state = s
	}
}

// WithRunID sets the identifier written into state exports.
func WithRunID(id string) Option {
	return func(g *Game) {
		g.runID = id
	}
}

// WithMeterProvider records the controller's counters with mp instead of the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(g *Game) {
		g.meter = telemetry.MeterFrom(mp, "game")
	}
}
