// Package config loads, validates and hot-reloads the simulation configuration.
package config

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	// Default dimensions
	DefaultRows = 50
	DefaultCols = 50

	// MaxCells bounds grid_rows * grid_cols so a typo on reload cannot
	// exhaust memory.
	MaxCells = 1 << 22

	// DefaultHistory is the number of prior generations kept for stepping back.
	DefaultHistory = 64

	DefaultLiveGlyph = '■'
	DefaultDeadGlyph = '▢'
)

// Config holds the simulation parameters. It is a comparable value: two
// configs are equal exactly when every field matches.
type Config struct {
	LiveGlyph rune
	DeadGlyph rune

	Rows int
	Cols int

	// TickInterval is the pause between automatic generations.
	TickInterval time.Duration

	// Seed drives grid initialization when HasSeed is set; otherwise a
	// random seed is drawn at startup.
	Seed    uint64
	HasSeed bool

	// History bounds how many prior generations are kept; 0 disables stepping back.
	History int

	// LiveColor and DeadColor are optional "#RRGGBB" colours for the terminal renderer.
	LiveColor string
	DeadColor string
}

// Default returns the configuration used for every key missing from a file.
func Default() Config {
	return Config{
		LiveGlyph:    DefaultLiveGlyph,
		DeadGlyph:    DefaultDeadGlyph,
		Rows:         DefaultRows,
		Cols:         DefaultCols,
		TickInterval: 0,
		History:      DefaultHistory,
	}
}

// SameDimensions returns true if both configs describe the same grid size.
func (c Config) SameDimensions(other Config) bool {
	return c.Rows == other.Rows && c.Cols == other.Cols
}

// SameSeeding returns true if both configs would seed a grid identically.
func (c Config) SameSeeding(other Config) bool {
	return c.HasSeed == other.HasSeed && (!c.HasSeed || c.Seed == other.Seed)
}

// Validate reports the first field that is out of range.
func (c Config) Validate() error {
	if c.Rows < 1 {
		return errors.Wrapf(ErrInvalid, "grid_rows must be at least 1, got %d", c.Rows)
	}
	if c.Cols < 1 {
		return errors.Wrapf(ErrInvalid, "grid_cols must be at least 1, got %d", c.Cols)
	}
	if c.Rows > MaxCells/c.Cols {
		return errors.Wrapf(ErrInvalid, "grid_rows * grid_cols must be at most %d, got %dx%d", MaxCells, c.Rows, c.Cols)
	}
	if c.TickInterval < 0 {
		return errors.Wrapf(ErrInvalid, "speed must not be negative, got %d", c.TickInterval.Milliseconds())
	}
	if c.History < 0 {
		return errors.Wrapf(ErrInvalid, "history must not be negative, got %d", c.History)
	}
	if c.LiveGlyph == 0 || c.DeadGlyph == 0 {
		return errors.Wrap(ErrInvalid, "live_cell and dead_cell must be set")
	}
	for key, value := range map[string]string{"live_color": c.LiveColor, "dead_color": c.DeadColor} {
		if value != "" && !validHexColor(value) {
			return errors.Wrapf(ErrInvalid, "%s must be a #RRGGBB colour, got %q", key, value)
		}
	}
	return nil
}

// glyph converts a config string into a single display rune.
func glyph(key, value string) (rune, error) {
	if utf8.RuneCountInString(value) != 1 {
		return 0, errors.Wrapf(ErrInvalid, "%s must be a single character, got %q", key, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

func validHexColor(value string) bool {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}
