package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format selects the decoder for a configuration file.
type Format int

const (
	// FormatTOML is the default format.
	FormatTOML Format = iota
	// FormatYAML is selected by a .yaml or .yml extension.
	FormatYAML
)

// FormatFor picks the format from a file name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// maxSpeed is the largest speed, in milliseconds, a time.Duration can hold.
const maxSpeed = math.MaxInt64 / int64(time.Millisecond)

// file mirrors the on-disk keys. Every key is optional.
type file struct {
	LiveCell  *string `toml:"live_cell" yaml:"live_cell"`
	DeadCell  *string `toml:"dead_cell" yaml:"dead_cell"`
	GridRows  *int    `toml:"grid_rows" yaml:"grid_rows"`
	GridCols  *int    `toml:"grid_cols" yaml:"grid_cols"`
	Speed     *int64  `toml:"speed" yaml:"speed"`
	Seed      *uint64 `toml:"seed" yaml:"seed"`
	History   *int    `toml:"history" yaml:"history"`
	LiveColor *string `toml:"live_color" yaml:"live_color"`
	DeadColor *string `toml:"dead_color" yaml:"dead_color"`
}

// Decode parses configuration content, fills in defaults for missing keys and
// validates the result.
func Decode(data []byte, format Format) (Config, error) {
	var f file
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Config{}, errors.Wrap(err, "failed to parse YAML")
		}
	default:
		if err := toml.Unmarshal(data, &f); err != nil {
			return Config{}, errors.Wrap(err, "failed to parse TOML")
		}
	}
	return f.resolve()
}

// Load reads and decodes the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}
	cfg, err := Decode(data, FormatFor(path))
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (f file) resolve() (Config, error) {
	c := Default()

	if f.LiveCell != nil {
		r, err := glyph("live_cell", *f.LiveCell)
		if err != nil {
			return Config{}, err
		}
		c.LiveGlyph = r
	}
	if f.DeadCell != nil {
		r, err := glyph("dead_cell", *f.DeadCell)
		if err != nil {
			return Config{}, err
		}
		c.DeadGlyph = r
	}
	if f.GridRows != nil {
		c.Rows = *f.GridRows
	}
	if f.GridCols != nil {
		c.Cols = *f.GridCols
	}
	if f.Speed != nil {
		if *f.Speed > maxSpeed {
			return Config{}, errors.Wrapf(ErrInvalid, "speed must be at most %d, got %d", maxSpeed, *f.Speed)
		}
		c.TickInterval = time.Duration(*f.Speed) * time.Millisecond
	}
	if f.Seed != nil {
		c.Seed = *f.Seed
		c.HasSeed = true
	}
	if f.History != nil {
		c.History = *f.History
	}
	if f.LiveColor != nil {
		c.LiveColor = *f.LiveColor
	}
	if f.DeadColor != nil {
		c.DeadColor = *f.DeadColor
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
