package main

import (
	"flag"
	"os"
)

// Options represents the command-line parameters for the application.
type Options struct {
	ConfigPath string
	Init       bool
	Plain      bool
	LogPath    string
	Debug      bool
	ReplayPath string
	ResumePath string
}

// NewOptions returns Options populated with defaults. The config path
// defaults to $TORUSLIFE_CONFIG when set.
func NewOptions() *Options {
	path := os.Getenv("TORUSLIFE_CONFIG")
	if path == "" {
		path = "life.toml"
	}
	return &Options{ConfigPath: path, LogPath: "toruslife.log"}
}

// Bind attaches the options to the provided FlagSet.
func (o *Options) Bind(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", o.ConfigPath, "configuration file (TOML, or YAML by extension)")
	fs.BoolVar(&o.Init, "init", o.Init, "write the default configuration file if it does not exist")
	fs.BoolVar(&o.Plain, "plain", o.Plain, "plain text output and line commands instead of a terminal screen")
	fs.StringVar(&o.LogPath, "log", o.LogPath, "log file used while the terminal screen is active")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "log every generation")
	fs.StringVar(&o.ReplayPath, "replay", o.ReplayPath, "rebuild the initial grid from a saved seed file")
	fs.StringVar(&o.ResumePath, "resume", o.ResumePath, "start from a saved state file")
}
