// Package data provides the embedded default configuration file.
package data

import (
	_ "embed"
	"os"
)

//go:embed default.toml
var defaultConfig []byte

// DefaultConfig returns the contents of the bundled default configuration.
func DefaultConfig() []byte {
	return defaultConfig
}

// WriteDefaultConfig writes the bundled configuration to path unless a file
// already exists there. It reports whether a file was written.
func WriteDefaultConfig(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if os.IsExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := f.Write(defaultConfig); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}
