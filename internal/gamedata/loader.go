// Package gamedata reads and writes the seed and state export files.
package gamedata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// isYAML reports whether the file name selects YAML over the default JSON.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Load reads and unmarshals a JSON or YAML file, chosen by extension.
func Load[T any](path string) (T, error) {
	var result T

	content, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(content, &result)
	} else {
		err = json.Unmarshal(content, &result)
	}
	if err != nil {
		return result, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return result, nil
}

// Save marshals v as JSON or YAML, chosen by extension, and replaces path
// with it. The content is written to a temporary file first so a failed write
// never leaves a truncated export behind.
func Save(path string, v any) error {
	var (
		content []byte
		err     error
	)
	if isYAML(path) {
		content, err = yaml.Marshal(v)
	} else {
		content, err = json.MarshalIndent(v, "", "  ")
		content = append(content, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
