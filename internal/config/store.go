package config

import "sync"

// Store holds the current configuration and re-reads its backing file on
// request. Readers on any goroutine always see a fully replaced value.
type Store struct {
	path string

	mu  sync.RWMutex
	cur Config
}

// Open loads and validates the file at path. A failure here is meant to be
// fatal: the simulation must not start without a valid configuration.
func Open(path string) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(path, cfg), nil
}

// NewStore creates a store with an already loaded configuration.
func NewStore(path string, cfg Config) *Store {
	return &Store{path: path, cur: cfg}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Current returns a copy of the current configuration.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Refresh re-reads the backing file and reports whether any value changed.
// On error the previous configuration is kept.
func (s *Store) Refresh() (changed bool, err error) {
	next, err := Load(s.path)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if next == s.cur {
		return false, nil
	}
	s.cur = next
	return true, nil
}
