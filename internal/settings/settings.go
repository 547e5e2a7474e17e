// Package settings persists small key-value preferences across sessions.
package settings

import (
	"context"
	"sync"
)

// Theme values stored under the theme key.
const (
	KeyTheme   = "theme"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is the persistence port for preferences. Get returns an empty
// string for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Theme reads the stored theme, defaulting to light when absent or invalid.
func Theme(ctx context.Context, s Store) string {
	value, err := s.Get(ctx, KeyTheme)
	if err != nil || (value != ThemeLight && value != ThemeDark) {
		return ThemeLight
	}
	return value
}

// Memory is an in-process Store for tests and non-persistent runs.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the stored value, or empty when absent.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

// Set stores the value.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
