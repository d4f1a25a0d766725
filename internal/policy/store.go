package policy

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/winsession/internal/domain"
)

// Store holds the window settings. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	settings domain.Settings
}

// NewStore creates a Store holding s, with empty fields defaulted.
func NewStore(s domain.Settings) *Store {
	s.SetDefaults()
	return &Store{settings: s}
}

// Get returns the current settings.
func (s *Store) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Replace validates next and makes it current.
func (s *Store) Replace(next domain.Settings) error {
	next.SetDefaults()
	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	return nil
}

// LoadSettingsFile reads window settings from a TOML file.
// A missing file yields the defaults.
func LoadSettingsFile(path string) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}
	settings.SetDefaults()
	if err := settings.Validate(); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("invalid settings file: %w", err)
	}
	return settings, nil
}

// WriteSettingsFile writes settings to path as TOML.
func WriteSettingsFile(path string, s domain.Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Reload reads path and replaces the current settings with its content.
// The current settings are kept when the file is invalid.
func (s *Store) Reload(path string) error {
	next, err := LoadSettingsFile(path)
	if err != nil {
		return err
	}
	return s.Replace(next)
}
