package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/infitab/infitab/internal/config/data"
)

// Config is the root configuration for the application.
type Config struct {
	Infitab *Infitab `yaml:"infitab"`

	// file holds the settings as loaded, before CLI overrides.
	file *Infitab
	mx   sync.RWMutex
}

// NewConfig creates a Config with default settings.
func NewConfig() *Config {
	return &Config{
		Infitab: NewInfitab(),
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept unless force is set.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if c.Infitab == nil {
		c.Infitab = NewInfitab()
	}
	c.Infitab.Validate()
	c.file = nil

	return nil
}

// Save saves the configuration to the given path.
// If force is false, it only saves if the file already exists.
// CLI overrides applied by Refine are never persisted.
func (c *Config) Save(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return fmt.Errorf("no config file path configured")
	}
	if _, err := os.Stat(path); err != nil && !force {
		return nil
	}

	out := &Config{Infitab: c.Infitab}
	if c.file != nil {
		out.Infitab = c.file
	}
	if err := data.SaveYAML(path, out); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies CLI flags on top of the loaded file and checks the result.
// Precedence: CLI flag > config file > defaults.
func (c *Config) Refine(flags *data.Flags) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Infitab == nil {
		return fmt.Errorf("config.Infitab is nil")
	}
	if c.file == nil {
		c.file = c.Infitab.clone()
	}
	c.Infitab.Override(flags)
	c.Infitab.Validate()

	return c.Infitab.Check()
}
