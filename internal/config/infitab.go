package config

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/infitab/infitab/internal/config/data"
)

// Default values
const (
	DefaultBaseURL      = "http://localhost:3000"
	DefaultAPITimeout   = 30 * time.Second
	DefaultCloseDelay   = 1200 * time.Millisecond
	DefaultSkeletonRows = 11
	DefaultLogLevel     = "info"
)

// Infitab represents the infitab global configuration.
type Infitab struct {
	BaseURL      string      `yaml:"baseURL"`
	APITimeout   string      `yaml:"apiTimeout"`
	CloseDelay   string      `yaml:"closeDelay"`
	SkeletonRows int         `yaml:"skeletonRows"`
	UI           data.UI     `yaml:"ui"`
	Logger       data.Logger `yaml:"logger"`

	mx sync.RWMutex
}

// NewInfitab creates an Infitab with default settings.
func NewInfitab() *Infitab {
	return &Infitab{
		BaseURL:      DefaultBaseURL,
		APITimeout:   DefaultAPITimeout.String(),
		CloseDelay:   DefaultCloseDelay.String(),
		SkeletonRows: DefaultSkeletonRows,
		Logger:       data.Logger{Level: DefaultLogLevel},
	}
}

// Validate replaces unset or out of range settings with defaults.
func (i *Infitab) Validate() {
	i.mx.Lock()
	defer i.mx.Unlock()

	if i.BaseURL == "" {
		i.BaseURL = DefaultBaseURL
	}
	if i.APITimeout == "" {
		i.APITimeout = DefaultAPITimeout.String()
	}
	if i.CloseDelay == "" {
		i.CloseDelay = DefaultCloseDelay.String()
	}
	if i.SkeletonRows <= 0 {
		i.SkeletonRows = DefaultSkeletonRows
	}
	if i.Logger.Level == "" {
		i.Logger.Level = DefaultLogLevel
	}
}

// Check returns an error when a setting cannot be used.
func (i *Infitab) Check() error {
	i.mx.RLock()
	base := i.BaseURL
	i.mx.RUnlock()

	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBadURL, base)
	}
	if _, err := i.GetAPITimeout(); err != nil {
		return err
	}
	if _, err := i.GetCloseDelay(); err != nil {
		return err
	}

	return nil
}

// Override applies CLI flag overrides to the configuration.
func (i *Infitab) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	i.mx.Lock()
	defer i.mx.Unlock()

	if IsStringSet(flags.URL) {
		i.BaseURL = *flags.URL
	}
	if IsStringSet(flags.Timeout) {
		i.APITimeout = *flags.Timeout
	}
	if IsStringSet(flags.LogLevel) {
		i.Logger.Level = *flags.LogLevel
	}
	if flags.Headless != nil {
		i.UI.Headless = *flags.Headless
	}
}

// clone returns a copy of the settings, without overrides applied later.
func (i *Infitab) clone() *Infitab {
	i.mx.RLock()
	defer i.mx.RUnlock()

	return &Infitab{
		BaseURL:      i.BaseURL,
		APITimeout:   i.APITimeout,
		CloseDelay:   i.CloseDelay,
		SkeletonRows: i.SkeletonRows,
		UI:           i.UI,
		Logger:       i.Logger,
	}
}

// GetBaseURL returns the backend base URL.
func (i *Infitab) GetBaseURL() string {
	i.mx.RLock()
	defer i.mx.RUnlock()
	return i.BaseURL
}

// GetAPITimeout returns the parsed API timeout duration.
func (i *Infitab) GetAPITimeout() (time.Duration, error) {
	i.mx.RLock()
	s := i.APITimeout
	i.mx.RUnlock()

	return parsePositive(s, ErrBadTimeout)
}

// GetCloseDelay returns how long the add row form shows its success banner.
func (i *Infitab) GetCloseDelay() (time.Duration, error) {
	i.mx.RLock()
	s := i.CloseDelay
	i.mx.RUnlock()

	return parsePositive(s, ErrBadDelay)
}

// GetSkeletonRows returns the number of placeholder rows shown while loading.
func (i *Infitab) GetSkeletonRows() int {
	i.mx.RLock()
	defer i.mx.RUnlock()
	return i.SkeletonRows
}

// IsHeadless returns true when the TUI is disabled.
func (i *Infitab) IsHeadless() bool {
	i.mx.RLock()
	defer i.mx.RUnlock()
	return i.UI.Headless
}

func parsePositive(s string, sentinel Error) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", sentinel, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w %q: must be positive", sentinel, s)
	}
	return d, nil
}
