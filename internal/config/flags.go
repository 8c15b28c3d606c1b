package config

import (
	"github.com/infitab/infitab/internal/config/data"
)

// DefaultPages is the number of pages fetched in headless mode. 0 fetches all.
const DefaultPages = 1

// NewFlags creates a new Flags instance with default values set.
// String flags default to empty and Headless to nil so the config file wins
// unless a flag is given.
func NewFlags() *data.Flags {
	url := ""
	timeout := ""
	logLevel := ""
	logFile := AppLogFile
	pages := DefaultPages
	metrics := ""

	return &data.Flags{
		URL:      &url,
		Timeout:  &timeout,
		LogLevel: &logLevel,
		LogFile:  &logFile,
		Pages:    &pages,
		Metrics:  &metrics,
	}
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}
