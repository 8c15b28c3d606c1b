// Package data provides configuration data types for the infitab application.
package data

// Flags represents CLI command-line flags. A nil pointer means not set.
type Flags struct {
	URL      *string // Backend base URL
	Timeout  *string // Per request timeout, a Go duration
	LogLevel *string // Log level (e.g., debug, info, warn, error)
	LogFile  *string // Path to log file
	Headless *bool   // Print the table to stdout instead of running the TUI
	Pages    *int    // Pages fetched in headless mode, 0 for all
	Metrics  *string // Prometheus listen address, empty to disable
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool `yaml:"enableMouse"`
	Headless    bool `yaml:"headless"`
	Crumbsless  bool `yaml:"crumbsless"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}
