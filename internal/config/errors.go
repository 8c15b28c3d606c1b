package config

// Error represents a configuration error.
type Error string

// Error returns the error text.
func (e Error) Error() string {
	return string(e)
}

const (
	// ErrBadURL is returned for a base URL without scheme or host.
	ErrBadURL = Error("invalid base URL")

	// ErrBadTimeout is returned for an unparsable API timeout.
	ErrBadTimeout = Error("invalid API timeout")

	// ErrBadDelay is returned for an unparsable close delay.
	ErrBadDelay = Error("invalid close delay")
)
