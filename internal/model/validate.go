package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/infitab/infitab/internal/model1"
)

const (
	emailKey = "email"
	ageKey   = "age"

	MsgEmail = "Email must end with @gmail.com"
	MsgAge   = "Age must be a positive number"
)

var (
	gmailRX    = regexp.MustCompile(`^[^\s@]+@gmail\.com$`)
	decimalRX  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	prefixedRX = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// FieldErrors maps a column key to its validation message.
type FieldErrors map[string]string

// Has returns true if the given field failed validation.
func (f FieldErrors) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// RequiredMsg returns the message shown for an empty field.
func RequiredMsg(label string) string {
	return fmt.Sprintf("%s is required", label)
}

// Validate checks the values entered for the given columns.
// Every value is trimmed first and must not be empty. An email column must
// be a gmail address and an age column a number no smaller than zero.
func Validate(cc model1.Columns, values map[string]string) FieldErrors {
	errs := make(FieldErrors)
	for _, c := range cc {
		if c.Key == model1.IDKey {
			continue
		}
		v := strings.TrimSpace(values[c.Key])
		if v == "" {
			errs[c.Key] = RequiredMsg(c.Label)
			continue
		}
		switch c.Key {
		case emailKey:
			if !gmailRX.MatchString(v) {
				errs[c.Key] = MsgEmail
			}
		case ageKey:
			if !isNonNegative(v) {
				errs[c.Key] = MsgAge
			}
		}
	}

	return errs
}

// isNonNegative reads s the way a JavaScript Number() conversion would:
// signed decimals with an optional exponent, unsigned 0x, 0o and 0b
// integers, and Infinity.
func isNonNegative(s string) bool {
	switch {
	case s == "Infinity" || s == "+Infinity":
		return true
	case prefixedRX.MatchString(s):
		return true
	case !decimalRX.MatchString(s):
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}
	return f >= 0
}
