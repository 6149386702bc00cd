package escrow

import (
	"fmt"
	"regexp"
	"strings"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:@-]{0,127}$`)

// Key is an opaque identifier for owners, leaders, groups and payers.
// The zero value is not a valid key.
type Key string

// ParseKey trims and validates a caller-supplied identifier.
func ParseKey(raw string) (Key, error) {
	s := strings.TrimSpace(raw)
	if !keyPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	return Key(s), nil
}

// MustKey is ParseKey for constants and tests.
func MustKey(raw string) Key {
	k, err := ParseKey(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// IsZero reports whether the key was never set.
func (k Key) IsZero() bool {
	return k == ""
}

func (k Key) String() string {
	return string(k)
}
