package tenant

import (
	"errors"
	"strings"
)

// Key identifies a tenant. Every table row in the system is partitioned by
// this key (a normalized phone number); there is no cross-tenant visibility.
type Key string

var (
	// ErrMissing indicates the request carried no tenant key.
	ErrMissing = errors.New("phone number is required")
	// ErrInvalid indicates the tenant key failed normalization.
	ErrInvalid = errors.New("invalid phone number")
)

// Normalize converts a raw phone parameter into a canonical Key.
// Spaces, dashes and parentheses are stripped; an optional leading "+" is
// kept; the remainder must be 7 to 15 digits.
func Normalize(raw string) (Key, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissing
	}
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// separator, drop
		default:
			return "", ErrInvalid
		}
	}
	normalized := b.String()
	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return "", ErrInvalid
	}
	return Key(normalized), nil
}

func (k Key) String() string {
	return string(k)
}
