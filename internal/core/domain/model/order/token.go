package order

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"geoshop/internal/pkg/errs"
)

// tokenBytes is the entropy of a validation token before hex encoding.
const tokenBytes = 32

// ValidationToken is a one-time credential allowing a non-client approver to
// accept or reject a sensitive order item. The token value is an opaque
// cryptographically random string; once consumed it never matches again, so a
// replayed approval link behaves exactly like an unknown token.
type ValidationToken struct {
	value    string
	consumed bool
}

// NewValidationToken generates a fresh unconsumed token.
func NewValidationToken() (*ValidationToken, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("cannot generate validation token: %w", err)
	}
	return &ValidationToken{value: hex.EncodeToString(buf)}, nil
}

// RestoreValidationToken reconstructs a token from persistence.
func RestoreValidationToken(value string, consumed bool) (*ValidationToken, error) {
	if value == "" {
		return nil, errs.NewValueIsRequiredError("validation token value")
	}
	return &ValidationToken{value: value, consumed: consumed}, nil
}

// Value returns the opaque token string as embedded in the approval link.
func (t *ValidationToken) Value() string {
	return t.value
}

// IsConsumed reports whether the token was already used.
func (t *ValidationToken) IsConsumed() bool {
	return t.consumed
}

// Matches reports whether the candidate equals a still-unconsumed token.
// The comparison is constant-time.
func (t *ValidationToken) Matches(candidate string) bool {
	if t == nil || t.consumed || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(t.value), []byte(candidate)) == 1
}

// Consume marks the token as used. Consuming an already-consumed token fails
// with an ObjectNotFoundError, indistinguishable from an unknown token.
func (t *ValidationToken) Consume() error {
	if t.consumed {
		return errs.NewObjectNotFoundError("validation token", t.value)
	}
	t.consumed = true
	return nil
}
