// Package auth provides credential generation and request identity.
package auth

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// bearerPrefix is the required Authorization scheme, case-sensitive.
const bearerPrefix = "Bearer "

// ErrNoCredential indicates the Authorization header was absent or did
// not carry a bearer token.
var ErrNoCredential = errors.New("missing bearer credential")

// GenerateToken returns a fresh opaque API key token.
// UUIDv4 carries 122 random bits; collisions are treated as impossible
// and are not handled specially.
func GenerateToken() string {
	return uuid.NewString()
}

// ExtractBearer pulls the candidate token out of an Authorization header
// value. The "Bearer " prefix is required verbatim and stripped, and the
// remainder is trimmed of surrounding whitespace. An empty remainder is
// returned as-is: shape validation is the resolver's job, not ours.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrNoCredential
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrNoCredential
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)), nil
}
