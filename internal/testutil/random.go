package testutil

import (
	"strings"

	"github.com/google/uuid"
)

// RandomEmail returns a unique email address.
func RandomEmail() string {
	return "user-" + shortID() + "@example.com"
}

// RandomName returns prefix followed by a unique suffix, e.g. "Bob 1a2b3c4d".
func RandomName(prefix string) string {
	return prefix + " " + shortID()
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
