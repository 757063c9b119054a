// Package store provides the durable key-value backends used to persist
// wizard snapshots. Values are opaque byte slices; keys are short,
// caller-supplied names (one per entry flow). Two backends are available:
// a file-per-key store and a SQLite store, selected by configuration, plus
// an in-memory store for tests.
package store

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidKey is returned when a key contains characters the file backend
// cannot map to a filename. Keys are restricted across all backends so a
// config change between backends never strands a snapshot.
var ErrInvalidKey = errors.New("invalid snapshot key")

// keyPattern restricts keys to filename-safe characters.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateKey checks that key is usable by every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Lister is implemented by backends that can enumerate stored keys, used by
// the drafts CLI to show pending flows. The wizard engine itself only needs
// Get/Set/Delete.
type Lister interface {
	List() ([]string, error)
}
