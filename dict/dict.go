// Package dict provides translation dictionary implementations.
//
// A dictionary maps a locale code to a mapping from content hash (SHA-256
// hex digest of the trimmed source markup) to translated markup. It is
// loaded once per run and immutable during traversal.
package dict

// Dictionary resolves precomputed translations by locale and content hash.
type Dictionary interface {
	// Lookup retrieves a translation. Returns empty string and false when no
	// entry exists.
	Lookup(locale, hash string) (string, bool)
}
