package goloc

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// HashText computes the SHA-256 hash of the trimmed text, hex-encoded.
// The digest is a stable lookup key, not an integrity check.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// DictKey generates a dictionary key from a locale and a text hash.
func DictKey(locale, hash string) string {
	return locale + ":" + hash
}

// hasher memoizes HashText within a single translation pass. Identical
// source strings across different elements share one entry.
type hasher struct {
	mu    sync.Mutex
	cache map[string]string
}

func newHasher() *hasher {
	return &hasher{cache: make(map[string]string)}
}

func (h *hasher) hash(text string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if digest, ok := h.cache[text]; ok {
		return digest
	}
	digest := HashText(text)
	h.cache[text] = digest
	return digest
}
