package dict

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/ZaguanLabs/goloc"
)

// File is an in-memory dictionary backed by a JSON file mapping locale to
// content hash to translated markup.
type File struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// New creates an empty dictionary.
func New() *File {
	return &File{entries: make(map[string]map[string]string)}
}

// Load reads and parses a dictionary file. A missing file is a fatal error
// for the run.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, &goloc.DictionaryError{Message: "reading dictionary " + path, Cause: err}
	}
	return Parse(data)
}

// Parse decodes dictionary JSON. Decoding is strict: an entry whose value is
// not a string fails here rather than surfacing mid-walk.
func Parse(data []byte) (*File, error) {
	entries := make(map[string]map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &goloc.DictionaryError{Message: "parsing dictionary", Cause: err}
	}
	return &File{entries: entries}, nil
}

// Lookup retrieves the translation for (locale, hash). A locale absent from
// the dictionary yields a miss for every hash.
func (f *File) Lookup(locale, hash string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	byHash, ok := f.entries[locale]
	if !ok {
		return "", false
	}
	value, ok := byHash[hash]
	return value, ok
}

// Set stores one entry.
func (f *File) Set(locale, hash, markup string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.entries[locale] == nil {
		f.entries[locale] = make(map[string]string)
	}
	f.entries[locale][hash] = markup
}

// Merge adds entries, overwriting existing hashes.
func (f *File) Merge(entries map[string]map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for locale, byHash := range entries {
		if f.entries[locale] == nil {
			f.entries[locale] = make(map[string]string, len(byHash))
		}
		for hash, markup := range byHash {
			f.entries[locale][hash] = markup
		}
	}
}

// Locales returns the locale codes present in the dictionary, sorted.
func (f *File) Locales() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	codes := make([]string, 0, len(f.entries))
	for code := range f.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the total number of entries across all locales.
func (f *File) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n := 0
	for _, byHash := range f.entries {
		n += len(byHash)
	}
	return n
}

// LenLocale returns the number of entries for one locale.
func (f *File) LenLocale(locale string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries[locale])
}

// Entries returns a copy of all entries.
func (f *File) Entries() map[string]map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[string]map[string]string, len(f.entries))
	for locale, byHash := range f.entries {
		cp := make(map[string]string, len(byHash))
		for hash, markup := range byHash {
			cp[hash] = markup
		}
		out[locale] = cp
	}
	return out
}

// Save writes the dictionary back to a JSON file.
func (f *File) Save(path string) error {
	f.mu.RLock()
	data, err := json.MarshalIndent(f.entries, "", "  ")
	f.mu.RUnlock()
	if err != nil {
		return &goloc.DictionaryError{Message: "encoding dictionary", Cause: err}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - dictionary is not sensitive
		return &goloc.DictionaryError{Message: "writing dictionary " + path, Cause: err}
	}
	return nil
}

// Verify File implements Dictionary
var _ Dictionary = (*File)(nil)
