package dict

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportFormat is the JSON structure for dictionary exchange between runs
// and machines.
type ExportFormat struct {
	Version    string                       `json:"version"`
	ExportedAt string                       `json:"exported_at"`
	Locales    map[string]map[string]string `json:"locales"`
	Metadata   map[string]string            `json:"metadata,omitempty"`
}

// Export writes the dictionary to a writer in the exchange format.
func Export(w io.Writer, f *File, metadata map[string]string) error {
	export := ExportFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Locales:    f.Entries(),
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the dictionary to a file.
// The path is provided by the caller and is intentionally user-controlled.
func ExportToFile(path string, f *File, metadata map[string]string) error {
	out, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer out.Close()

	return Export(out, f, metadata)
}

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
}

// Import reads an exchange-format dictionary and merges it into f.
func Import(r io.Reader, f *File) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}
	for _, byHash := range export.Locales {
		result.Imported += len(byHash)
	}

	f.Merge(export.Locales)
	return result, nil
}

// ImportFromFile imports an exchange-format dictionary from a file.
// The path is provided by the caller and is intentionally user-controlled.
func ImportFromFile(path string, f *File) (*ImportResult, error) {
	in, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer in.Close()

	return Import(in, f)
}
