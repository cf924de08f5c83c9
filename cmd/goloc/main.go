// Command goloc statically localizes an HTML document using a hash-keyed
// translation dictionary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ZaguanLabs/goloc"
	"github.com/ZaguanLabs/goloc/dict"
	"github.com/ZaguanLabs/goloc/provider"
	"github.com/ZaguanLabs/goloc/snapshot"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = goloc.Version
	commit    = goloc.GitCommit
	buildDate = goloc.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("goloc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	dictPath := fs.String("dict", "i18n/translations.json", "Translation dictionary JSON file")
	source := fs.String("source", "original/index.html", "Source HTML document")
	outDir := fs.String("out", "dist", "Output directory (one subdirectory per locale)")
	outShort := fs.String("o", "", "Output directory (short for --out)")
	baseURL := fs.String("base-url", "", "Site base URL (default: BASE_URL env)")
	queryMode := fs.Bool("query-mode", false, "Address locales with ?lang= instead of a path segment")
	docPath := fs.String("doc-path", "/", "Path of the document being localized")
	localeFlag := fs.String("locale", "", "Process a single locale instead of all")
	redisURL := fs.String("redis", "", "Read the dictionary from Redis instead of a file")
	missing := fs.Bool("missing", false, "Report units lacking dictionary entries and exit")
	generate := fs.Bool("generate", false, "Fill missing dictionary entries via OpenAI and save")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model for --generate")
	rpm := fs.Int("rpm", 60, "Request-per-minute limit for --generate and --snapshot")
	snapshotURL := fs.String("snapshot", "", "Download a page snapshot to the --source directory and exit")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	jsonOutput := fs.Bool("json", false, "Output results as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", goloc.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	if *outShort != "" && *outDir == "dist" {
		*outDir = *outShort
	}

	// Environment defaults, .env included (BASE_URL, OPENAI_API_KEY).
	_ = godotenv.Load()

	ctx := context.Background()

	if *snapshotURL != "" {
		return runSnapshot(ctx, *snapshotURL, filepath.Dir(*source), *rpm, *quiet, stderr)
	}

	base := *baseURL
	if base == "" {
		base = os.Getenv("BASE_URL")
	}

	src, err := os.ReadFile(*source) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading source document: %w", err)
	}

	if *missing {
		fileDict, err := dict.Load(*dictPath)
		if err != nil {
			return err
		}
		return runMissing(string(src), fileDict, *localeFlag, stdout, *jsonOutput)
	}

	if *generate {
		fileDict, err := loadOrInitDict(*dictPath)
		if err != nil {
			return err
		}
		return runGenerate(ctx, string(src), fileDict, *dictPath, *apiKey, *model, *rpm, *quiet, stderr)
	}

	var d goloc.Dictionary
	var fileDict *dict.File
	if *redisURL != "" {
		rd, err := dict.NewRedis(dict.RedisConfig{URL: *redisURL})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rd.Close()
		d = rd
	} else {
		fileDict, err = dict.Load(*dictPath)
		if err != nil {
			return err
		}
		d = fileDict
	}

	localizer, err := goloc.New(goloc.Config{
		BaseURL:   base,
		QueryMode: *queryMode,
		DocPath:   *docPath,
	}, d)
	if err != nil {
		return err
	}

	// A locale absent from a file dictionary is a guaranteed no-op pass;
	// worth a warning, not an error.
	if fileDict != nil && !*quiet {
		have := make(map[string]bool)
		for _, code := range fileDict.Locales() {
			have[code] = true
		}
		for _, l := range localizer.Locales() {
			if l.Code != goloc.DefaultLocale && !have[l.Code] {
				fmt.Fprintf(stderr, "warning: dictionary has no entries for %s\n", l.Code)
			}
		}
	}

	start := time.Now()

	var results map[string]*goloc.Result
	if *localeFlag != "" {
		res, err := localizer.Localize(ctx, string(src), *localeFlag)
		if err != nil {
			return err
		}
		results = map[string]*goloc.Result{res.Locale: res}
	} else {
		var runErr error
		results, runErr = localizer.LocalizeAll(ctx, string(src))
		if runErr != nil {
			// Surviving locales are still written below.
			fmt.Fprintf(stderr, "warning: %v\n", runErr)
		}
	}

	for code, res := range results {
		target := filepath.Join(*outDir, code, "index.html")
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		if err := os.WriteFile(target, []byte(res.Content), 0o644); err != nil { // #nosec G306 - public page content
			return fmt.Errorf("writing %s: %w", target, err)
		}
	}
	elapsed := time.Since(start)

	if *jsonOutput {
		return outputJSON(stdout, results, elapsed)
	}

	if !*quiet {
		fmt.Fprintf(stderr, "Done in %v\n", elapsed.Round(time.Millisecond))
		for _, l := range localizer.Locales() {
			res, ok := results[l.Code]
			if !ok {
				fmt.Fprintf(stderr, "  %-6s failed\n", l.Code)
				continue
			}
			fmt.Fprintf(stderr, "  %-6s %d/%d nodes translated\n", l.Code, res.Translated, res.Total)
		}
	}

	return nil
}

func loadOrInitDict(path string) (*dict.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return dict.New(), nil
	}
	return dict.Load(path)
}

// runMissing reports the translatable units lacking dictionary entries.
func runMissing(src string, d *dict.File, localeFlag string, stdout io.Writer, jsonOut bool) error {
	nodes, err := goloc.Extract(src)
	if err != nil {
		return err
	}

	locales := goloc.LocaleCodes()
	if localeFlag != "" {
		locales = []string{localeFlag}
	}

	type missingLocale struct {
		Locale string   `json:"locale"`
		Count  int      `json:"count"`
		Hashes []string `json:"hashes"`
		Texts  []string `json:"texts"`
	}

	var report []missingLocale
	for _, code := range locales {
		if code == goloc.DefaultLocale {
			continue
		}
		miss := goloc.Missing(nodes, d, code)
		ml := missingLocale{Locale: code, Count: len(miss)}
		for _, n := range miss {
			ml.Hashes = append(ml.Hashes, n.Hash)
			ml.Texts = append(ml.Texts, n.Text)
		}
		report = append(report, ml)
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(stdout, "Found %d translatable units\n\n", len(nodes))
	for _, ml := range report {
		fmt.Fprintf(stdout, "%s: %d missing\n", ml.Locale, ml.Count)
		for i, text := range ml.Texts {
			if len(text) > 60 {
				text = text[:57] + "..."
			}
			fmt.Fprintf(stdout, "  %s  %q\n", ml.Hashes[i][:12], text)
		}
	}
	return nil
}

// runGenerate fills missing dictionary entries via OpenAI and saves the
// dictionary back to disk.
func runGenerate(ctx context.Context, src string, d *dict.File, dictPath, apiKey, model string, rpm int, quiet bool, stderr io.Writer) error {
	key := apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
	}

	nodes, err := goloc.Extract(src)
	if err != nil {
		return err
	}

	p := provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey: key,
		Model:  model,
	})
	limited := goloc.NewRateLimitedProvider(p, goloc.RateLimitConfig{RequestsPerMinute: rpm})
	retryable := goloc.NewRetryableProvider(limited, goloc.DefaultRetryConfig())

	if !quiet {
		fmt.Fprintf(stderr, "Generating missing entries for %d units...\n", len(nodes))
	}

	entries, err := goloc.GenerateMissing(ctx, nodes, goloc.LocaleCodes(), d, retryable)
	if len(entries) > 0 {
		d.Merge(entries)
		if saveErr := d.Save(dictPath); saveErr != nil {
			return saveErr
		}
	}
	if err != nil {
		return err
	}

	if !quiet {
		for locale, byHash := range entries {
			fmt.Fprintf(stderr, "  %-6s +%d entries\n", locale, len(byHash))
		}
		fmt.Fprintf(stderr, "Saved %s\n", dictPath)
	}
	return nil
}

// runSnapshot downloads a page and its assets into dir.
func runSnapshot(ctx context.Context, pageURL, dir string, rpm int, quiet bool, stderr io.Writer) error {
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return fmt.Errorf("snapshot URL must be absolute: %s", pageURL)
	}

	f := snapshot.New(snapshot.Config{RequestsPerMinute: rpm})

	if !quiet {
		fmt.Fprintf(stderr, "Snapshotting %s into %s...\n", pageURL, dir)
	}
	if err := f.Fetch(ctx, pageURL, dir); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(stderr, "Wrote %s\n", filepath.Join(dir, "index.html"))
	}
	return nil
}

// localeOutput is the JSON output shape for one locale.
type localeOutput struct {
	Locale     string `json:"locale"`
	Path       string `json:"path"`
	Translated int    `json:"translated"`
	Total      int    `json:"total"`
}

// outputJSON writes run results as JSON.
func outputJSON(w io.Writer, results map[string]*goloc.Result, elapsed time.Duration) error {
	out := struct {
		Locales   []localeOutput `json:"locales"`
		ElapsedMs int64          `json:"elapsed_ms"`
	}{
		ElapsedMs: elapsed.Milliseconds(),
	}

	for _, l := range goloc.Locales {
		res, ok := results[l.Code]
		if !ok {
			continue
		}
		out.Locales = append(out.Locales, localeOutput{
			Locale:     res.Locale,
			Path:       filepath.Join(l.Code, "index.html"),
			Translated: res.Translated,
			Total:      res.Total,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
