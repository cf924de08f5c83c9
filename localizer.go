package goloc

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// Dictionary resolves precomputed translations by locale and content hash.
// A missing entry means "no translation available" and is not an error.
type Dictionary interface {
	Lookup(locale, hash string) (string, bool)
}

// Config holds the per-run settings for a Localizer.
type Config struct {
	BaseURL   string // Absolute site base URL, e.g. "https://example.com"
	QueryMode bool   // Address locales with ?lang= instead of a path segment
	DocPath   string // Path of the document being localized (default "/")
}

// Localizer rewrites a source HTML document into per-locale variants.
// Every operation works on an explicit pass context; there is no shared
// mutable state between locales.
type Localizer struct {
	dict      Dictionary
	baseURL   *url.URL
	queryMode bool
	docPath   string
	locales   []Locale
	limit     int
}

// LocalizerOption is a functional option for configuring the Localizer.
type LocalizerOption func(*Localizer)

// WithLocales overrides the set of locales processed by LocalizeAll.
func WithLocales(locales []Locale) LocalizerOption {
	return func(l *Localizer) {
		l.locales = locales
	}
}

// WithConcurrency bounds the number of locales processed in parallel.
func WithConcurrency(n int) LocalizerOption {
	return func(l *Localizer) {
		if n > 0 {
			l.limit = n
		}
	}
}

// New creates a Localizer for the given run configuration and dictionary.
func New(cfg Config, dict Dictionary, opts ...LocalizerOption) (*Localizer, error) {
	if cfg.BaseURL == "" {
		return nil, &RewriteError{Message: "base URL is required"}
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, &RewriteError{Message: "invalid base URL " + cfg.BaseURL, Cause: err}
	}
	if !base.IsAbs() {
		return nil, &RewriteError{Message: "base URL must be absolute: " + cfg.BaseURL}
	}

	docPath := cfg.DocPath
	if docPath == "" {
		docPath = "/"
	}

	l := &Localizer{
		dict:      dict,
		baseURL:   base,
		queryMode: cfg.QueryMode,
		docPath:   docPath,
		locales:   Locales,
		limit:     4,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Localize processes one locale: parse a fresh document copy, translate
// (skipped for the default locale), rewrite links and metadata, serialize.
func (l *Localizer) Localize(ctx context.Context, src, locale string) (*Result, error) {
	if !IsSupported(locale) {
		return nil, &RewriteError{Message: "unsupported locale " + locale}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, &RewriteError{Message: "parsing source document", Cause: err}
	}

	translated, total, err := Translate(ctx, doc, locale, l.dict)
	if err != nil {
		return nil, err
	}

	pass := &Pass{
		Locale:    locale,
		BaseURL:   l.baseURL,
		QueryMode: l.queryMode,
		DocPath:   l.docPath,
	}
	if err := pass.Rewrite(doc); err != nil {
		return nil, err
	}

	out, err := doc.Html()
	if err != nil {
		return nil, &RewriteError{Message: "serializing document", Cause: err}
	}

	return &Result{
		Locale:     locale,
		Content:    out,
		Translated: translated,
		Total:      total,
	}, nil
}

// LocalizeAll processes every configured locale. Each pass parses its own
// copy of src, so passes are independent and run with bounded parallelism.
// A failing locale does not stop the others; failures are collected and
// returned joined alongside the successful results.
func (l *Localizer) LocalizeAll(ctx context.Context, src string) (map[string]*Result, error) {
	var (
		mu      sync.Mutex
		results = make(map[string]*Result, len(l.locales))
		errs    []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	for _, loc := range l.locales {
		loc := loc
		g.Go(func() error {
			res, err := l.Localize(ctx, src, loc.Code)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, &LocaleError{Locale: loc.Code, Cause: err})
				return nil
			}
			results[loc.Code] = res
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return results, errors.Join(errs...)
	}
	return results, nil
}

// Locales returns the locales processed by LocalizeAll.
func (l *Localizer) Locales() []Locale {
	return l.locales
}
