package goloc

import (
	"net/url"
	"strings"
	"testing"
)

func newPass(t *testing.T, locale string, queryMode bool) *Pass {
	t.Helper()
	base, err := url.Parse("https://example.com")
	if err != nil {
		t.Fatalf("parsing base URL: %v", err)
	}
	return &Pass{
		Locale:    locale,
		BaseURL:   base,
		QueryMode: queryMode,
		DocPath:   "/",
	}
}

func TestLocalizeHref_PathMode(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		href     string
		expected string
	}{
		{"prepends locale", "fr", "/docs/page", "/fr/docs/page"},
		{"replaces existing locale", "fr", "/en/docs/page", "/fr/docs/page"},
		{"root path", "fr", "/", "/fr"},
		{"drops lang param", "fr", "/docs?lang=de", "/fr/docs"},
		{"keeps other params", "fr", "/docs?x=1", "/fr/docs?x=1"},
		{"keeps fragment", "fr", "/docs#section", "/fr/docs#section"},
		{"query-only keeps shape", "fr", "?x=1", "?x=1"},
		{"absolute unchanged", "fr", "https://other.com/x", "https://other.com/x"},
		{"protocol-relative unchanged", "fr", "//cdn.example.com/x", "//cdn.example.com/x"},
		{"relative unchanged", "fr", "docs/page", "docs/page"},
		{"default locale also addressed", "en", "/docs", "/en/docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPass(t, tt.locale, false)
			got, err := p.LocalizeHref(tt.href)
			if err != nil {
				t.Fatalf("LocalizeHref(%q) failed: %v", tt.href, err)
			}
			if got != tt.expected {
				t.Errorf("LocalizeHref(%q) = %q, want %q", tt.href, got, tt.expected)
			}
		})
	}
}

func TestLocalizeHref_QueryMode(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		href     string
		expected string
	}{
		{"default locale clears lang", "en", "/page?x=1", "/page?x=1"},
		{"default locale removes existing lang", "en", "/page?lang=de&x=1", "/page?x=1"},
		{"sets lang", "de", "/page?x=1", "/page?lang=de&x=1"},
		{"replaces lang", "de", "/page?lang=fr", "/page?lang=de"},
		{"path untouched", "de", "/docs/page", "/docs/page?lang=de"},
		{"query-only keeps shape", "de", "?x=1", "?lang=de&x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPass(t, tt.locale, true)
			got, err := p.LocalizeHref(tt.href)
			if err != nil {
				t.Fatalf("LocalizeHref(%q) failed: %v", tt.href, err)
			}
			if got != tt.expected {
				t.Errorf("LocalizeHref(%q) = %q, want %q", tt.href, got, tt.expected)
			}
		})
	}
}

func TestRewriteLinks(t *testing.T) {
	doc := parseDoc(t, `<html><body>`+
		`<a href="/docs/page">Docs</a>`+
		`<a href="?x=1">Query</a>`+
		`<a href="https://other.com/x">External</a>`+
		`</body></html>`)

	p := newPass(t, "fr", false)
	if err := p.rewriteLinks(doc); err != nil {
		t.Fatalf("rewriteLinks failed: %v", err)
	}

	out := renderDoc(t, doc)
	for _, want := range []string{`href="/fr/docs/page"`, `href="?x=1"`, `href="https://other.com/x"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestApplyDirection(t *testing.T) {
	tests := []struct {
		locale string
		dir    string
	}{
		{"ar", "rtl"},
		{"fr", "ltr"},
		{"en", "ltr"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			doc := parseDoc(t, `<html><body><div class="w-slider"></div></body></html>`)

			p := newPass(t, tt.locale, false)
			p.applyDirection(doc)

			if got, _ := doc.Find("html").Attr("dir"); got != tt.dir {
				t.Errorf("html dir = %q, want %q", got, tt.dir)
			}
			if got, _ := doc.Find("html").Attr("lang"); got != tt.locale {
				t.Errorf("html lang = %q, want %q", got, tt.locale)
			}
			// Slider internals assume LTR coordinates regardless of page direction.
			if got, _ := doc.Find(".w-slider").Attr("dir"); got != "ltr" {
				t.Errorf("slider dir = %q, want ltr", got)
			}
		})
	}
}

func TestRewriteAlternates(t *testing.T) {
	doc := parseDoc(t, `<html><head>`+
		`<link rel="canonical" href="https://stale.example.com/">`+
		`<link rel="alternate" hreflang="it" href="https://stale.example.com/it">`+
		`<link rel="alternate" hreflang="ru" href="https://stale.example.com/ru">`+
		`</head><body></body></html>`)

	p := newPass(t, "fr", false)
	if err := p.rewriteAlternates(doc); err != nil {
		t.Fatalf("rewriteAlternates failed: %v", err)
	}

	alternates := doc.Find(`link[rel="alternate"]`)
	if alternates.Length() != len(Locales) {
		t.Errorf("expected %d alternate tags, got %d", len(Locales), alternates.Length())
	}

	canonical := doc.Find(`link[rel="canonical"]`)
	if canonical.Length() != 1 {
		t.Fatalf("expected exactly 1 canonical tag, got %d", canonical.Length())
	}
	if href, _ := canonical.Attr("href"); href != "https://example.com/fr" {
		t.Errorf("canonical href = %q, want https://example.com/fr", href)
	}

	out := renderDoc(t, doc)
	if strings.Contains(out, "stale.example.com") {
		t.Errorf("pre-existing tags were not removed: %s", out)
	}
	if !strings.Contains(out, `hreflang="ar" href="https://example.com/ar"`) {
		t.Errorf("expected ar alternate, got: %s", out)
	}
}

func TestInjectSelector(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>Hello</p></body></html>`)

	p := newPass(t, "ja", false)
	p.injectSelector(doc)

	options := doc.Find("#" + SelectorID + " option")
	if options.Length() != len(Locales) {
		t.Fatalf("expected %d options, got %d", len(Locales), options.Length())
	}

	selected := doc.Find("#" + SelectorID + " option[selected]")
	if selected.Length() != 1 {
		t.Fatalf("expected exactly 1 selected option, got %d", selected.Length())
	}
	if val, _ := selected.Attr("value"); val != "ja" {
		t.Errorf("selected option = %q, want ja", val)
	}

	out := renderDoc(t, doc)
	if !strings.Contains(out, "日本語") {
		t.Errorf("expected native display names in selector, got: %s", out)
	}
	if !strings.Contains(out, "searchParams") {
		t.Errorf("expected behavior script to be injected, got: %s", out)
	}
	if !strings.Contains(out, "position:fixed;bottom:16px;left:16px") {
		t.Errorf("expected placement style to be injected, got: %s", out)
	}
}

func TestSelectorScript_CarriesPassData(t *testing.T) {
	pathMode := newPass(t, "fr", false).selectorScript()
	if !strings.Contains(pathMode, `"zh-cn"`) {
		t.Errorf("expected locale list in script, got: %s", pathMode)
	}
	if !strings.Contains(pathMode, "queryMode=false") {
		t.Errorf("expected path mode flag, got: %s", pathMode)
	}

	queryMode := newPass(t, "fr", true).selectorScript()
	if !strings.Contains(queryMode, "queryMode=true") {
		t.Errorf("expected query mode flag, got: %s", queryMode)
	}
	if !strings.Contains(queryMode, `def="en"`) {
		t.Errorf("expected default locale in script, got: %s", queryMode)
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path     string
		expected []string
	}{
		{"/", nil},
		{"", nil},
		{"/docs", []string{"docs"}},
		{"/docs/page/", []string{"docs", "page"}},
	}

	for _, tt := range tests {
		got := splitPath(tt.path)
		if len(got) != len(tt.expected) {
			t.Errorf("splitPath(%q) = %v, want %v", tt.path, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("splitPath(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		}
	}
}
