// Package goloc statically localizes a single-page HTML document into
// multiple languages by rewriting its DOM.
//
// Translatable text is replaced with precomputed translations keyed by the
// SHA-256 hash of the trimmed source markup, navigation links and metadata
// are adjusted for each locale, and a language-selector widget is injected.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/goloc"
//	    "github.com/ZaguanLabs/goloc/dict"
//	)
//
//	func main() {
//	    d, err := dict.Load("i18n/translations.json")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    l, err := goloc.New(goloc.Config{BaseURL: "https://example.com"}, d)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    results, err := l.LocalizeAll(context.Background(), srcHTML)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for code, res := range results {
//	        fmt.Printf("%s: %d/%d nodes translated\n", code, res.Translated, res.Total)
//	    }
//	}
package goloc
