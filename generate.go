package goloc

import "context"

// Provider produces translations for dictionary entries that do not exist
// yet. Implementations live in the provider package.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslateRequest contains the parameters for one generation batch.
type TranslateRequest struct {
	Texts        []string // Source markup strings, in order
	TargetLocale string
	SourceLocale string
	TextContexts []string // Per-text disambiguation hints, same order
}

// GenerateMissing produces dictionary entries for every unit in nodes that
// has no entry yet, one provider batch per locale. The default locale is
// skipped. The result maps locale to hash to translated markup and contains
// only new entries; merging them into a dictionary is the caller's choice.
func GenerateMissing(ctx context.Context, nodes []TextNode, locales []string, dict Dictionary, p Provider) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)

	for _, locale := range locales {
		if locale == DefaultLocale {
			continue
		}

		missing := Missing(nodes, dict, locale)
		if len(missing) == 0 {
			continue
		}

		texts := make([]string, len(missing))
		contexts := make([]string, len(missing))
		for i, n := range missing {
			texts[i] = n.Text
			contexts[i] = n.Context
		}

		results, err := p.Translate(ctx, TranslateRequest{
			Texts:        texts,
			TargetLocale: locale,
			SourceLocale: DefaultLocale,
			TextContexts: contexts,
		})
		if err != nil {
			return out, &LocaleError{Locale: locale, Cause: err}
		}
		if len(results) != len(missing) {
			return out, &LocaleError{Locale: locale, Cause: &CountMismatchError{
				Expected: len(missing),
				Got:      len(results),
			}}
		}

		entries := make(map[string]string, len(missing))
		for i, n := range missing {
			entries[n.Hash] = results[i]
		}
		out[locale] = entries
	}

	return out, nil
}
