package goloc

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "dictionary with cause",
			err:  &DictionaryError{Message: "loading fr.json", Cause: cause},
			want: []string{"dictionary error", "loading fr.json", "boom"},
		},
		{
			name: "dictionary without cause",
			err:  &DictionaryError{Message: "non-string entry"},
			want: []string{"dictionary error", "non-string entry"},
		},
		{
			name: "rewrite",
			err:  &RewriteError{Message: "parsing href /x", Cause: cause},
			want: []string{"rewrite error", "parsing href /x", "boom"},
		},
		{
			name: "provider",
			err:  &ProviderError{Message: "quota exceeded"},
			want: []string{"provider error", "quota exceeded"},
		},
		{
			name: "fetch",
			err:  &FetchError{URL: "https://example.com/a.css", Message: "status 503"},
			want: []string{"fetch error", "https://example.com/a.css", "status 503"},
		},
		{
			name: "locale",
			err:  &LocaleError{Locale: "fr", Cause: cause},
			want: []string{"locale fr", "boom"},
		},
		{
			name: "count mismatch",
			err:  &CountMismatchError{Expected: 3, Got: 2},
			want: []string{"count mismatch", "expected 3", "got 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.want {
				if !strings.Contains(msg, want) {
					t.Errorf("error %q missing %q", msg, want)
				}
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
	}{
		{"dictionary", &DictionaryError{Message: "m", Cause: cause}},
		{"rewrite", &RewriteError{Message: "m", Cause: cause}},
		{"provider", &ProviderError{Message: "m", Cause: cause}},
		{"fetch", &FetchError{Message: "m", Cause: cause}},
		{"locale", &LocaleError{Locale: "fr", Cause: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, cause) {
				t.Errorf("%T does not unwrap to its cause", tt.err)
			}
		})
	}
}

func TestErrorChain(t *testing.T) {
	err := &LocaleError{
		Locale: "de",
		Cause:  &ProviderError{Message: "overloaded", Retryable: true},
	}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatal("expected ProviderError through the chain")
	}
	if !pe.Retryable {
		t.Error("expected retryable flag to survive wrapping")
	}
}
