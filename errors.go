package goloc

import "fmt"

// DictionaryError indicates a dictionary failure (missing file, malformed
// JSON, non-string entry).
type DictionaryError struct {
	Message string
	Cause   error
}

func (e *DictionaryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dictionary error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("dictionary error: %s", e.Message)
}

func (e *DictionaryError) Unwrap() error {
	return e.Cause
}

// RewriteError indicates a link or metadata rewriting failure.
type RewriteError struct {
	Message string
	Cause   error
}

func (e *RewriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewrite error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rewrite error: %s", e.Message)
}

func (e *RewriteError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a translation provider failure (API error, rate
// limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// FetchError indicates a snapshot download failure.
type FetchError struct {
	URL       string
	Message   string
	Cause     error
	Retryable bool
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error (%s): %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error (%s): %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// LocaleError wraps a failure from one locale's processing pass.
type LocaleError struct {
	Locale string
	Cause  error
}

func (e *LocaleError) Error() string {
	return fmt.Sprintf("locale %s: %v", e.Locale, e.Cause)
}

func (e *LocaleError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates the provider returned a different number of
// translations than requested.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
