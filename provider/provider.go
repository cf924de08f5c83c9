// Package provider implements translation providers used to generate
// missing dictionary entries.
package provider

import "github.com/ZaguanLabs/goloc"

// Provider is an alias to the main package interface.
type Provider = goloc.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = goloc.TranslateRequest
