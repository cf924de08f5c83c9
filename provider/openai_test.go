package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ZaguanLabs/goloc"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		count    int
		expected []string
		wantErr  bool
	}{
		{
			name:     "translations object",
			content:  `{"translations": ["Bonjour", "Au revoir"]}`,
			count:    2,
			expected: []string{"Bonjour", "Au revoir"},
		},
		{
			name:     "differently keyed object",
			content:  `{"results": ["Bonjour"]}`,
			count:    1,
			expected: []string{"Bonjour"},
		},
		{
			name:     "bare array",
			content:  `["Bonjour"]`,
			count:    1,
			expected: []string{"Bonjour"},
		},
		{
			name:    "count mismatch",
			content: `{"translations": ["Bonjour"]}`,
			count:   2,
			wantErr: true,
		},
		{
			name:    "not JSON",
			content: "Bonjour!",
			count:   1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse(tt.content, tt.count)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResponse failed: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("got %v, want %v", got, tt.expected)
					break
				}
			}
		})
	}
}

func TestParseResponse_CountMismatchType(t *testing.T) {
	_, err := parseResponse(`{"translations": ["one"]}`, 3)
	var cme *goloc.CountMismatchError
	if !errors.As(err, &cme) {
		t.Fatalf("expected a CountMismatchError, got %T", err)
	}
	if cme.Expected != 3 || cme.Got != 1 {
		t.Errorf("mismatch = %d/%d, want 3/1", cme.Expected, cme.Got)
	}
}

func TestBuildUserMessage_NoContexts(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	msg := p.buildUserMessage(TranslateRequest{
		Texts:        []string{"Hello", "Goodbye"},
		TargetLocale: "fr",
	})

	var texts []string
	if err := json.Unmarshal([]byte(msg), &texts); err != nil {
		t.Fatalf("expected a plain JSON array, got %q: %v", msg, err)
	}
	if len(texts) != 2 || texts[0] != "Hello" {
		t.Errorf("texts = %v", texts)
	}
}

func TestBuildUserMessage_WithContexts(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	msg := p.buildUserMessage(TranslateRequest{
		Texts:        []string{"Shop Now", "Home"},
		TargetLocale: "fr",
		TextContexts: []string{`in <button class="cta">`, ""},
	})

	var payload map[string][]struct {
		Text    string `json:"text"`
		Context string `json:"context"`
	}
	if err := json.Unmarshal([]byte(msg), &payload); err != nil {
		t.Fatalf("expected an items object, got %q: %v", msg, err)
	}
	items := payload["items"]
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Context != `in <button class="cta">` {
		t.Errorf("context = %q", items[0].Context)
	}
	if items[1].Context != "" {
		t.Errorf("expected empty context to stay empty, got %q", items[1].Context)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	prompt := p.buildSystemPrompt(TranslateRequest{TargetLocale: "ja"})
	if !strings.Contains(prompt, `"ja"`) {
		t.Errorf("expected locale code in prompt, got: %s", prompt)
	}
	if !strings.Contains(prompt, "日本語") {
		t.Errorf("expected native language name in prompt, got: %s", prompt)
	}
	if !strings.Contains(prompt, "translations") {
		t.Errorf("expected output format in prompt, got: %s", prompt)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		msg      string
		expected bool
	}{
		{"rate limit exceeded", true},
		{"request timeout", true},
		{"connection refused", true},
		{"status code 503", true},
		{"status code 429", true},
		{"invalid api key", false},
		{"context length exceeded", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := isRetryableError(errors.New(tt.msg)); got != tt.expected {
				t.Errorf("isRetryableError(%q) = %v, want %v", tt.msg, got, tt.expected)
			}
		})
	}
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider()

	results, err := m.Translate(context.Background(), TranslateRequest{
		Texts:        []string{"Hello", "Unknown phrase"},
		TargetLocale: "fr",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if results[0] != "Bonjour" {
		t.Errorf("results[0] = %q, want Bonjour", results[0])
	}
	if results[1] != "[fr:Unknown phrase]" {
		t.Errorf("results[1] = %q, want bracketed fallback", results[1])
	}
	if m.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", m.CallCount)
	}
	if m.LastRequest == nil || m.LastRequest.TargetLocale != "fr" {
		t.Errorf("LastRequest = %+v", m.LastRequest)
	}

	m.Reset()
	if m.CallCount != 0 || m.LastRequest != nil {
		t.Error("Reset did not clear state")
	}
}
