package goloc

// SelectorID is the reserved element id of the injected language selector.
// Content inside it is never translated.
const SelectorID = "language-selector"

// IgnoredTags contains HTML tags whose content is never translatable.
var IgnoredTags = map[string]bool{
	"script": true,
	"style":  true,
}

// TextNode represents one translatable unit extracted from a document: the
// combined inner markup of an element with direct text content, a value
// attribute, or a metadata string.
type TextNode struct {
	ID       string            // Position-based identifier within one extraction
	Text     string            // Trimmed source text/markup
	Hash     string            // SHA-256 hash of Text
	Kind     string            // "markup", "value" or "meta"
	Context  string            // Disambiguation context (parent tag, class/id)
	Metadata map[string]string // Additional info (tag, attribute, etc.)
}

// Result is the outcome of localizing one document for one locale.
type Result struct {
	Locale     string
	Content    string // Serialized localized document
	Translated int    // Nodes replaced from the dictionary
	Total      int    // Translatable nodes visited
}
