package goloc

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	nodes, err := Extract(`<html><head>
<title>My Page</title>
<meta name="description" content="A fine page.">
</head><body>
<h1>Hello</h1>
<p>Hello <b>World</b></p>
<input type="submit" value="Submit">
<script>console.log("skip me")</script>
<div id="language-selector"><option>skip me too</option></div>
</body></html>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	byText := make(map[string]TextNode, len(nodes))
	for _, n := range nodes {
		byText[n.Text] = n
	}

	for text, kind := range map[string]string{
		"Hello":              "markup",
		"Hello <b>World</b>": "markup",
		"Submit":             "value",
		"My Page":            "meta",
		"A fine page.":       "meta",
	} {
		n, ok := byText[text]
		if !ok {
			t.Errorf("expected unit %q, not found", text)
			continue
		}
		if n.Kind != kind {
			t.Errorf("unit %q kind = %q, want %q", text, n.Kind, kind)
		}
		if n.Hash != HashText(text) {
			t.Errorf("unit %q hash mismatch", text)
		}
	}

	for _, n := range nodes {
		if strings.Contains(n.Text, "skip me") {
			t.Errorf("ignored content was extracted: %q", n.Text)
		}
	}
}

func TestExtract_StopsAtCombinedUnit(t *testing.T) {
	nodes, err := Extract(`<html><body><p>Hello <b>World</b></p></body></html>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("expected 1 unit, got %d: %+v", len(nodes), nodes)
	}
	if nodes[0].Text != "Hello <b>World</b>" {
		t.Errorf("unit text = %q, want combined markup", nodes[0].Text)
	}
}

func TestExtract_DeduplicatesByHash(t *testing.T) {
	nodes, err := Extract(`<html><body><p>Hello</p><span>Hello</span><em>  Hello  </em></body></html>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("expected 1 deduplicated unit, got %d", len(nodes))
	}
}

func TestExtract_Context(t *testing.T) {
	nodes, err := Extract(`<html><body><button class="cta">Shop Now</button></body></html>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(nodes))
	}
	if want := `in <button class="cta">`; nodes[0].Context != want {
		t.Errorf("Context = %q, want %q", nodes[0].Context, want)
	}
}

func TestMissing(t *testing.T) {
	nodes, err := Extract(`<html><body><p>Hello</p><p>Goodbye</p></body></html>`)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	d := mapDict{}
	d.entry("fr", "Hello", "Bonjour")

	missing := Missing(nodes, d, "fr")
	if len(missing) != 1 {
		t.Fatalf("expected 1 missing unit, got %d", len(missing))
	}
	if missing[0].Text != "Goodbye" {
		t.Errorf("missing unit = %q, want Goodbye", missing[0].Text)
	}

	if got := Missing(nodes, d, "ja"); len(got) != 2 {
		t.Errorf("expected 2 missing units for an empty locale, got %d", len(got))
	}
}
