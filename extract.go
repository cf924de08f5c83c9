package goloc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Extract returns the translatable units of an HTML document, deduplicated
// by hash, in document order. The units are exactly the strings a
// translation pass would hash: combined direct-child markup, value
// attributes, and metadata text. It is the input for missing-entry reports,
// snapshot diffs, and dictionary generation.
func Extract(content string) ([]TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &RewriteError{Message: "parsing document", Cause: err}
	}

	e := &extractor{
		hashes: newHasher(),
		seen:   make(map[string]bool),
	}

	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			e.walk(n)
		}
	})
	e.extractMetadata(doc.Find("head"))

	return e.nodes, nil
}

// Missing returns the units that have no dictionary entry for locale.
func Missing(nodes []TextNode, dict Dictionary, locale string) []TextNode {
	var missing []TextNode
	for _, n := range nodes {
		if _, ok := dict.Lookup(locale, n.Hash); !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

type extractor struct {
	hashes *hasher
	seen   map[string]bool
	nodes  []TextNode
}

// walk mirrors the translation walk: same skips, same combined-markup rule.
// An element with direct text content is recorded as one unit and not
// descended into, matching the engine's replace-and-stop behavior.
func (e *extractor) walk(n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}
	if getAttr(n, "id") == SelectorID {
		return
	}
	if IgnoredTags[strings.ToLower(n.Data)] {
		return
	}

	if val := strings.TrimSpace(getAttr(n, "value")); val != "" {
		e.record(val, "value", nodeContext(n), map[string]string{
			"tag":       n.Data,
			"attribute": "value",
		})
	}

	if hasDirectText(n) {
		combined := strings.TrimSpace(renderChildren(n))
		e.record(combined, "markup", nodeContext(n), map[string]string{
			"tag": n.Data,
		})
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
}

func (e *extractor) extractMetadata(head *goquery.Selection) {
	for _, target := range metaTargets {
		attr := target.attr
		selector := target.selector
		head.Find(selector).Each(func(_ int, s *goquery.Selection) {
			var src string
			if attr == "" {
				src = s.Text()
			} else {
				src, _ = s.Attr(attr)
			}
			src = strings.TrimSpace(src)
			if src == "" {
				return
			}
			e.record(src, "meta", selector, map[string]string{
				"selector":  selector,
				"attribute": attr,
			})
		})
	}
}

func (e *extractor) record(text, kind, context string, metadata map[string]string) {
	digest := e.hashes.hash(text)
	if e.seen[digest] {
		return
	}
	e.seen[digest] = true

	e.nodes = append(e.nodes, TextNode{
		ID:       fmt.Sprintf("node-%d", len(e.nodes)),
		Text:     text,
		Hash:     digest,
		Kind:     kind,
		Context:  context,
		Metadata: metadata,
	})
}

// nodeContext builds a short disambiguation context for an element.
func nodeContext(n *html.Node) string {
	tag := n.Data
	if class := getAttr(n, "class"); class != "" {
		return fmt.Sprintf("in <%s class=%q>", tag, class)
	}
	if id := getAttr(n, "id"); id != "" {
		return fmt.Sprintf("in <%s id=%q>", tag, id)
	}
	return fmt.Sprintf("in <%s>", tag)
}
