package goloc

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// metaTargets lists the metadata elements that get their own substitution
// pass. An empty attr means the element's text content is translated.
var metaTargets = []struct {
	selector string
	attr     string
}{
	{"title", ""},
	{`meta[name="description"]`, "content"},
	{`meta[property="og:title"]`, "content"},
	{`meta[property="og:description"]`, "content"},
}

// translatePass holds the inputs of one translation pass plus its counters.
type translatePass struct {
	locale     string
	dict       Dictionary
	hashes     *hasher
	translated int
	total      int
}

// Translate replaces translatable content in doc with dictionary entries for
// locale, mutating the document in place. The pass for the default locale is
// a no-op. The body walk and the metadata pass touch disjoint subtrees and
// run concurrently.
func Translate(ctx context.Context, doc *goquery.Document, locale string, dict Dictionary) (translated, total int, err error) {
	if locale == DefaultLocale {
		return 0, 0, nil
	}

	hashes := newHasher()
	body := &translatePass{locale: locale, dict: dict, hashes: hashes}
	meta := &translatePass{locale: locale, dict: dict, hashes: hashes}

	bodySel := doc.Find("body")
	headSel := doc.Find("head")

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		bodySel.Each(func(_ int, s *goquery.Selection) {
			for _, n := range s.Nodes {
				body.walk(n)
			}
		})
		return nil
	})
	g.Go(func() error {
		meta.translateMetadata(headSel)
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	return body.translated + meta.translated, body.total + meta.total, nil
}

// walk visits element nodes in pre-order, replacing translatable content.
func (p *translatePass) walk(n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}
	if getAttr(n, "id") == SelectorID {
		return
	}
	if IgnoredTags[strings.ToLower(n.Data)] {
		return
	}

	// Translation may change visibility semantics; stale assistive
	// technology hints are cleared rather than trusted.
	removeAttr(n, "aria-hidden")

	if val := getAttr(n, "value"); strings.TrimSpace(val) != "" {
		p.total++
		if tr, ok := p.dict.Lookup(p.locale, p.hashes.hash(val)); ok {
			setAttr(n, "value", tr)
			p.translated++
		}
	}

	if hasDirectText(n) {
		p.total++
		combined := strings.TrimSpace(renderChildren(n))
		if tr, ok := p.dict.Lookup(p.locale, p.hashes.hash(combined)); ok {
			if err := setInnerHTML(n, tr); err == nil {
				p.translated++
				// The translation covers all descendants.
				return
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

// translateMetadata applies the same hash-and-lookup substitution to the
// known metadata elements under head.
func (p *translatePass) translateMetadata(head *goquery.Selection) {
	for _, target := range metaTargets {
		attr := target.attr
		head.Find(target.selector).Each(func(_ int, s *goquery.Selection) {
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

			p.total++
			tr, ok := p.dict.Lookup(p.locale, p.hashes.hash(src))
			if !ok {
				return
			}
			if attr == "" {
				s.SetText(tr)
			} else {
				s.SetAttr(attr, tr)
			}
			p.translated++
		})
	}
}

// hasDirectText reports whether n has a direct child text node with
// non-empty trimmed content.
func hasDirectText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}

// renderChildren serializes the direct children of n into one combined
// string: elements as their own markup, text nodes as their raw text, joined
// with no separator.
func renderChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			_ = html.Render(&b, c)
		} else {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// setInnerHTML replaces the children of n with the parsed fragment markup.
func setInnerHTML(n *html.Node, markup string) error {
	fragCtx := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Data,
		DataAtom: n.DataAtom,
	}
	children, err := html.ParseFragment(strings.NewReader(markup), fragCtx)
	if err != nil {
		return err
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
