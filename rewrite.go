package goloc

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Pass holds the immutable context of one locale's processing pass.
type Pass struct {
	Locale    string
	BaseURL   *url.URL
	QueryMode bool   // query-parameter addressing instead of path segments
	DocPath   string // path of the document being localized, e.g. "/"
}

// Rewrite adjusts every locale-sensitive element of doc for the pass locale:
// text direction, anchor hrefs, alternate/canonical tags, and the language
// selector widget.
func (p *Pass) Rewrite(doc *goquery.Document) error {
	p.applyDirection(doc)
	if err := p.rewriteLinks(doc); err != nil {
		return err
	}
	if err := p.rewriteAlternates(doc); err != nil {
		return err
	}
	p.injectSelector(doc)
	return nil
}

// applyDirection stamps lang and dir on the document root. Slider internals
// assume left-to-right coordinates, so their direction is always forced.
func (p *Pass) applyDirection(doc *goquery.Document) {
	root := doc.Find("html")
	root.SetAttr("lang", p.Locale)
	root.SetAttr("dir", Direction(p.Locale))
	doc.Find(".w-slider").SetAttr("dir", "ltr")
}

// rewriteLinks localizes every root-relative or query-only anchor href.
func (p *Pass) rewriteLinks(doc *goquery.Document) error {
	var firstErr error
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		localized, err := p.LocalizeHref(href)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		if localized != href {
			s.SetAttr("href", localized)
		}
	})
	return firstErr
}

// LocalizeHref rewrites a root-relative (leading "/") or query-only (leading
// "?") href so it addresses the pass locale. All other hrefs are returned
// unchanged. The querystring-only vs full-path shape of the input is
// preserved.
func (p *Pass) LocalizeHref(href string) (string, error) {
	queryOnly := strings.HasPrefix(href, "?")
	rootRelative := strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
	if !queryOnly && !rootRelative {
		return href, nil
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", &RewriteError{Message: "parsing href " + href, Cause: err}
	}
	u := p.BaseURL.ResolveReference(ref)

	q := u.Query()
	if p.QueryMode {
		// The default locale is the unmarked form.
		if p.Locale == DefaultLocale {
			q.Del("lang")
		} else {
			q.Set("lang", p.Locale)
		}
	} else {
		segments := splitPath(u.Path)
		if len(segments) > 0 && IsSupported(segments[0]) {
			segments[0] = p.Locale
		} else {
			segments = append([]string{p.Locale}, segments...)
		}
		u.Path = "/" + strings.Join(segments, "/")
		q.Del("lang")
	}
	u.RawQuery = q.Encode()

	var out string
	if queryOnly && u.RawQuery != "" {
		out = "?" + u.RawQuery
	} else {
		out = u.EscapedPath()
		if u.RawQuery != "" {
			out += "?" + u.RawQuery
		}
	}
	if u.Fragment != "" {
		out += "#" + u.Fragment
	}
	return out, nil
}

// LocalizeDocURL returns the absolute URL of the current document addressed
// for the given locale code.
func (p *Pass) LocalizeDocURL(code string) (string, error) {
	alt := *p
	alt.Locale = code
	rel, err := alt.LocalizeHref(p.DocPath)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(rel)
	if err != nil {
		return "", &RewriteError{Message: "parsing localized path " + rel, Cause: err}
	}
	return p.BaseURL.ResolveReference(ref).String(), nil
}

// rewriteAlternates removes any pre-existing alternate/canonical link tags
// and emits one alternate per supported locale plus exactly one canonical
// tag for the current locale.
func (p *Pass) rewriteAlternates(doc *goquery.Document) error {
	doc.Find(`link[rel="alternate"], link[rel="canonical"]`).Remove()

	head := doc.Find("head")
	if head.Length() == 0 {
		return nil
	}

	var b strings.Builder
	for _, l := range Locales {
		href, err := p.LocalizeDocURL(l.Code)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "<link rel=\"alternate\" hreflang=%q href=%q>", l.Code, href)
	}
	canonical, err := p.LocalizeDocURL(p.Locale)
	if err != nil {
		return err
	}
	fmt.Fprintf(&b, "<link rel=\"canonical\" href=%q>", canonical)

	head.AppendHtml(b.String())
	return nil
}

const selectorStyle = "<style>" +
	"#" + SelectorID + "{position:fixed;bottom:16px;left:16px;z-index:9999;}" +
	"#" + SelectorID + " select{padding:6px 10px;border:1px solid #ccc;border-radius:4px;background:#fff;font-size:14px;}" +
	"</style>"

// injectSelector builds the language dropdown, marks the current locale
// selected, and attaches its placement style and behavior script.
func (p *Pass) injectSelector(doc *goquery.Document) {
	body := doc.Find("body")
	if body.Length() == 0 {
		return
	}

	var b strings.Builder
	b.WriteString(`<div id="` + SelectorID + `"><select>`)
	for _, l := range Locales {
		selected := ""
		if l.Code == p.Locale {
			selected = " selected"
		}
		fmt.Fprintf(&b, "<option value=%q%s>%s</option>", l.Code, selected, html.EscapeString(l.Name))
	}
	b.WriteString(`</select></div>`)
	b.WriteString(selectorStyle)
	b.WriteString(p.selectorScript())

	body.AppendHtml(b.String())
}

// selectorScript builds the inline behavior script. The locale list,
// addressing mode, and default locale are injected from the pass, so the
// client-side addressing rule operates on the same data as LocalizeHref.
func (p *Pass) selectorScript() string {
	codes, _ := json.Marshal(LocaleCodes())
	return fmt.Sprintf(`<script>
(function(){
var sel=document.querySelector('#%s select');
if(!sel){return;}
var locales=%s,queryMode=%t,def=%q;
sel.addEventListener('change',function(){
var loc=sel.value,url=new URL(window.location.href);
if(queryMode){
if(loc===def){url.searchParams.delete('lang');}else{url.searchParams.set('lang',loc);}
}else{
var segs=url.pathname.split('/').filter(function(s){return s!=='';});
if(segs.length>0&&locales.indexOf(segs[0])>=0){segs[0]=loc;}else{segs.unshift(loc);}
url.pathname='/'+segs.join('/');
url.searchParams.delete('lang');
}
history.pushState({},'',url.toString());
window.location.reload();
});
})();
</script>`, SelectorID, codes, p.QueryMode, DefaultLocale)
}

// splitPath splits a URL path into its non-empty segments.
func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
