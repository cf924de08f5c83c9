// Package snapshot downloads a remote page and rewrites its asset
// references to local files, producing the stable offline copy the
// localizer works from.
package snapshot

import (
	"context"
	"crypto/md5" // #nosec G501 - names asset files, no security role
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/goloc"
	"golang.org/x/sync/errgroup"
)

// AssetDirName is the directory under the snapshot root that holds
// downloaded assets; asset references are rewritten to "/<AssetDirName>/…"
// so they resolve from any locale subpath.
const AssetDirName = "assets"

// upstreamI18nScriptID is the id of the hosted i18n script the source page
// carries; it conflicts with static localization and is always removed.
const upstreamI18nScriptID = "i18nWebflowScript"

var styleURLPattern = regexp.MustCompile(`url\("(.*?)"\)`)

// assetAttrs are the element/attribute pairs that commonly reference assets.
var assetAttrs = []struct {
	tags []string
	attr string
}{
	{[]string{"img", "script", "source"}, "src"},
	{[]string{"link"}, "href"},
}

// Config holds configuration for a Fetcher.
type Config struct {
	Client            *http.Client // Defaults to http.DefaultClient
	Concurrency       int          // Parallel asset downloads (default 4)
	RequestsPerMinute int          // Fetch throttle (0 = no throttle)
	Retry             goloc.RetryConfig
}

// Fetcher downloads a page and its assets.
type Fetcher struct {
	client  *http.Client
	limit   int
	limiter *goloc.RateLimiter
	retry   goloc.RetryConfig
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}

	limit := cfg.Concurrency
	if limit <= 0 {
		limit = 4
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 && retry.BaseDelay == 0 {
		retry = goloc.DefaultRetryConfig()
	}

	f := &Fetcher{
		client: client,
		limit:  limit,
		retry:  retry,
	}
	if cfg.RequestsPerMinute > 0 {
		f.limiter = goloc.NewRateLimiter(goloc.RateLimitConfig{
			RequestsPerMinute: cfg.RequestsPerMinute,
		})
	}
	return f
}

// Fetch downloads pageURL, localizes its asset references into
// dir/assets, and writes the cleaned document to dir/index.html.
func (f *Fetcher) Fetch(ctx context.Context, pageURL, dir string) error {
	page, err := url.Parse(pageURL)
	if err != nil {
		return &goloc.FetchError{URL: pageURL, Message: "invalid page URL", Cause: err}
	}

	body, err := f.get(ctx, pageURL)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return &goloc.FetchError{URL: pageURL, Message: "parsing page", Cause: err}
	}

	doc.Find("#" + upstreamI18nScriptID).Remove()

	refs := collectRefs(doc, page)

	assetDir := filepath.Join(dir, AssetDirName)
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		return &goloc.FetchError{URL: pageURL, Message: "creating asset dir", Cause: err}
	}

	downloaded := f.download(ctx, refs, assetDir)
	applyRefs(doc, page, downloaded)

	out, err := doc.Html()
	if err != nil {
		return &goloc.FetchError{URL: pageURL, Message: "serializing page", Cause: err}
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(out), 0o644); err != nil { // #nosec G306 - public page content
		return &goloc.FetchError{URL: pageURL, Message: "writing index.html", Cause: err}
	}
	return nil
}

// localName derives the local asset filename from the URL path: the first
// ten hex characters of its MD5 plus the original extension.
func localName(resolved *url.URL) string {
	sum := md5.Sum([]byte(resolved.Path)) // #nosec G401 - filename derivation only
	ext := path.Ext(resolved.Path)
	if ext == "" {
		ext = ".bin"
	}
	return hex.EncodeToString(sum[:])[:10] + ext
}

// resolveAsset resolves a reference against the page URL. data: URLs and
// unparsable references yield ok=false and are left untouched.
func resolveAsset(raw string, page *url.URL) (*url.URL, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "data:") {
		return nil, false
	}
	ref, err := url.Parse(trimmed)
	if err != nil {
		return nil, false
	}
	resolved := page.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}
	return resolved, true
}

// collectRefs walks the document and gathers every asset URL that should be
// downloaded, keyed by resolved URL string.
func collectRefs(doc *goquery.Document, page *url.URL) map[string]string {
	refs := make(map[string]string)

	add := func(raw string) {
		resolved, ok := resolveAsset(raw, page)
		if !ok {
			return
		}
		refs[resolved.String()] = localName(resolved)
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			for _, a := range n.Attr {
				key := strings.ToLower(a.Key)
				switch {
				case strings.HasSuffix(key, "urls"):
					for _, part := range strings.Split(a.Val, ",") {
						add(part)
					}
				case strings.HasSuffix(key, "url"):
					add(a.Val)
				case key == "style":
					for _, m := range styleURLPattern.FindAllStringSubmatch(a.Val, -1) {
						if isRemote(m[1]) {
							add(m[1])
						}
					}
				}
			}
		}
	})

	for _, aa := range assetAttrs {
		for _, tag := range aa.tags {
			attr := aa.attr
			doc.Find(tag + "[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
				raw, _ := s.Attr(attr)
				add(raw)
			})
		}
	}

	return refs
}

// isRemote matches the original behavior for style URLs: only absolute and
// protocol-relative references are localized.
func isRemote(raw string) bool {
	return strings.HasPrefix(raw, "http://") ||
		strings.HasPrefix(raw, "https://") ||
		strings.HasPrefix(raw, "//")
}

// download fetches every referenced asset in parallel and returns the set
// of resolved URLs that now exist locally. A failed asset is not fatal; its
// references keep pointing at the origin.
func (f *Fetcher) download(ctx context.Context, refs map[string]string, assetDir string) map[string]bool {
	var mu sync.Mutex
	downloaded := make(map[string]bool, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)
	for resolved, name := range refs {
		resolved := resolved
		target := filepath.Join(assetDir, name)
		g.Go(func() error {
			if _, err := os.Stat(target); err == nil {
				mu.Lock()
				downloaded[resolved] = true
				mu.Unlock()
				return nil
			}

			data, err := f.get(ctx, resolved)
			if err != nil {
				return nil // keep the original reference
			}
			if err := os.WriteFile(target, data, 0o644); err != nil { // #nosec G306 - public asset
				return nil
			}

			mu.Lock()
			downloaded[resolved] = true
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return downloaded
}

// applyRefs rewrites every reference whose asset was downloaded to its
// root-absolute local path, preserving querystrings.
func applyRefs(doc *goquery.Document, page *url.URL, downloaded map[string]bool) {
	rewrite := func(raw string) (string, bool) {
		resolved, ok := resolveAsset(raw, page)
		if !ok || !downloaded[resolved.String()] {
			return raw, false
		}
		local := "/" + AssetDirName + "/" + localName(resolved)
		if resolved.RawQuery != "" {
			local += "?" + resolved.RawQuery
		}
		return local, true
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		s.RemoveAttr("integrity")
		s.RemoveAttr("crossorigin")

		for _, n := range s.Nodes {
			for i, a := range n.Attr {
				key := strings.ToLower(a.Key)
				switch {
				case strings.HasSuffix(key, "urls"):
					parts := strings.Split(a.Val, ",")
					for j, part := range parts {
						if local, ok := rewrite(part); ok {
							parts[j] = local
						} else {
							parts[j] = strings.TrimSpace(part)
						}
					}
					n.Attr[i].Val = strings.Join(parts, ", ")
				case strings.HasSuffix(key, "url"):
					if local, ok := rewrite(a.Val); ok {
						n.Attr[i].Val = local
					}
				case key == "style":
					n.Attr[i].Val = styleURLPattern.ReplaceAllStringFunc(a.Val, func(m string) string {
						inner := styleURLPattern.FindStringSubmatch(m)[1]
						if !isRemote(inner) {
							return m
						}
						if local, ok := rewrite(inner); ok {
							return fmt.Sprintf("url(%q)", local)
						}
						return m
					})
				}
			}
		}
	})

	for _, aa := range assetAttrs {
		for _, tag := range aa.tags {
			attr := aa.attr
			doc.Find(tag + "[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
				raw, _ := s.Attr(attr)
				if local, ok := rewrite(raw); ok {
					s.SetAttr(attr, local)
				}
			})
		}
	}
}

// get fetches one URL, honoring the throttle and retry policy.
func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &goloc.FetchError{URL: rawURL, Message: "throttle wait cancelled", Cause: err}
		}
	}

	return goloc.WithRetry(ctx, f.retry, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, &goloc.FetchError{URL: rawURL, Message: "building request", Cause: err}
		}
		req.Header.Set("User-Agent", goloc.UserAgent())

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, &goloc.FetchError{URL: rawURL, Message: "request failed", Cause: err, Retryable: true}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &goloc.FetchError{
				URL:       rawURL,
				Message:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
				Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
			}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &goloc.FetchError{URL: rawURL, Message: "reading body", Cause: err, Retryable: true}
		}
		return body, nil
	})
}
