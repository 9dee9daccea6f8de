// internal/clienthtml/page.go
//
// Client page renderer.
//
// Context
// -------
// Every non-API path serves the same single-page shell.  Its <head> is built
// from the live instance settings: the instance name as <title>, the short
// description as description and Open Graph metas, and the administrator's
// custom CSS and JavaScript.  The default client route is exposed on <body>
// so the front end knows where to navigate from "/".
//
// Rendered pages are cached in an LRU keyed by snapshot generation and
// request path.  `Purge` is registered as a serverconfig change hook, so an
// update or delete drops every stale page at once.
//
// Notes
// -----
//   - Oxford commas, two spaces after periods.
package clienthtml

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/siteconf/internal/cache"
	"github.com/yanizio/siteconf/internal/head"
	"github.com/yanizio/siteconf/internal/serverconfig"
	"github.com/yanizio/siteconf/internal/settings"
)

// Source yields the live snapshot.  *serverconfig.Service satisfies it.
type Source interface {
	Snapshot() *serverconfig.Snapshot
}

type pageKey struct {
	generation uint64
	path       string
}

// Renderer serves the client shell.
type Renderer struct {
	src   Source
	pages *cache.LRU[pageKey, []byte]
}

var shell = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{.Head}}
</head>
<body data-default-route="{{.DefaultRoute}}">
<div id="app"></div>
</body>
</html>
`))

// New returns a Renderer caching up to size pages.
func New(src Source, size int) *Renderer {
	if size < 1 {
		size = 1
	}
	return &Renderer{src: src, pages: cache.New[pageKey, []byte](size)}
}

// ServeHTTP renders the page for r.URL.Path.
func (p *Renderer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap := p.src.Snapshot()
	key := pageKey{generation: snap.Generation, path: r.URL.Path}

	body, hit := p.pages.Get(key)
	if !hit {
		var err error
		body, err = render(snap.Config.Instance, r.URL.Path)
		if err != nil {
			zap.S().Errorw("client page render failed", "path", r.URL.Path, "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		p.pages.Add(key, body)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(body)
}

// Purge is a serverconfig.Hook that drops every cached page.
func (p *Renderer) Purge(_ context.Context, c serverconfig.Change) {
	p.pages.Purge()
	zap.S().Debugw("client page cache purged", "generation", c.New.Generation)
}

// Cached reports how many pages are held.
func (p *Renderer) Cached() int { return p.pages.Len() }

func render(in settings.Instance, path string) ([]byte, error) {
	h := head.New()
	h.SetTitle(in.Name)
	h.Meta("description", in.ShortDescription)
	h.Property("og:title", in.Name)
	h.Property("og:description", in.ShortDescription)
	h.Property("og:url", path)
	if in.IsNSFW {
		h.Meta("rating", "adult")
	}
	if err := h.JSONLD(map[string]string{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        in.Name,
		"description": in.ShortDescription,
	}); err != nil {
		return nil, err
	}
	h.Style(in.Customizations.CSS)
	h.Script(in.Customizations.JavaScript)

	var buf bytes.Buffer
	err := shell.Execute(&buf, struct {
		Head         template.HTML
		DefaultRoute string
	}{h.HTML(), in.DefaultClientRoute})
	return buf.Bytes(), err
}
