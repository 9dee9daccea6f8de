// internal/head/builder.go
//
// The Builder collects everything that belongs inside a page's <head>
// element.  It is scoped to a single render call: the client page renderer
// pushes the instance title, description metas, and the administrator's
// custom CSS and JavaScript, then emits the lot with HTML().
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Meta, Property     – <meta name=…> and <meta property=…> with dedup.
//   - Link               – <link rel=… href=…>.
//   - JSONLD             – structured data wrapped in
//     <script type="application/ld+json">…</script>.
//   - Style, Script      – inline blocks, emitted last so they can override
//     everything above them.
//
// Attribute values are HTML-escaped.  Inline blocks are trusted
// administrator content; only the closing-tag sequence is neutralised.
package head

import (
	"encoding/json"
	"html/template"
	"regexp"
	"strings"
)

type Builder struct {
	title   string
	tags    []string
	jsonLD  []string
	styles  []string
	scripts []string
	seen    map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) { b.title = t }

func (b *Builder) Meta(name, content string) {
	b.tag("meta:"+name, `<meta name="`+esc(name)+`" content="`+esc(content)+`">`)
}

func (b *Builder) Property(prop, content string) {
	b.tag("prop:"+prop, `<meta property="`+esc(prop)+`" content="`+esc(content)+`">`)
}

func (b *Builder) Link(rel, href string) {
	b.tag("link:"+rel+href, `<link rel="`+esc(rel)+`" href="`+esc(href)+`">`)
}

// JSONLD marshals v as one structured-data block.
func (b *Builder) JSONLD(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.jsonLD = append(b.jsonLD, string(raw)) // json.Marshal escapes <, >, &
	return nil
}

// Style appends an inline stylesheet.  Blank input is ignored.
func (b *Builder) Style(css string) {
	if strings.TrimSpace(css) != "" {
		b.styles = append(b.styles, css)
	}
}

// Script appends an inline script.  Blank input is ignored.
func (b *Builder) Script(js string) {
	if strings.TrimSpace(js) != "" {
		b.scripts = append(b.scripts, js)
	}
}

func (b *Builder) tag(key, html string) {
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.tags = append(b.tags, html)
}

// HTML renders the collected head content.
func (b *Builder) HTML() template.HTML {
	var sb strings.Builder
	if b.title != "" {
		sb.WriteString("<title>" + esc(b.title) + "</title>")
	}
	for _, t := range b.tags {
		sb.WriteString(t)
	}
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">` + js + `</script>`)
	}
	for _, css := range b.styles {
		sb.WriteString("<style>" + styleEnd.ReplaceAllString(css, `<\/style`) + "</style>")
	}
	for _, js := range b.scripts {
		sb.WriteString("<script>" + scriptEnd.ReplaceAllString(js, `<\/script`) + "</script>")
	}
	return template.HTML(sb.String())
}

func esc(s string) string { return template.HTMLEscapeString(s) }

var (
	styleEnd  = regexp.MustCompile(`(?i)</style`)
	scriptEnd = regexp.MustCompile(`(?i)</script`)
)
