// Package assemble builds the self-contained documents handed to the
// user: the downloadable artifact and the sandboxed preview variant.
// Documents are concatenated with strings.Builder on purpose —
// html/template would escape the generated CSS/JS payloads, which must
// land in the document verbatim.
package assemble

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"webgen_server/internal/types"
)

const documentHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>AI Generated Website</title>
`

// previewReset neutralizes styles leaking between host page and
// preview and forces the document to fill the viewport. Cosmetic only.
const previewReset = `* {
	box-sizing: border-box;
	margin: 0;
	padding: 0;
	font-family: inherit;
}
`

const previewSizing = `
html, body {
	width: 100%;
	height: 100%;
	overflow: auto;
}
`

// Document assembles the downloadable artifact: doctype, head with a
// style element holding the CSS, body holding the HTML, and a trailing
// script element holding the JS.
func Document(site *types.Website) string {
	return build(site, site.CSS)
}

// PreviewDocument is Document plus a CSS reset and viewport-fill rules
// wrapped around the generated stylesheet.
func PreviewDocument(site *types.Website) string {
	return build(site, previewReset+site.CSS+previewSizing)
}

func build(site *types.Website, css string) string {
	var b strings.Builder
	b.WriteString(documentHead)
	b.WriteString("<style>\n")
	b.WriteString(css)
	b.WriteString("\n</style>\n</head>\n<body>\n")
	b.WriteString(site.HTML)
	b.WriteString("\n<script>\n")
	b.WriteString(site.JS)
	b.WriteString("\n</script>\n</body>\n</html>\n")
	return b.String()
}

// strict drops all markup. Policies are safe for concurrent reuse.
var strict = bluemonday.StrictPolicy()

// Snippet returns a markup-stripped, bounded prefix of raw model
// output, safe to embed in error envelopes and logs. Truncation lands
// on a rune boundary so the snippet stays valid UTF-8.
func Snippet(raw string, max int) string {
	clean := strings.TrimSpace(strict.Sanitize(raw))
	if max <= 0 || len(clean) <= max {
		return clean
	}
	for max > 0 && !utf8.RuneStart(clean[max]) {
		max--
	}
	return clean[:max] + "..."
}
