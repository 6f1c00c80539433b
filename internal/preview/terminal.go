package preview

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	// Block level closing tags become line breaks before stripping.
	blockEnd   = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|pre|blockquote|tr|table|ul|ol)>|<br\s*/?>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// PlainText reduces rendered HTML to readable text for a terminal pane.
func PlainText(s string) string {
	s = blockEnd.ReplaceAllString(s, "$0\n")
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

var (
	termMu        sync.Mutex
	termRenderers = map[int]*glamour.TermRenderer{}
)

// Terminal renders markdown source with ANSI styling, wrapped at width.
// On renderer failure the source is returned unchanged.
func Terminal(src string, width int) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	termMu.Lock()
	r := termRenderers[width]
	if r == nil {
		// A fixed style avoids terminal background queries.
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			termMu.Unlock()
			return src
		}
		termRenderers[width] = rr
		r = rr
	}
	termMu.Unlock()

	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}
