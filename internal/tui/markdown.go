package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// defaultMarkdownStyle avoids glamour's auto style, which queries the
// terminal background and can block.
const defaultMarkdownStyle = "dark"

var (
	mdRendererMu sync.Mutex
	mdRenderers  = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders a description for the detail pane. Renderers are
// cached per style and wrap width. On failure the raw text is returned.
func renderMarkdown(md, style string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	if style == "" {
		style = defaultMarkdownStyle
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
