package shell

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

const githubSVG = `<svg width="22" height="22" viewBox="0 0 15 15" fill="none" xmlns="http://www.w3.org/2000/svg" aria-hidden="true"><path d="M7.5 0.25C3.49 0.25 0.25 3.49 0.25 7.5c0 3.2 2.08 5.92 4.96 6.88.36.07.5-.16.5-.35v-1.23c-2.02.44-2.44-.97-2.44-.97-.33-.84-.81-1.06-.81-1.06-.66-.45.05-.44.05-.44.73.05 1.11.75 1.11.75.65 1.11 1.7.79 2.11.6.07-.47.25-.79.46-.97-1.61-.18-3.3-.8-3.3-3.59 0-.79.28-1.44.75-1.95-.08-.18-.33-.92.07-1.92 0 0 .61-.2 1.99.74a6.9 6.9 0 0 1 3.63 0c1.38-.94 1.99-.74 1.99-.74.4 1 .15 1.74.07 1.92.47.51.75 1.16.75 1.95 0 2.8-1.7 3.41-3.31 3.59.26.22.49.67.49 1.35v2c0 .19.13.42.5.35a7.25 7.25 0 0 0 4.95-6.88C14.75 3.49 11.51.25 7.5.25Z" fill="currentColor"/></svg>`

const homeSVG = `<svg width="16" height="16" viewBox="0 0 16 16" fill="currentColor" xmlns="http://www.w3.org/2000/svg" aria-hidden="true"><path d="M6.5 14.5v-3.505c0-.245.25-.495.5-.495h2c.25 0 .5.25.5.5v3.5a.5.5 0 0 0 .5.5h4a.5.5 0 0 0 .5-.5v-7a.5.5 0 0 0-.146-.354L13 5.793V2.5a.5.5 0 0 0-.5-.5h-1a.5.5 0 0 0-.5.5v1.293L8.354 1.146a.5.5 0 0 0-.708 0l-6 6A.5.5 0 0 0 1.5 7.5v7a.5.5 0 0 0 .5.5h4a.5.5 0 0 0 .5-.5Z"/></svg>`

// icon maps an icon name to its inline SVG node.
func icon(name string) g.Node {
	switch name {
	case "github":
		return g.Raw(githubSVG)
	case "home":
		return g.Raw(homeSVG)
	default:
		// Unknown icons render as a bullet so the link stays clickable.
		return html.Span(
			html.Class("shell-icon-fallback"),
			g.Text("•"),
		)
	}
}
