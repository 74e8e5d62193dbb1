package shell

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/conneroisu/appshell/internal/navigation"
)

// Page renders the complete HTML document around the assembled shell.
func Page(opts Options, nav []navigation.NavNode, content g.Node) g.Node {
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(g.Text(documentTitle(opts))),
				html.StyleEl(g.Raw(stylesheet(opts))),
			),
			html.Body(
				Assemble(opts, nav, content),
				Script(opts),
			),
		),
	)
}

// Document adapts Page to a templ component. The content component is
// rendered in place inside the wrapper with the request context.
func Document(opts Options, nav []navigation.NavNode, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Page(opts, nav, Content(ctx, content)).Render(w)
	})
}

// Content bridges a templ component into the gomponents tree. A nil
// component renders nothing.
func Content(ctx context.Context, content templ.Component) g.Node {
	if content == nil {
		return nil
	}

	return g.NodeFunc(func(w io.Writer) error {
		return content.Render(ctx, w)
	})
}

func documentTitle(opts Options) string {
	if opts.Title == "" {
		return opts.Brand.Full
	}

	return opts.Title + " | " + opts.Brand.Full
}
