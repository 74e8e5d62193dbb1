// Package shell assembles the application shell: a fixed header, the
// sidebar drawer holding the navigation tree, and the content wrapper.
//
// Assembly is pure. Assemble returns an immutable gomponents tree built
// from its arguments only; rendering the same inputs twice yields the same
// bytes. Document wraps the tree in a full HTML page and exposes it as a
// templ component so it can be served with templ.Handler.
package shell

import (
	"strconv"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/conneroisu/appshell/internal/navigation"
	"github.com/conneroisu/appshell/internal/types"
)

// Assemble composes the header, the drawer with the navigation tree and the
// content region. A nil content renders an empty wrapper.
func Assemble(opts Options, nav []navigation.NavNode, content g.Node) g.Node {
	return g.Group{
		Header(opts),
		Drawer(nav),
		Wrapper(content),
	}
}

// Header renders the fixed header: burger and brand on the left, the page
// title in the middle and the external links on the right.
func Header(opts Options) g.Node {
	return html.Header(
		html.Class("shell-header"),
		html.Div(
			html.Class("shell-header-start"),
			Burger(),
			html.H1(
				html.Class("shell-brand"),
				html.Span(html.Class("shell-brand-full"), homeLink(opts.Brand.Full)),
				html.Span(html.Class("shell-brand-short"), homeLink(opts.Brand.Short)),
			),
		),
		html.Div(
			html.Class("shell-header-center"),
			html.H1(
				html.ID(types.PageTitleID),
				g.Text(opts.Title),
			),
		),
		html.Div(
			html.Class("shell-header-end"),
			g.Map(opts.Links, headerLink),
		),
	)
}

// Burger renders the drawer toggle. It always starts closed.
func Burger() g.Node {
	return html.Button(
		html.ID(types.BurgerID),
		html.Class("shell-burger"),
		html.Type("button"),
		html.Aria("label", "Toggle navigation"),
		html.Aria("expanded", "false"),
		html.Aria("controls", types.DrawerID),
		html.Span(),
		html.Span(),
		html.Span(),
	)
}

// Drawer renders the sidebar. It has no close button and no overlay; only
// the burger opens and closes it.
func Drawer(nav []navigation.NavNode) g.Node {
	return html.Aside(
		html.ID(types.DrawerID),
		html.Class("shell-drawer"),
		html.Data("opened", "false"),
		html.Nav(
			html.Class("shell-nav"),
			html.Aria("label", "Pages"),
			navList(nav, 0),
		),
	)
}

// Wrapper renders the content region below the fixed header.
func Wrapper(content g.Node) g.Node {
	return html.Div(
		html.ID(types.WrapperID),
		html.Main(
			html.Class("shell-container"),
			content,
		),
	)
}

func navList(nodes []navigation.NavNode, depth int) g.Node {
	if len(nodes) == 0 {
		return nil
	}

	return html.Ul(
		html.Data("depth", strconv.Itoa(depth)),
		g.Map(nodes, func(node navigation.NavNode) g.Node {
			return navItem(node, depth)
		}),
	)
}

func navItem(node navigation.NavNode, depth int) g.Node {
	return html.Li(
		html.A(
			html.Href(node.Href),
			g.If(node.Active, html.Aria("current", "page")),
			g.If(depth == 0 && node.Href == "/", icon("home")),
			g.Text(node.Label),
		),
		navList(node.Children, depth+1),
	)
}

func homeLink(label string) g.Node {
	return html.A(
		html.Href("/"),
		g.Text(label),
	)
}

func headerLink(link Link) g.Node {
	return html.A(
		html.Class("shell-icon-link"),
		html.Href(link.Href),
		html.Target("_blank"),
		html.Rel("noopener noreferrer"),
		html.Title(link.Label),
		html.Aria("label", link.Label),
		icon(link.Icon),
	)
}
