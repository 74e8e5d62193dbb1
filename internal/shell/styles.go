package shell

import (
	"fmt"
	"strings"
)

// stylesheet renders the shell's CSS: theme variables, the fixed header,
// the off-canvas drawer and the responsive brand swap.
func stylesheet(opts Options) string {
	var sb strings.Builder

	sb.WriteString(":root {\n")
	for _, decl := range opts.Theme.Vars() {
		sb.WriteString("  " + decl + "\n")
	}
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, `body { margin: 0; color: var(--shell-color-black, #000); font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; }
h1, h2, h3 { font-family: var(--shell-headings-font, inherit); }
h1 { font-size: var(--shell-h1-size, 2rem); margin: 0; }
.shell-header { position: fixed; top: 0; left: 0; right: 0; height: %[1]dpx; padding: 0 %[2]dpx; display: flex; align-items: center; background: #fff; border-bottom: 1px solid #e9ecef; box-shadow: var(--shell-shadow-md, none); z-index: 200; }
.shell-header-start, .shell-header-center, .shell-header-end { flex: 1; display: flex; align-items: center; }
.shell-header-center { justify-content: center; }
.shell-header-center h1 { font-weight: 400; text-align: center; width: 100%%; }
.shell-header-end { justify-content: flex-end; gap: 8px; }
.shell-brand { font-weight: 100; margin-left: 12px; }
.shell-brand a, .shell-nav a { color: inherit; text-decoration: none; }
.shell-burger { z-index: 900000; background: none; border: 0; cursor: pointer; padding: 8px; }
.shell-burger span { display: block; width: 22px; height: 2px; margin: 4px 0; background: currentColor; }
.shell-icon-link { display: inline-flex; align-items: center; justify-content: center; width: 36px; height: 36px; border: 1px solid currentColor; border-radius: 30px; color: var(--shell-color-%[7]s-9, currentColor); }
.shell-drawer { position: fixed; top: 0; bottom: 0; left: 0; width: %[3]dpx; padding-top: %[1]dpx; background: #fff; box-shadow: var(--shell-shadow-xl, none); transform: translateX(-100%%); transition: transform 150ms ease; overflow-y: auto; z-index: 150; }
.shell-drawer[data-opened="true"] { transform: none; }
.shell-nav ul { list-style: none; margin: 0; padding-left: 12px; }
.shell-nav a { display: block; padding: 8px 12px; }
.shell-nav a[aria-current="page"] { background: var(--shell-color-%[7]s-0, #eef3ff); font-weight: 600; }
.shell-container { width: %[4]s; margin: 0 auto; padding-top: %[5]dpx; }
@media (max-width: calc(%[6]s - 1px)) { .shell-brand-full { display: none; } }
@media (min-width: %[6]s) { .shell-brand-short { display: none; } }
`,
		opts.HeaderHeight,
		opts.HeaderPaddingX,
		opts.DrawerSize,
		opts.ContainerWidth,
		opts.ContentPadding,
		opts.Brand.Breakpoint,
		DeepBlue,
	)

	return sb.String()
}
