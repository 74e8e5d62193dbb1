package shell

import (
	"fmt"
	"strings"

	"github.com/conneroisu/appshell/internal/validation"
)

// Link is an external link rendered as an icon in the header.
type Link struct {
	Label string
	Href  string
	Icon  string
}

// Brand is the header wordmark. Full is shown from the breakpoint up, Short
// below it. Both link to the home page.
type Brand struct {
	Full       string
	Short      string
	Breakpoint string
}

// Options configures the layout assembler.
type Options struct {
	Brand          Brand
	HeaderHeight   int
	HeaderPaddingX int
	DrawerSize     int
	ContainerWidth string
	ContentPadding int
	Links          []Link
	Theme          Theme

	// Title prefills the header title before the first title sync.
	Title string
	// SocketPath is the websocket endpoint the client script connects to.
	// Empty disables live bindings.
	SocketPath string
}

// DefaultOptions returns the stock dashboard shell.
func DefaultOptions() Options {
	return Options{
		Brand: Brand{
			Full:       "VisuCalc",
			Short:      "VC",
			Breakpoint: "75em",
		},
		HeaderHeight:   70,
		HeaderPaddingX: 25,
		DrawerSize:     300,
		ContainerWidth: "80%",
		ContentPadding: 90,
		Links: []Link{
			{
				Label: "GitHub",
				Href:  "https://github.com/AMadmanWithABox/Capstone",
				Icon:  "github",
			},
		},
		Theme:      DefaultTheme(),
		SocketPath: "/ws",
	}
}

// Validate checks the options before the first render.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Brand.Full) == "" {
		return fmt.Errorf("brand name cannot be empty")
	}
	if o.Brand.Short == "" {
		return fmt.Errorf("short brand name cannot be empty")
	}
	if o.HeaderHeight <= 0 {
		return fmt.Errorf("header height must be positive, got %d", o.HeaderHeight)
	}
	if o.DrawerSize <= 0 {
		return fmt.Errorf("drawer size must be positive, got %d", o.DrawerSize)
	}
	if o.ContentPadding < o.HeaderHeight {
		return fmt.Errorf("content top padding %d would sit under the %dpx header", o.ContentPadding, o.HeaderHeight)
	}
	for _, link := range o.Links {
		if err := validation.ValidateLinkHref(link.Href); err != nil {
			return fmt.Errorf("header link %q: %w", link.Label, err)
		}
	}

	return o.Theme.Validate()
}
