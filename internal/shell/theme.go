package shell

import (
	"fmt"
	"sort"
	"strings"
)

// Theme holds the design tokens emitted as CSS custom properties.
type Theme struct {
	Black         string
	PrimaryColor  string
	Background    string
	Colors        map[string][]string
	Shadows       map[string]string
	HeadingsFont  string
	HeadingsSizes map[string]int
}

// PaletteSize is the number of shades every custom color must define.
const PaletteSize = 10

// DeepBlue is the palette the shell's own styles reference.
const DeepBlue = "deepblue"

// DefaultTheme returns the deep blue dashboard theme.
func DefaultTheme() Theme {
	return Theme{
		Black:        "#2d4b81",
		PrimaryColor: "blue",
		Colors: map[string][]string{
			DeepBlue: {
				"#eef3ff",
				"#dce4f5",
				"#b9c7e2",
				"#94a8d0",
				"#748dc1",
				"#5f7cb8",
				"#5474b4",
				"#44639f",
				"#39588f",
				"#2d4b81",
			},
		},
		Shadows: map[string]string{
			"md": "1px 1px 3px rgba(0,0,0,.25)",
			"xl": "5px 5px 3px rgba(0,0,0,.25)",
		},
		HeadingsFont:  "Roboto, sans-serif",
		HeadingsSizes: map[string]int{"h1": 30},
	}
}

// Validate checks that every palette has exactly PaletteSize shades and
// that no two palette names collide once normalized.
func (t Theme) Validate() error {
	seen := make(map[string]string, len(t.Colors))
	for name, shades := range t.Colors {
		if len(shades) != PaletteSize {
			return fmt.Errorf("color %q has %d shades, want %d", name, len(shades), PaletteSize)
		}
		key := PaletteName(name)
		if key == "" {
			return fmt.Errorf("color %q has no usable name", name)
		}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("colors %q and %q both render as %q", other, name, key)
		}
		seen[key] = name
	}
	for level, size := range t.HeadingsSizes {
		if size <= 0 {
			return fmt.Errorf("heading %s size must be positive", level)
		}
	}

	return nil
}

// Vars returns the theme as CSS custom properties sorted by name so the
// rendered document is stable.
func (t Theme) Vars() []string {
	vars := make(map[string]string)

	if t.Black != "" {
		vars["--shell-color-black"] = t.Black
	}
	if t.PrimaryColor != "" {
		vars["--shell-primary-color"] = t.PrimaryColor
	}
	if t.Background != "" {
		vars["--shell-background"] = t.Background
	}
	for name, shades := range t.Colors {
		for i, shade := range shades {
			vars[fmt.Sprintf("--shell-color-%s-%d", PaletteName(name), i)] = shade
		}
	}
	for size, shadow := range t.Shadows {
		vars["--shell-shadow-"+size] = shadow
	}
	if t.HeadingsFont != "" {
		vars["--shell-headings-font"] = t.HeadingsFont
	}
	for level, size := range t.HeadingsSizes {
		vars[fmt.Sprintf("--shell-%s-size", level)] = fmt.Sprintf("%dpx", size)
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	decls := make([]string, 0, len(names))
	for _, name := range names {
		decls = append(decls, name+": "+vars[name]+";")
	}

	return decls
}

// PaletteName folds a palette name to the form used in CSS variables:
// lower case letters and digits only. Config keys arrive lower-cased, so
// "deepBlue", "deep-blue" and "deepblue" all name the same palette.
func PaletteName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
