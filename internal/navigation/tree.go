// Package navigation derives the sidebar's two-level navigation tree from a
// page registry snapshot.
//
// Pages are grouped by their first two path segments. The first segment
// names a top-level group, the second a sub-group, and every page below
// /first/second/ becomes a leaf of that sub-group:
//
//	/                      Home
//	/reports               Reports
//	/reports/monthly       Monthly
//	/reports/monthly/june  June
//
// yields Home; Reports -> Monthly -> June. Group labels come from the
// snapshot's section metadata; a group without metadata is a configuration
// error, never silently defaulted.
package navigation

import (
	"strings"

	shellerrors "github.com/conneroisu/appshell/internal/errors"
	"github.com/conneroisu/appshell/internal/registry"
)

// HomeLabel is the label of the root link.
const HomeLabel = "Home"

// NavNode is one link of the navigation tree.
type NavNode struct {
	Label    string    `json:"label" yaml:"label"`
	Href     string    `json:"href" yaml:"href"`
	Active   bool      `json:"active,omitempty" yaml:"active,omitempty"`
	Expanded bool      `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Children []NavNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tags holds the grouping keys found in a page collection, each list in
// first-seen order.
type Tags struct {
	// Level1 lists distinct non-empty first segments.
	Level1 []string
	// Level2 lists distinct second segments across all groups. A name used
	// under two different first segments appears once.
	Level2 []string
	// Nested lists distinct second segments per first segment.
	Nested map[string][]string
}

// CollectTags scans the pages once and records the grouping keys.
func CollectTags(pages []registry.PageDescriptor) Tags {
	tags := Tags{Nested: make(map[string][]string)}
	seen1 := make(map[string]bool)
	seen2 := make(map[string]bool)
	seenNested := make(map[[2]string]bool)

	for _, page := range pages {
		segments := strings.Split(page.Path, "/")

		if len(segments) > 1 && segments[1] != "" && !seen1[segments[1]] {
			seen1[segments[1]] = true
			tags.Level1 = append(tags.Level1, segments[1])
		}

		if len(segments) > 2 && segments[2] != "" {
			if !seen2[segments[2]] {
				seen2[segments[2]] = true
				tags.Level2 = append(tags.Level2, segments[2])
			}

			pair := [2]string{segments[1], segments[2]}
			if segments[1] != "" && !seenNested[pair] {
				seenNested[pair] = true
				tags.Nested[segments[1]] = append(tags.Nested[segments[1]], segments[2])
			}
		}
	}

	return tags
}

// Option configures Build.
type Option func(*builder)

// WithCurrentPath marks the node whose href equals path as active and
// expands its ancestors.
func WithCurrentPath(path string) Option {
	return func(b *builder) {
		b.current = path
	}
}

// WithHomeLabel overrides the root link label.
func WithHomeLabel(label string) Option {
	return func(b *builder) {
		b.homeLabel = label
	}
}

// WithFlatGrouping iterates every second-level tag under every first-level
// group and matches leaves by bare prefix, the way the first generation of
// the shell did. A tag that occurs under one group then requires section
// metadata under all of them. Kept for migrating old page layouts.
func WithFlatGrouping() Option {
	return func(b *builder) {
		b.flat = true
	}
}

type builder struct {
	snap      *registry.Snapshot
	pages     []registry.PageDescriptor
	current   string
	homeLabel string
	flat      bool
}

// Build derives the navigation tree: a root Home link followed by one
// subtree per top-level group, in first-seen order.
func Build(snap *registry.Snapshot, opts ...Option) ([]NavNode, error) {
	b := &builder{
		snap:      snap,
		pages:     snap.Pages(),
		homeLabel: HomeLabel,
	}
	for _, opt := range opts {
		opt(b)
	}

	tags := CollectTags(b.pages)

	nodes := make([]NavNode, 0, len(tags.Level1)+1)
	nodes = append(nodes, NavNode{
		Label:  b.homeLabel,
		Href:   "/",
		Active: b.current == "/",
	})

	for _, level1 := range tags.Level1 {
		group, err := b.group(level1, b.level2For(tags, level1))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, group)
	}

	return nodes, nil
}

func (b *builder) level2For(tags Tags, level1 string) []string {
	if b.flat {
		return tags.Level2
	}

	return tags.Nested[level1]
}

func (b *builder) group(level1 string, level2Tags []string) (NavNode, error) {
	key := registry.SectionKey{Level1: level1}
	section, ok := b.snap.Section(key)
	if !ok {
		return NavNode{}, shellerrors.MissingSection(level1, "")
	}

	node := NavNode{
		Label:  section.Name,
		Href:   key.Path(),
		Active: b.current == key.Path(),
	}

	for _, level2 := range level2Tags {
		sub, err := b.subgroup(level1, level2)
		if err != nil {
			return NavNode{}, err
		}
		node.Expanded = node.Expanded || sub.Active || sub.Expanded
		node.Children = append(node.Children, sub)
	}

	return node, nil
}

func (b *builder) subgroup(level1, level2 string) (NavNode, error) {
	key := registry.SectionKey{Level1: level1, Level2: level2}
	section, ok := b.snap.Section(key)
	if !ok {
		return NavNode{}, shellerrors.MissingSection(level1, level2)
	}

	href := key.Path()
	prefix := href + "/"
	if b.flat {
		prefix = href
	}

	node := NavNode{
		Label:  section.Name,
		Href:   href,
		Active: b.current == href,
	}

	for _, page := range b.pages {
		if !strings.HasPrefix(page.Path, prefix) || page.Path == href {
			continue
		}
		leaf := NavNode{
			Label:  page.Name,
			Href:   page.Path,
			Active: b.current == page.Path,
		}
		node.Expanded = node.Expanded || leaf.Active
		node.Children = append(node.Children, leaf)
	}

	return node, nil
}

// Validate checks that every group the pages imply has section metadata.
// Unlike Build it reports every missing group, not just the first.
func Validate(snap *registry.Snapshot) error {
	tags := CollectTags(snap.Pages())

	var missing []error
	for _, level1 := range tags.Level1 {
		if _, ok := snap.Section(registry.SectionKey{Level1: level1}); !ok {
			missing = append(missing, shellerrors.MissingSection(level1, ""))
		}
		for _, level2 := range tags.Nested[level1] {
			if _, ok := snap.Section(registry.SectionKey{Level1: level1, Level2: level2}); !ok {
				missing = append(missing, shellerrors.MissingSection(level1, level2))
			}
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return &ValidationError{Missing: missing}
}

// ValidationError lists every group lacking section metadata.
type ValidationError struct {
	Missing []error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Missing))
	for i, err := range e.Missing {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Missing
}
