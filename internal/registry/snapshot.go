package registry

import (
	"fmt"
	"strings"
)

// SectionKey identifies a navigation group. Level2 is empty for a
// top-level group.
type SectionKey struct {
	Level1 string `yaml:"level1" json:"level1"`
	Level2 string `yaml:"level2,omitempty" json:"level2,omitempty"`
}

// Path returns the group href, "/level1" or "/level1/level2".
func (k SectionKey) Path() string {
	if k.Level2 == "" {
		return "/" + k.Level1
	}

	return "/" + k.Level1 + "/" + k.Level2
}

// ModuleKey returns the registration key a host framework uses for the
// group's home page: pages.<a>.<a>_home or pages.<a>.<b>.<b>_home.
func (k SectionKey) ModuleKey() string {
	if k.Level2 == "" {
		return fmt.Sprintf("pages.%s.%s_home", k.Level1, k.Level1)
	}

	return fmt.Sprintf("pages.%s.%s.%s_home", k.Level1, k.Level2, k.Level2)
}

// Section carries the display metadata of a navigation group.
type Section struct {
	Name string `yaml:"name" json:"name"`
}

// Snapshot is an immutable view of the registry. Section metadata is
// resolved once, at construction.
type Snapshot struct {
	pages    []PageDescriptor
	byPath   map[string]int
	byModule map[string]int
	sections map[SectionKey]Section
}

// NewSnapshot builds a snapshot from pages in registration order and
// explicitly declared sections.
//
// A group's name comes from, in order: an explicit section, the page
// registered at exactly the group's path, the page registered under the
// group's module key.
func NewSnapshot(pages []PageDescriptor, sections map[SectionKey]Section) *Snapshot {
	s := &Snapshot{
		pages:    make([]PageDescriptor, len(pages)),
		byPath:   make(map[string]int, len(pages)),
		byModule: make(map[string]int),
		sections: make(map[SectionKey]Section, len(sections)),
	}
	copy(s.pages, pages)

	for i, page := range s.pages {
		if _, dup := s.byPath[page.Path]; !dup {
			s.byPath[page.Path] = i
		}
		if page.Module != "" {
			s.byModule[page.Module] = i
		}
	}

	for i, page := range s.pages {
		key, ok := homeKey(page.Path)
		if !ok {
			continue
		}
		if _, taken := s.sections[key]; !taken {
			s.sections[key] = Section{Name: s.pages[i].Name}
		}
	}

	for module, i := range s.byModule {
		key, ok := parseModuleKey(module)
		if !ok {
			continue
		}
		if _, taken := s.sections[key]; !taken {
			s.sections[key] = Section{Name: s.pages[i].Name}
		}
	}

	for k, v := range sections {
		s.sections[k] = v
	}

	return s
}

// Pages returns the pages in registration order. The slice is a copy.
func (s *Snapshot) Pages() []PageDescriptor {
	result := make([]PageDescriptor, len(s.pages))
	copy(result, s.pages)

	return result
}

// Len returns the number of pages.
func (s *Snapshot) Len() int {
	return len(s.pages)
}

// Find returns the first page registered at exactly path.
func (s *Snapshot) Find(path string) (PageDescriptor, bool) {
	i, ok := s.byPath[path]
	if !ok {
		return PageDescriptor{}, false
	}

	return s.pages[i], true
}

// LookupModule returns the page registered under a module key.
func (s *Snapshot) LookupModule(module string) (PageDescriptor, bool) {
	i, ok := s.byModule[module]
	if !ok {
		return PageDescriptor{}, false
	}

	return s.pages[i], true
}

// Section returns the metadata for a navigation group.
func (s *Snapshot) Section(key SectionKey) (Section, bool) {
	section, ok := s.sections[key]

	return section, ok
}

// homeKey maps "/a" to {a} and "/a/b" to {a, b}.
func homeKey(path string) (SectionKey, bool) {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	switch {
	case len(segments) == 1 && segments[0] != "":
		return SectionKey{Level1: segments[0]}, true
	case len(segments) == 2 && segments[0] != "" && segments[1] != "":
		return SectionKey{Level1: segments[0], Level2: segments[1]}, true
	default:
		return SectionKey{}, false
	}
}

// parseModuleKey is the inverse of SectionKey.ModuleKey.
func parseModuleKey(module string) (SectionKey, bool) {
	parts := strings.Split(module, ".")
	if len(parts) < 3 || parts[0] != "pages" {
		return SectionKey{}, false
	}

	switch len(parts) {
	case 3:
		if parts[2] == parts[1]+"_home" {
			return SectionKey{Level1: parts[1]}, true
		}
	case 4:
		if parts[3] == parts[2]+"_home" {
			return SectionKey{Level1: parts[1], Level2: parts[2]}, true
		}
	}

	return SectionKey{}, false
}
