// Package registry holds the page registry: the ordered catalog of routable
// pages the shell derives its navigation and header title from.
//
// Pages keep registration order. Consumers never read the live registry;
// they take an immutable Snapshot and pass it explicitly to the navigation
// builder and the bindings.
package registry

import (
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"

	shellerrors "github.com/conneroisu/appshell/internal/errors"
)

// PageDescriptor describes one routable page.
type PageDescriptor struct {
	Path   string `yaml:"path" json:"path"`
	Name   string `yaml:"name" json:"name"`
	Module string `yaml:"module,omitempty" json:"module,omitempty"`

	// Content renders the page body inside the shell's content region.
	// Nil renders an empty region.
	Content templ.Component `yaml:"-" json:"-"`
}

// PageRegistry manages all registered pages
type PageRegistry struct {
	pages    []PageDescriptor
	index    map[string]int
	sections map[SectionKey]Section
	mutex    sync.RWMutex
	watchers []chan PageEvent
}

// PageEvent represents a change in the page registry
type PageEvent struct {
	Type      EventType
	Page      *PageDescriptor
	Timestamp time.Time
}

// EventType represents the type of page event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
	EventTypeReloaded
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	case EventTypeReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// NewPageRegistry creates a new page registry
func NewPageRegistry() *PageRegistry {
	return &PageRegistry{
		pages:    make([]PageDescriptor, 0),
		index:    make(map[string]int),
		sections: make(map[SectionKey]Section),
		watchers: make([]chan PageEvent, 0),
	}
}

// ValidatePage checks the shape of a descriptor without touching the registry.
func ValidatePage(page PageDescriptor) error {
	if !strings.HasPrefix(page.Path, "/") {
		return shellerrors.NewValidationError(shellerrors.CodeInvalidPath, "page path must start with /").
			WithPath(page.Path)
	}
	if strings.Contains(page.Path, "//") {
		return shellerrors.NewValidationError(shellerrors.CodeInvalidPath, "page path contains an empty segment").
			WithPath(page.Path)
	}
	if strings.TrimSpace(page.Name) == "" {
		return shellerrors.NewValidationError(shellerrors.CodeInvalidName, "page name must not be empty").
			WithPath(page.Path)
	}

	return nil
}

// Register adds a page, or replaces the page already registered at the same
// path while keeping its position.
func (r *PageRegistry) Register(page PageDescriptor) error {
	if err := ValidatePage(page); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if i, exists := r.index[page.Path]; exists {
		eventType = EventTypeUpdated
		r.pages[i] = page
	} else {
		r.index[page.Path] = len(r.pages)
		r.pages = append(r.pages, page)
	}

	r.notify(PageEvent{
		Type:      eventType,
		Page:      &page,
		Timestamp: time.Now(),
	})

	return nil
}

// RegisterSection names a navigation group explicitly.
func (r *PageRegistry) RegisterSection(key SectionKey, section Section) error {
	if key.Level1 == "" || strings.Contains(key.Level1, "/") || strings.Contains(key.Level2, "/") {
		return shellerrors.NewValidationError(shellerrors.CodeInvalidPath, "section key must be plain path segments").
			WithPath(key.Path())
	}
	if strings.TrimSpace(section.Name) == "" {
		return shellerrors.NewValidationError(shellerrors.CodeInvalidName, "section name must not be empty").
			WithPath(key.Path())
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sections[key] = section

	return nil
}

// Get retrieves a page by path
func (r *PageRegistry) Get(path string) (PageDescriptor, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	i, exists := r.index[path]
	if !exists {
		return PageDescriptor{}, false
	}

	return r.pages[i], true
}

// All returns all registered pages in registration order
func (r *PageRegistry) All() []PageDescriptor {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]PageDescriptor, len(r.pages))
	copy(result, r.pages)

	return result
}

// Remove removes a page from the registry
func (r *PageRegistry) Remove(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	i, exists := r.index[path]
	if !exists {
		return
	}

	page := r.pages[i]
	r.pages = append(r.pages[:i], r.pages[i+1:]...)
	r.reindex()

	r.notify(PageEvent{
		Type:      EventTypeRemoved,
		Page:      &page,
		Timestamp: time.Now(),
	})
}

// Replace swaps the whole registry contents in one step. Used when the page
// file is reloaded.
func (r *PageRegistry) Replace(pages []PageDescriptor, sections map[SectionKey]Section) error {
	seen := make(map[string]bool, len(pages))
	for _, page := range pages {
		if err := ValidatePage(page); err != nil {
			return err
		}
		if seen[page.Path] {
			return shellerrors.NewValidationError(shellerrors.CodeDuplicatePath, "path registered twice").
				WithPath(page.Path)
		}
		seen[page.Path] = true
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.pages = make([]PageDescriptor, len(pages))
	copy(r.pages, pages)
	r.reindex()

	r.sections = make(map[SectionKey]Section, len(sections))
	for k, v := range sections {
		r.sections[k] = v
	}

	r.notify(PageEvent{
		Type:      EventTypeReloaded,
		Timestamp: time.Now(),
	})

	return nil
}

// Snapshot returns an immutable view of the current contents.
func (r *PageRegistry) Snapshot() *Snapshot {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return NewSnapshot(r.pages, r.sections)
}

// Watch returns a channel that receives page events
func (r *PageRegistry) Watch() <-chan PageEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan PageEvent, 100)
	r.watchers = append(r.watchers, ch)

	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *PageRegistry) UnWatch(ch <-chan PageEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered pages
func (r *PageRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.pages)
}

// notify must be called with the write lock held.
func (r *PageRegistry) notify(event PageEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

func (r *PageRegistry) reindex() {
	r.index = make(map[string]int, len(r.pages))
	for i, page := range r.pages {
		r.index[page.Path] = i
	}
}
