// Package bindings implements the shell's reactive callbacks: one UI input
// property mapped to one UI output property by a pure handler.
//
// The shell declares two bindings. Title sync maps the browser location to
// the header title; sidebar toggle maps the burger control to the drawer.
// Bindings run inside a Session, which processes the events of one browser
// tab strictly one after another.
package bindings

import (
	"context"
	"fmt"

	shellerrors "github.com/conneroisu/appshell/internal/errors"
	"github.com/conneroisu/appshell/internal/registry"
	"github.com/conneroisu/appshell/internal/types"
)

// NotFoundTitle is shown when no registered page matches the route.
const NotFoundTitle = "404"

// Event is one change of an input property reported by the browser.
type Event struct {
	Source types.Property
	Value  interface{}
	// Initial marks the value a control reports when the page first renders.
	Initial bool
}

// Update is one output property value produced by a binding.
type Update struct {
	Target types.Property
	Value  interface{}
}

// Handler computes the output value from the input value.
type Handler func(ctx context.Context, value interface{}) (interface{}, error)

// Binding connects one input property to one output property.
type Binding struct {
	Input          types.Property
	Output         types.Property
	PreventInitial bool
	Handle         Handler
}

// SnapshotSource provides the registry snapshot current at call time.
type SnapshotSource interface {
	Snapshot() *registry.Snapshot
}

// TitleFor returns the name of the page registered at path, or
// NotFoundTitle. It scans the pages in registration order.
func TitleFor(snap *registry.Snapshot, path string) string {
	for _, page := range snap.Pages() {
		if page.Path == path {
			return page.Name
		}
	}

	return NotFoundTitle
}

// SidebarOpened passes the burger state through to the drawer.
func SidebarOpened(opened bool) bool {
	return opened
}

// TitleSync builds the binding from the location pathname to the header title.
func TitleSync(source SnapshotSource) Binding {
	return Binding{
		Input:  types.Property{ID: types.LocationID, Name: types.PropPathname},
		Output: types.Property{ID: types.PageTitleID, Name: types.PropChildren},
		Handle: func(_ context.Context, value interface{}) (interface{}, error) {
			path, ok := value.(string)
			if !ok {
				return nil, invalidValue(types.LocationID, "string", value)
			}
			return TitleFor(source.Snapshot(), path), nil
		},
	}
}

// SidebarToggle builds the binding from the burger control to the drawer.
// The burger's initial value is ignored so the drawer starts closed. The
// drawer state machine records each applied value.
func SidebarToggle(drawer *Drawer) Binding {
	return Binding{
		Input:          types.Property{ID: types.BurgerID, Name: types.PropOpened},
		Output:         types.Property{ID: types.DrawerID, Name: types.PropOpened},
		PreventInitial: true,
		Handle: func(_ context.Context, value interface{}) (interface{}, error) {
			opened, ok := value.(bool)
			if !ok {
				return nil, invalidValue(types.BurgerID, "bool", value)
			}
			drawer.Apply(opened)
			return SidebarOpened(opened), nil
		},
	}
}

func invalidValue(id, want string, got interface{}) error {
	return shellerrors.NewValidationError(shellerrors.CodeInvalidEvent,
		fmt.Sprintf("%s expects a %s value, got %T", id, want, got))
}
