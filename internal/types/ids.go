// Package types provides identifiers shared by the shell layout, the
// bindings and the websocket protocol.
package types

// Element IDs rendered into the shell document.
const (
	// BurgerID is the header control that opens and closes the drawer.
	BurgerID = "burger-button"
	// DrawerID is the sidebar panel holding the navigation tree.
	DrawerID = "sidebar-drawer"
	// PageTitleID is the centered header title kept in sync with the route.
	PageTitleID = "header-page-name"
	// LocationID identifies the browser location as an event source.
	LocationID = "url"
	// WrapperID is the content region container.
	WrapperID = "wrapper"
)

// Property names carried by events and updates.
const (
	PropOpened   = "opened"
	PropPathname = "pathname"
	PropChildren = "children"
)

// Property addresses one property of one element.
type Property struct {
	ID   string `json:"id"`
	Name string `json:"property"`
}

// String returns the "id.property" form used in logs and metric labels.
func (p Property) String() string {
	return p.ID + "." + p.Name
}
