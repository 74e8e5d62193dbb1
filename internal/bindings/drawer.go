package bindings

import "sync"

// DrawerState is the open/closed state of the sidebar drawer.
type DrawerState int

const (
	DrawerClosed DrawerState = iota
	DrawerOpen
)

// String returns the string representation of the DrawerState
func (s DrawerState) String() string {
	switch s {
	case DrawerClosed:
		return "closed"
	case DrawerOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Drawer tracks the sidebar state of one session. It starts closed and only
// the burger binding changes it.
type Drawer struct {
	mutex sync.RWMutex
	state DrawerState
}

// NewDrawer returns a closed drawer.
func NewDrawer() *Drawer {
	return &Drawer{state: DrawerClosed}
}

// Apply moves the drawer to the state the burger reports and returns it.
func (d *Drawer) Apply(opened bool) DrawerState {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if opened {
		d.state = DrawerOpen
	} else {
		d.state = DrawerClosed
	}

	return d.state
}

// State returns the current state.
func (d *Drawer) State() DrawerState {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return d.state
}

// IsOpen reports whether the drawer is open.
func (d *Drawer) IsOpen() bool {
	return d.State() == DrawerOpen
}
