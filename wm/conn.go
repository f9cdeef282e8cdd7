package wm

import (
	"github.com/BurntSushi/xgb"
	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"
)

// Conn is the protocol capability the engines consume. XConn implements it
// over a live X server.
type Conn interface {
	// Root is the root window of the managed screen.
	Root() xp.Window
	// Geometry queries a window's position and size.
	Geometry(win xp.Window) (xp.Rectangle, error)
	// BecomeWM selects substructure redirection on the root window. Only one
	// client may hold it; the server answers others with an AccessError.
	BecomeWM() error

	MapWindow(win xp.Window) error
	UnmapWindow(win xp.Window) error
	ConfigureWindow(win xp.Window, r xp.Rectangle) error
	SetInputFocus(win xp.Window) error
	// GrabKey passively grabs key with the given modifiers on win, in
	// asynchronous pointer and keyboard mode.
	GrabKey(win xp.Window, mods uint16, key xp.Keycode) error

	// KeyboardMapping returns the keysym table for every keycode, starting at
	// the returned first keycode.
	KeyboardMapping() (xp.Keycode, *xp.GetKeyboardMappingReply, error)
	ModifierMapping() (*xp.GetModifierMappingReply, error)

	// WatchOutputs asks for screen change notifications.
	WatchOutputs() error
	// Outputs lists the connected outputs.
	Outputs() ([]Output, error)

	// WaitForEvent blocks until the next notification. An xgb.Error is
	// returned for protocol errors the server reports asynchronously.
	WaitForEvent() (xgb.Event, error)
}

// Output is a connected monitor as reported by the server.
type Output struct {
	Name    string
	Rect    xp.Rectangle
	Primary bool
}

// handle is what every engine holds: the shared Conn for requests, the
// manager's queue for events, and a logger. Copies share all three. The
// manager alone owns the transport's lifetime.
type handle struct {
	x      Conn
	root   xp.Window
	events *queue
	log    logrus.FieldLogger
}

func (h handle) produce(e Event) {
	h.events.push(e)
}
