package wm

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tilewm/tilewm/keysym"
)

const (
	testRoot xp.Window = 1

	// Keycodes of the fake keyboard.
	codeA      xp.Keycode = 8
	codeB      xp.Keycode = 9
	codeReturn xp.Keycode = 10
	codeNum    xp.Keycode = 11
	codeCaps   xp.Keycode = 12
	codeScroll xp.Keycode = 13
	codeA2     xp.Keycode = 14
	codeSuper  xp.Keycode = 15
)

var testScreen = xp.Rectangle{Width: 1920, Height: 1080}

// call is one request recorded by fakeConn.
type call struct {
	Op   string
	Win  xp.Window
	Rect xp.Rectangle
	Mods uint16
	Key  xp.Keycode
}

func (c call) String() string {
	switch c.Op {
	case "configure":
		return fmt.Sprintf("configure %d %d,%d %dx%d", c.Win, c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)
	case "grab":
		return fmt.Sprintf("grab %d %#x %d", c.Win, c.Mods, c.Key)
	}
	return fmt.Sprintf("%s %d", c.Op, c.Win)
}

// fakeConn is an in-memory X server. It records requests and replays
// scripted notifications.
type fakeConn struct {
	calls  []call
	events []xgb.Event
	errs   []error

	becomeErr error
	// grabErr is returned by the grab numbered failGrab, counting from 1.
	grabErr  error
	failGrab int
	grabs    int

	keysyms []xp.Keysym
	modmap  []xp.Keycode
	outputs []Output
	watched bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		// Two keysyms per keycode, starting at keycode 8.
		keysyms: []xp.Keysym{
			'a', 'A',             // 8
			'b', 'B',             // 9
			keysym.Return, 0,     // 10
			keysym.NumLock, 0,    // 11
			keysym.CapsLock, 0,   // 12
			keysym.ScrollLock, 0, // 13
			'a', 'A',             // 14
			keysym.SuperL, 0,     // 15
		},
		// Two keycodes per modifier: Shift, Lock, Control, Mod1..Mod5.
		modmap: []xp.Keycode{
			0, 0,
			codeCaps, 0,
			0, 0,
			0, 0,
			codeNum, 0,
			0, 0,
			codeSuper, 0,
			codeScroll, 0,
		},
		outputs: []Output{{Name: "DP-1", Rect: testScreen, Primary: true}},
	}
}

func (f *fakeConn) record(c call) { f.calls = append(f.calls, c) }

// take returns and forgets the recorded requests.
func (f *fakeConn) take() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.String()
	}
	f.calls = nil
	return out
}

func (f *fakeConn) push(events ...xgb.Event) {
	f.events = append(f.events, events...)
}

func (f *fakeConn) Root() xp.Window { return testRoot }

func (f *fakeConn) Geometry(win xp.Window) (xp.Rectangle, error) {
	if win != testRoot {
		return xp.Rectangle{}, xp.WindowError{BadValue: uint32(win)}
	}
	return testScreen, nil
}

func (f *fakeConn) BecomeWM() error { return f.becomeErr }

func (f *fakeConn) MapWindow(win xp.Window) error {
	f.record(call{Op: "map", Win: win})
	return nil
}

func (f *fakeConn) UnmapWindow(win xp.Window) error {
	f.record(call{Op: "unmap", Win: win})
	return nil
}

func (f *fakeConn) ConfigureWindow(win xp.Window, r xp.Rectangle) error {
	f.record(call{Op: "configure", Win: win, Rect: r})
	return nil
}

func (f *fakeConn) SetInputFocus(win xp.Window) error {
	f.record(call{Op: "focus", Win: win})
	return nil
}

func (f *fakeConn) GrabKey(win xp.Window, mods uint16, key xp.Keycode) error {
	f.grabs++
	if f.grabs == f.failGrab {
		return f.grabErr
	}
	f.record(call{Op: "grab", Win: win, Mods: mods, Key: key})
	return nil
}

func (f *fakeConn) KeyboardMapping() (xp.Keycode, *xp.GetKeyboardMappingReply, error) {
	return 8, &xp.GetKeyboardMappingReply{
		KeysymsPerKeycode: 2,
		Keysyms:           f.keysyms,
	}, nil
}

func (f *fakeConn) ModifierMapping() (*xp.GetModifierMappingReply, error) {
	return &xp.GetModifierMappingReply{
		KeycodesPerModifier: byte(len(f.modmap) / 8),
		Keycodes:            f.modmap,
	}, nil
}

func (f *fakeConn) WatchOutputs() error {
	f.watched = true
	return nil
}

func (f *fakeConn) Outputs() ([]Output, error) {
	return append([]Output(nil), f.outputs...), nil
}

// WaitForEvent replays scripted errors first, then events. With nothing left
// the connection counts as closed.
func (f *fakeConn) WaitForEvent() (xgb.Event, error) {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	if len(f.events) == 0 {
		return nil, ErrConnectionClosed
	}
	e := f.events[0]
	f.events = f.events[1:]
	return e, nil
}

var errGrab = errors.New("grab refused")

func newTestHandle(f *fakeConn) (handle, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return handle{
		x:      f,
		root:   testRoot,
		events: &queue{},
		log:    log,
	}, hook
}

// drain pops every queued event.
func drain(q *queue) []Event {
	var out []Event
	for {
		e, ok := q.pop()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}
