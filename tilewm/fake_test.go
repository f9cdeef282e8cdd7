package main

import (
	"fmt"
	"testing"

	"github.com/BurntSushi/xgb"
	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/tilewm/tilewm/keysym"
	"github.com/tilewm/tilewm/wm"
)

const (
	testRoot xp.Window = 1

	codeA      xp.Keycode = 8
	codeReturn xp.Keycode = 9
	codeQ      xp.Keycode = 10
	codeSuper  xp.Keycode = 11
)

var testScreen = xp.Rectangle{Width: 1920, Height: 1080}

// fakeConn is a scripted X server that records the requests policy code
// causes.
type fakeConn struct {
	calls   []string
	events  []xgb.Event
	outputs []wm.Output
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		outputs: []wm.Output{{Name: "DP-1", Rect: testScreen, Primary: true}},
	}
}

func (f *fakeConn) take() []string {
	c := f.calls
	f.calls = nil
	return c
}

func (f *fakeConn) push(events ...xgb.Event) { f.events = append(f.events, events...) }

func (f *fakeConn) Root() xp.Window { return testRoot }

func (f *fakeConn) Geometry(win xp.Window) (xp.Rectangle, error) {
	return testScreen, nil
}

func (f *fakeConn) BecomeWM() error { return nil }

func (f *fakeConn) MapWindow(win xp.Window) error {
	f.calls = append(f.calls, fmt.Sprintf("map %d", win))
	return nil
}

func (f *fakeConn) UnmapWindow(win xp.Window) error {
	f.calls = append(f.calls, fmt.Sprintf("unmap %d", win))
	return nil
}

func (f *fakeConn) ConfigureWindow(win xp.Window, r xp.Rectangle) error {
	f.calls = append(f.calls, fmt.Sprintf("configure %d %d,%d %dx%d", win, r.X, r.Y, r.Width, r.Height))
	return nil
}

func (f *fakeConn) SetInputFocus(win xp.Window) error {
	f.calls = append(f.calls, fmt.Sprintf("focus %d", win))
	return nil
}

func (f *fakeConn) GrabKey(xp.Window, uint16, xp.Keycode) error { return nil }

func (f *fakeConn) KeyboardMapping() (xp.Keycode, *xp.GetKeyboardMappingReply, error) {
	return codeA, &xp.GetKeyboardMappingReply{
		KeysymsPerKeycode: 1,
		Keysyms:           []xp.Keysym{'a', keysym.Return, 'q', keysym.SuperL},
	}, nil
}

func (f *fakeConn) ModifierMapping() (*xp.GetModifierMappingReply, error) {
	return &xp.GetModifierMappingReply{
		KeycodesPerModifier: 1,
		// Shift, Lock, Control, Mod1..Mod5.
		Keycodes: []xp.Keycode{0, 0, 0, 0, 0, 0, codeSuper, 0},
	}, nil
}

func (f *fakeConn) WatchOutputs() error { return nil }

func (f *fakeConn) Outputs() ([]wm.Output, error) {
	return append([]wm.Output(nil), f.outputs...), nil
}

func (f *fakeConn) WaitForEvent() (xgb.Event, error) {
	if len(f.events) == 0 {
		return nil, wm.ErrConnectionClosed
	}
	e := f.events[0]
	f.events = f.events[1:]
	return e, nil
}

func newTestPolicy(t *testing.T, f *fakeConn, cfg Config) (*policy, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	m, err := wm.New(f, log)
	require.NoError(t, err)
	p, err := newPolicy(m, cfg, log)
	require.NoError(t, err)
	pump(t, f, p)
	return p, hook
}

// pump handles events until both the manager's queue and the script are
// empty.
func pump(t *testing.T, f *fakeConn, p *policy) {
	t.Helper()
	for len(f.events) > 0 || p.m.Pending() > 0 {
		e, err := p.m.Next()
		require.NoError(t, err)
		if e != nil {
			require.NoError(t, p.handle(e))
		}
	}
}
