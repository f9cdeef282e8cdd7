package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/sirupsen/logrus"
)

// XConn is a Conn backed by a live X server.
type XConn struct {
	conn     *xgb.Conn
	screen   *xp.ScreenInfo
	setup    *xp.SetupInfo
	xinerama bool
	log      logrus.FieldLogger

	// xu is set by Announce.
	xu *xgbutil.XUtil
}

// Dial connects to display. RandR is required; Xinerama is used when RandR
// reports no usable outputs.
func Dial(display string, log logrus.FieldLogger) (*XConn, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("wm: connecting to X: %w", err)
	}
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("wm: initializing RandR: %w", err)
	}
	c := &XConn{
		conn: conn,
		log:  log,
	}
	if err := xinerama.Init(conn); err != nil {
		log.WithError(err).Debug("Xinerama unavailable")
	} else {
		c.xinerama = true
	}

	c.setup = xp.Setup(conn)
	if len(c.setup.Roots) != 1 {
		log.WithField("roots", len(c.setup.Roots)).Warn("managing the default screen only")
	}
	c.screen = c.setup.DefaultScreen(conn)
	return c, nil
}

// Root returns the default screen's root window.
func (c *XConn) Root() xp.Window { return c.screen.Root }

// Geometry queries win's position and size.
func (c *XConn) Geometry(win xp.Window) (xp.Rectangle, error) {
	g, err := xp.GetGeometry(c.conn, xp.Drawable(win)).Reply()
	if err != nil {
		return xp.Rectangle{}, err
	}
	return xp.Rectangle{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}, nil
}

// BecomeWM selects substructure redirection and notification on the root.
func (c *XConn) BecomeWM() error {
	return xp.ChangeWindowAttributesChecked(c.conn, c.screen.Root, xp.CwEventMask, []uint32{
		xp.EventMaskStructureNotify |
			xp.EventMaskPropertyChange |
			xp.EventMaskSubstructureNotify |
			xp.EventMaskSubstructureRedirect,
	}).Check()
}

// MapWindow maps win.
func (c *XConn) MapWindow(win xp.Window) error {
	return xp.MapWindowChecked(c.conn, win).Check()
}

// UnmapWindow unmaps win.
func (c *XConn) UnmapWindow(win xp.Window) error {
	return xp.UnmapWindowChecked(c.conn, win).Check()
}

// ConfigureWindow moves and resizes win to r.
func (c *XConn) ConfigureWindow(win xp.Window, r xp.Rectangle) error {
	return xp.ConfigureWindowChecked(
		c.conn,
		win,
		xp.ConfigWindowX|xp.ConfigWindowY|xp.ConfigWindowWidth|xp.ConfigWindowHeight,
		[]uint32{
			uint32(r.X),
			uint32(r.Y),
			uint32(r.Width),
			uint32(r.Height),
		},
	).Check()
}

// SetInputFocus focuses win and updates _NET_ACTIVE_WINDOW once announced.
func (c *XConn) SetInputFocus(win xp.Window) error {
	err := xp.SetInputFocusChecked(c.conn, xp.InputFocusPointerRoot, win, xp.TimeCurrentTime).Check()
	if err != nil {
		return err
	}
	if c.xu != nil {
		if err := ewmh.ActiveWindowSet(c.xu, win); err != nil {
			c.log.WithError(err).Debug("could not set _NET_ACTIVE_WINDOW")
		}
	}
	return nil
}

// GrabKey grabs key with mods on win.
func (c *XConn) GrabKey(win xp.Window, mods uint16, key xp.Keycode) error {
	return xp.GrabKeyChecked(c.conn, true, win, mods, key,
		xp.GrabModeAsync, xp.GrabModeAsync).Check()
}

// KeyboardMapping fetches keysyms for every keycode the server reports.
func (c *XConn) KeyboardMapping() (xp.Keycode, *xp.GetKeyboardMappingReply, error) {
	lo, hi := c.setup.MinKeycode, c.setup.MaxKeycode
	km, err := xp.GetKeyboardMapping(c.conn, lo, byte(hi-lo+1)).Reply()
	if err != nil {
		return 0, nil, err
	}
	return lo, km, nil
}

// ModifierMapping fetches the keycodes bound to each modifier.
func (c *XConn) ModifierMapping() (*xp.GetModifierMappingReply, error) {
	return xp.GetModifierMapping(c.conn).Reply()
}

// WatchOutputs selects RandR screen, output and CRTC notifications.
func (c *XConn) WatchOutputs() error {
	return randr.SelectInputChecked(c.conn, c.screen.Root,
		randr.NotifyMaskScreenChange|
			randr.NotifyMaskOutputChange|
			randr.NotifyMaskCrtcChange|
			randr.NotifyMaskOutputProperty,
	).Check()
}

// Outputs lists connected RandR outputs that drive a CRTC. Without any, it
// falls back to Xinerama screens and then to the whole root window.
func (c *XConn) Outputs() ([]Output, error) {
	outputs, err := c.randrOutputs()
	if err != nil {
		return nil, err
	}
	if len(outputs) > 0 {
		return outputs, nil
	}

	if c.xinerama {
		xine, err := xinerama.QueryScreens(c.conn).Reply()
		if err != nil {
			return nil, err
		}
		for i, si := range xine.ScreenInfo {
			outputs = append(outputs, Output{
				Name: fmt.Sprintf("xinerama-%d", i),
				Rect: xp.Rectangle{
					X:      si.XOrg,
					Y:      si.YOrg,
					Width:  si.Width,
					Height: si.Height,
				},
				Primary: i == 0,
			})
		}
		if len(outputs) > 0 {
			return outputs, nil
		}
	}

	return []Output{{
		Name: "screen",
		Rect: xp.Rectangle{
			Width:  c.screen.WidthInPixels,
			Height: c.screen.HeightInPixels,
		},
		Primary: true,
	}}, nil
}

func (c *XConn) randrOutputs() ([]Output, error) {
	root := c.screen.Root
	res, err := randr.GetScreenResourcesCurrent(c.conn, root).Reply()
	if err != nil {
		return nil, err
	}
	primary, err := randr.GetOutputPrimary(c.conn, root).Reply()
	if err != nil {
		return nil, err
	}

	var outputs []Output
	for _, o := range res.Outputs {
		info, err := randr.GetOutputInfo(c.conn, o, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, err
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(c.conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{
			Name: string(info.Name),
			Rect: xp.Rectangle{
				X:      crtc.X,
				Y:      crtc.Y,
				Width:  crtc.Width,
				Height: crtc.Height,
			},
			Primary: o == primary.Output,
		})
	}
	return outputs, nil
}

// WaitForEvent blocks for the next event or asynchronous error.
func (c *XConn) WaitForEvent() (xgb.Event, error) {
	ev, xerr := c.conn.WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, ErrConnectionClosed
	}
	if xerr != nil {
		return nil, xerr
	}
	return ev, nil
}

// Announce publishes the EWMH supporting-WM-check window, the window
// manager's name and the hints it understands.
func (c *XConn) Announce(name string) error {
	xu, err := xgbutil.NewConnXgb(c.conn)
	if err != nil {
		return fmt.Errorf("wm: creating xgbutil connection: %w", err)
	}
	check, err := xp.NewWindowId(c.conn)
	if err != nil {
		return err
	}
	if err := xp.CreateWindowChecked(
		c.conn, 0, check, c.screen.Root,
		-1, -1, 1, 1, 0,
		xp.WindowClassInputOnly,
		0,
		xp.CwOverrideRedirect,
		[]uint32{1},
	).Check(); err != nil {
		return err
	}

	root := c.screen.Root
	for _, win := range []xp.Window{root, check} {
		if err := ewmh.SupportingWmCheckSet(xu, win, check); err != nil {
			return err
		}
	}
	if err := ewmh.WmNameSet(xu, check, name); err != nil {
		return err
	}
	if err := ewmh.SupportedSet(xu, []string{
		"_NET_SUPPORTED",
		"_NET_SUPPORTING_WM_CHECK",
		"_NET_WM_NAME",
		"_NET_ACTIVE_WINDOW",
	}); err != nil {
		return err
	}
	c.xu = xu
	return nil
}

// Close closes the connection to the X server.
func (c *XConn) Close() error {
	c.conn.Close()
	return nil
}
