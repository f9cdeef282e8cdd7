package wm

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"
)

// Manager owns the X connection and the engines built on it, and turns X
// notifications into Events one at a time.
type Manager struct {
	x      Conn
	log    logrus.FieldLogger
	events *queue

	Container *Container
	Keyboard  *Keyboard
	Monitors  *Monitors
}

// New takes over window management on x's root window. It fails with
// ErrAlreadyRunning when another client already redirects the root's
// substructure.
func New(x Conn, log logrus.FieldLogger) (*Manager, error) {
	if err := x.BecomeWM(); err != nil {
		if errors.As(err, &xp.AccessError{}) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("wm: selecting substructure redirect: %w", err)
	}

	m := &Manager{
		x:      x,
		log:    log,
		events: &queue{},
	}
	h := handle{
		x:      x,
		root:   x.Root(),
		events: m.events,
		log:    log,
	}

	var err error
	if m.Container, err = newContainer(h); err != nil {
		return nil, err
	}
	if m.Monitors, err = newMonitors(h); err != nil {
		return nil, err
	}
	if m.Keyboard, err = newKeyboard(h); err != nil {
		return nil, err
	}
	return m, nil
}

// Connect dials display (the empty string means $DISPLAY), becomes its
// window manager and announces itself to clients.
func Connect(display string, log logrus.FieldLogger) (*Manager, error) {
	x, err := Dial(display, log)
	if err != nil {
		return nil, err
	}
	m, err := New(x, log)
	if err != nil {
		x.Close()
		return nil, err
	}
	if err := x.Announce("tilewm"); err != nil {
		log.WithError(err).Warn("could not announce the window manager")
	}
	return m, nil
}

// Root returns the managed root window.
func (m *Manager) Root() xp.Window { return m.x.Root() }

// Pending returns the number of queued events.
func (m *Manager) Pending() int { return m.events.len() }

// Next returns the next event. When none is queued it blocks for one X
// notification, handles it, and returns the first event that produced, or
// nil if it produced none. Events produced together are returned by
// successive calls without blocking.
func (m *Manager) Next() (Event, error) {
	if e, ok := m.events.pop(); ok {
		return e, nil
	}

	ev, err := m.x.WaitForEvent()
	if err != nil {
		var xerr xgb.Error
		if errors.As(err, &xerr) {
			m.log.WithError(err).Warn("X error")
			return nil, nil
		}
		return nil, err
	}
	if err := m.handle(ev); err != nil {
		return nil, err
	}

	if e, ok := m.events.pop(); ok {
		return e, nil
	}
	return nil, nil
}

func (m *Manager) handle(ev xgb.Event) error {
	switch e := ev.(type) {
	case xp.CreateNotifyEvent:
		m.Container.create(e)
	case xp.ConfigureRequestEvent:
		m.Container.configure(e)
	case xp.MapRequestEvent:
		m.Container.mapRequest(e)
	case xp.DestroyNotifyEvent:
		m.Container.destroy(e)
	case xp.KeyPressEvent:
		m.Keyboard.dispatch(e.Root, e.State, e.Detail, false)
	case xp.KeyReleaseEvent:
		m.Keyboard.dispatch(e.Root, e.State, e.Detail, true)
	case xp.MappingNotifyEvent:
		if e.Request == xp.MappingPointer {
			return nil
		}
		if err := m.Keyboard.refresh(); err != nil {
			return err
		}
	case randr.ScreenChangeNotifyEvent:
		if err := m.Monitors.Update(); err != nil {
			return err
		}
	default:
		m.log.WithField("event", ev).Debug("unhandled event")
	}
	return nil
}

// Close closes the X connection if the manager's Conn can be closed.
func (m *Manager) Close() error {
	if c, ok := m.x.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
