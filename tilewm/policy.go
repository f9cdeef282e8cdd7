package main

import (
	"fmt"

	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"

	"github.com/tilewm/tilewm/layout"
	"github.com/tilewm/tilewm/wm"
)

// policy decides where windows go. Managed windows are tiled under a single
// top-level layout that covers the primary monitor. Everything else is mapped
// where it asked to be.
type policy struct {
	m   *wm.Manager
	log logrus.FieldLogger

	top         wm.ContainerID
	layoutIndex int
	region      xp.Rectangle
	primary     wm.MonitorID

	bindings map[wm.Key]Binding
	quitting bool
}

func newPolicy(m *wm.Manager, cfg Config, log logrus.FieldLogger) (*policy, error) {
	p := &policy{
		m:        m,
		log:      log,
		bindings: map[wm.Key]Binding{},
	}

	p.layoutIndex = -1
	for i, name := range layouts {
		if name == cfg.Layout {
			p.layoutIndex = i
		}
	}
	if cfg.Layout == "" {
		p.layoutIndex = 0
	}
	if p.layoutIndex < 0 {
		return nil, fmt.Errorf("unknown layout %q", cfg.Layout)
	}
	s, err := layout.New(layouts[p.layoutIndex])
	if err != nil {
		return nil, err
	}
	if p.top, err = m.Container.InsertLayout(m.Container.Root(), s); err != nil {
		return nil, err
	}
	root, err := m.Container.Window(m.Container.Root())
	if err != nil {
		return nil, err
	}
	p.region = root.Rect()

	for _, b := range cfg.Bind {
		if err := p.bind(b); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *policy) bind(b Binding) error {
	if len(b.Exec) == 0 {
		if _, ok := actions[b.Action]; !ok {
			return fmt.Errorf("binding %q: unknown action %q", b.Keys, b.Action)
		}
	}
	phase, err := wm.ParsePhase(b.Press)
	if err != nil {
		return fmt.Errorf("binding %q: %w", b.Keys, err)
	}
	key, err := wm.ParseKey(b.Keys, phase)
	if err != nil {
		return fmt.Errorf("binding %q: %w", b.Keys, err)
	}
	if _, dup := p.bindings[key]; dup {
		p.log.WithField("key", key).Warn("duplicate binding ignored")
		return nil
	}
	if err := p.m.Keyboard.Bind(key); err != nil {
		return fmt.Errorf("binding %q: %w", b.Keys, err)
	}
	p.bindings[key] = b
	return nil
}

// loop handles events until a quit action runs or the connection fails.
func (p *policy) loop() error {
	for !p.quitting {
		e, err := p.m.Next()
		if err != nil {
			return err
		}
		if e == nil {
			continue
		}
		if err := p.handle(e); err != nil {
			p.log.WithError(err).WithField("event", e).Warn("could not handle event")
		}
	}
	return nil
}

func (p *policy) handle(e wm.Event) error {
	switch e := e.(type) {
	case wm.WindowCreate:
		p.log.WithField("event", e).Debug("window created")
	case wm.WindowResize:
		p.log.WithField("event", e).Debug("resize request ignored")
	case wm.WindowShow:
		return p.show(e.Window)
	case wm.WindowDestroy:
		if _, err := p.m.Container.Prune(e.Window); err != nil {
			return err
		}
		return p.arrange()
	case wm.Binding:
		return p.run(e.Key)
	case wm.MonitorConnect:
		if p.primary == 0 {
			return p.usePrimary(e.Monitor)
		}
	case wm.MonitorPrimary:
		if e.Monitor != p.primary {
			return p.usePrimary(e.Monitor)
		}
	case wm.MonitorTransform:
		if e.Monitor == p.primary {
			return p.usePrimary(e.Monitor)
		}
	case wm.MonitorDisconnect:
		if e.Monitor == p.primary {
			p.primary = 0
			if all := p.m.Monitors.All(); len(all) > 0 {
				return p.usePrimary(all[0])
			}
		}
	}
	return nil
}

func (p *policy) show(id wm.ContainerID) error {
	w, err := p.m.Container.Window(id)
	if err != nil {
		return err
	}
	if !w.Managed() {
		return p.m.Container.Show(id)
	}
	if parent, _ := p.m.Container.Parent(id); parent != p.top {
		if err := p.m.Container.Move(id, p.top); err != nil {
			return err
		}
	}
	if err := p.m.Container.Focus(id); err != nil {
		return err
	}
	return p.arrange()
}

func (p *policy) usePrimary(id wm.MonitorID) error {
	mon, ok := p.m.Monitors.Get(id)
	if !ok {
		return fmt.Errorf("unknown monitor %v", id)
	}
	p.primary, p.region = id, mon.Rect
	p.log.WithFields(logrus.Fields{"monitor": id, "name": mon.Name}).Info("tiling on monitor")
	return p.arrange()
}

func (p *policy) run(key wm.Key) error {
	b, ok := p.bindings[key]
	if !ok {
		return fmt.Errorf("no binding for %v", key)
	}
	if len(b.Exec) > 0 {
		doExec(p.log, b.Exec)
		return nil
	}
	a := actions[b.Action]
	return a.do(p, a.arg)
}

func (p *policy) arrange() error {
	return p.m.Container.ArrangeAt(p.top, p.region)
}
