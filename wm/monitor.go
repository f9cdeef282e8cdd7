package wm

import (
	"fmt"
	"sort"

	xp "github.com/BurntSushi/xgb/xproto"
)

// MonitorID identifies a monitor for as long as it stays connected. IDs are
// never reused.
type MonitorID uint32

func (id MonitorID) String() string { return fmt.Sprintf("m%d", uint32(id)) }

// Monitor is a connected output on a root window.
type Monitor struct {
	Root xp.Window
	Name string
	Rect xp.Rectangle
}

type monitorKey struct {
	root xp.Window
	name string
}

// Monitors tracks the connected outputs and reports changes as events.
type Monitors struct {
	h      handle
	byKey  map[monitorKey]MonitorID
	byID   map[MonitorID]*Monitor
	nextID MonitorID
}

func newMonitors(h handle) (*Monitors, error) {
	if err := h.x.WatchOutputs(); err != nil {
		return nil, fmt.Errorf("wm: selecting screen change notifications: %w", err)
	}
	m := &Monitors{
		h:      h,
		byKey:  make(map[monitorKey]MonitorID),
		byID:   make(map[MonitorID]*Monitor),
		nextID: 1,
	}
	if err := m.Update(); err != nil {
		return nil, err
	}
	return m, nil
}

// Update rediscovers the outputs. A new output produces MonitorConnect, a
// known one whose geometry changed produces MonitorTransform, the primary
// output produces MonitorPrimary, and outputs that have gone produce
// MonitorDisconnect.
func (m *Monitors) Update() error {
	outputs, err := m.h.x.Outputs()
	if err != nil {
		return fmt.Errorf("wm: discovering outputs: %w", err)
	}

	seen := make(map[MonitorID]bool, len(outputs))
	for _, o := range outputs {
		id := m.add(monitorKey{m.h.root, o.Name}, o.Rect)
		seen[id] = true
		if o.Primary {
			m.h.produce(MonitorPrimary{Monitor: id})
		}
	}

	var gone []MonitorID
	for id := range m.byID {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	sort.Slice(gone, func(i, j int) bool { return gone[i] < gone[j] })
	for _, id := range gone {
		mon := m.byID[id]
		delete(m.byKey, monitorKey{mon.Root, mon.Name})
		delete(m.byID, id)
		m.h.produce(MonitorDisconnect{Monitor: id})
	}
	return nil
}

func (m *Monitors) add(k monitorKey, r xp.Rectangle) MonitorID {
	if id, ok := m.byKey[k]; ok {
		mon := m.byID[id]
		if mon.Rect != r {
			mon.Rect = r
			m.h.produce(MonitorTransform{
				Monitor: id,
				X:       r.X,
				Y:       r.Y,
				Width:   r.Width,
				Height:  r.Height,
			})
		}
		return id
	}

	id := m.nextID
	m.nextID++
	m.byKey[k] = id
	m.byID[id] = &Monitor{Root: k.root, Name: k.name, Rect: r}
	m.h.produce(MonitorConnect{
		Monitor: id,
		X:       r.X,
		Y:       r.Y,
		Width:   r.Width,
		Height:  r.Height,
	})
	return id
}

// Get returns the monitor with the given id.
func (m *Monitors) Get(id MonitorID) (Monitor, bool) {
	mon, ok := m.byID[id]
	if !ok {
		return Monitor{}, false
	}
	return *mon, true
}

// All returns the connected monitors ordered by id.
func (m *Monitors) All() []MonitorID {
	ids := make([]MonitorID, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
