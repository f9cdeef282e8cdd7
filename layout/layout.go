// Package layout holds placement strategies. A strategy decides, slot by slot,
// whether a container's child is hidden, shown at a region, or shown and
// focused at a region.
package layout

import (
	"fmt"

	xp "github.com/BurntSushi/xgb/xproto"
)

// Mode is what a Cell asks the container engine to do with a slot.
type Mode int

const (
	// Hide unmaps the slot.
	Hide Mode = iota
	// Show places the slot at a region.
	Show
	// Focus places the slot and gives it focus.
	Focus
)

func (m Mode) String() string {
	switch m {
	case Hide:
		return "hide"
	case Show:
		return "show"
	case Focus:
		return "focus"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Cell is a strategy's placement decision for one slot. Rect is meaningless
// when Mode is Hide.
type Cell struct {
	Mode Mode
	Rect xp.Rectangle
}

// Hidden, Shown and Focused build cells.
func Hidden() Cell { return Cell{Mode: Hide} }
func Shown(r xp.Rectangle) Cell { return Cell{Mode: Show, Rect: r} }
func Focused(r xp.Rectangle) Cell { return Cell{Mode: Focus, Rect: r} }

func (c Cell) String() string {
	if c.Mode == Hide {
		return "hide"
	}
	return fmt.Sprintf("%v(%d,%d %dx%d)", c.Mode, c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)
}

// Layout places the slot at index among count slots within scope. The result
// must depend only on the arguments.
type Layout interface {
	Arrange(index, count int, focused bool, scope xp.Rectangle) Cell
}

// Monocle shows only the focused slot, over the whole scope.
type Monocle struct{}

// Arrange gives the focused slot all of scope and hides the rest.
func (Monocle) Arrange(_, _ int, focused bool, scope xp.Rectangle) Cell {
	if focused {
		return Focused(scope)
	}
	return Hidden()
}

// New returns the layout with the given name.
func New(name string) (Layout, error) {
	switch name {
	case "", "monocle":
		return Monocle{}, nil
	case "horizontal":
		return Horizontal{}, nil
	case "vertical":
		return Vertical{}, nil
	}
	return nil, fmt.Errorf("layout: unknown layout %q", name)
}
