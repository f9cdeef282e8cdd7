package wm

import (
	xp "github.com/BurntSushi/xgb/xproto"

	"github.com/tilewm/tilewm/layout"
)

// Node is a container tree node: either a *Window or a *Layout.
type Node interface {
	variant() Variant
}

// Window is a leaf container wrapping an X window.
type Window struct {
	xWin       xp.Window
	rect       xp.Rectangle
	visible    bool
	managed    bool
	selectable bool
}

// NewWindow returns a window node for xWin with a cached geometry of rect.
// The window starts unmapped.
func NewWindow(xWin xp.Window, rect xp.Rectangle, managed, selectable bool) *Window {
	return &Window{
		xWin:       xWin,
		rect:       rect,
		managed:    managed,
		selectable: selectable,
	}
}

func (*Window) variant() Variant { return WindowVariant }

func (w *Window) XWindow() xp.Window { return w.xWin }
func (w *Window) Rect() xp.Rectangle { return w.rect }
func (w *Window) Visible() bool { return w.visible }
func (w *Window) Managed() bool { return w.managed }
func (w *Window) Selectable() bool { return w.selectable }

// show maps w unless it is already visible.
func (w *Window) show(x Conn) error {
	if w.visible {
		return nil
	}
	if err := x.MapWindow(w.xWin); err != nil {
		return err
	}
	w.visible = true
	return nil
}

// hide unmaps w unless it is already hidden.
func (w *Window) hide(x Conn) error {
	if !w.visible {
		return nil
	}
	if err := x.UnmapWindow(w.xWin); err != nil {
		return err
	}
	w.visible = false
	return nil
}

// resize configures w to r unless that is already its geometry.
func (w *Window) resize(x Conn, r xp.Rectangle) error {
	if w.rect == r {
		return nil
	}
	if err := x.ConfigureWindow(w.xWin, r); err != nil {
		return err
	}
	w.rect = r
	return nil
}

// Layout is an interior container whose children are placed by a strategy.
// It remembers which child holds focus within it.
type Layout struct {
	Strategy layout.Layout
	focus    ContainerID
}

// NewLayout returns a layout node driven by s.
func NewLayout(s layout.Layout) *Layout {
	return &Layout{Strategy: s}
}

func (*Layout) variant() Variant { return LayoutVariant }

// FocusedChild returns the child last focused through this layout.
func (l *Layout) FocusedChild() (ContainerID, bool) {
	return l.focus, !l.focus.IsZero()
}
