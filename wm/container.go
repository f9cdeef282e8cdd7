package wm

import (
	"fmt"

	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"

	"github.com/tilewm/tilewm/layout"
	"github.com/tilewm/tilewm/tree"
)

// ContainerID addresses a container. It is only valid while the container is
// in the tree; a removed container's ID never aliases a later one.
type ContainerID struct {
	id tree.ID
}

// IsZero reports whether c is the zero ContainerID.
func (c ContainerID) IsZero() bool { return c.id.IsZero() }

func (c ContainerID) String() string { return "c" + c.id.String() }

// Container owns the window hierarchy. Its root is the X root window.
type Container struct {
	h       handle
	tree    *tree.Tree[Node]
	focused ContainerID
}

func newContainer(h handle) (*Container, error) {
	size, err := h.x.Geometry(h.root)
	if err != nil {
		return nil, fmt.Errorf("wm: querying root geometry: %w", err)
	}
	root := NewWindow(h.root, size, false, false)
	return &Container{
		h:    h,
		tree: tree.New[Node](root),
	}, nil
}

// Root returns the container of the X root window.
func (c *Container) Root() ContainerID {
	return ContainerID{c.tree.Root()}
}

// Node returns the node at id.
func (c *Container) Node(id ContainerID) (Node, error) {
	n, ok := c.tree.Get(id.id)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownContainer, id)
	}
	return n, nil
}

// Window returns the window node at id.
func (c *Container) Window(id ContainerID) (*Window, error) {
	n, err := c.Node(id)
	if err != nil {
		return nil, err
	}
	w, ok := n.(*Window)
	if !ok {
		return nil, &VariantError{ID: id, Want: WindowVariant}
	}
	return w, nil
}

// Layout returns the layout node at id.
func (c *Container) Layout(id ContainerID) (*Layout, error) {
	n, err := c.Node(id)
	if err != nil {
		return nil, err
	}
	l, ok := n.(*Layout)
	if !ok {
		return nil, &VariantError{ID: id, Want: LayoutVariant}
	}
	return l, nil
}

// Insert appends n as the last child of parent.
func (c *Container) Insert(parent ContainerID, n Node) (ContainerID, error) {
	id, err := c.tree.Insert(parent.id, n)
	if err != nil {
		return ContainerID{}, fmt.Errorf("%w: %v", ErrUnknownContainer, parent)
	}
	return ContainerID{id}, nil
}

// InsertLayout appends a layout node driven by s.
func (c *Container) InsertLayout(parent ContainerID, s layout.Layout) (ContainerID, error) {
	return c.Insert(parent, NewLayout(s))
}

// Parent returns id's parent container.
func (c *Container) Parent(id ContainerID) (ContainerID, bool) {
	p, ok := c.tree.Parent(id.id)
	return ContainerID{p}, ok
}

// Children returns id's children in insertion order.
func (c *Container) Children(id ContainerID) []ContainerID {
	ids := c.tree.ChildIDs(id.id)
	out := make([]ContainerID, len(ids))
	for i, x := range ids {
		out[i] = ContainerID{x}
	}
	return out
}

// Move relinks id's subtree as the last child of parent. IDs are kept.
func (c *Container) Move(id, parent ContainerID) error {
	return c.tree.Move(id.id, parent.id)
}

// Prune removes id and its whole subtree, returning id's node.
func (c *Container) Prune(id ContainerID) (Node, error) {
	if err := c.removable(id); err != nil {
		return nil, err
	}
	c.forget(id)
	return c.tree.Prune(id.id)
}

// Extract removes id alone, returning its node. id must have no children.
func (c *Container) Extract(id ContainerID) (Node, error) {
	if err := c.removable(id); err != nil {
		return nil, err
	}
	if len(c.tree.ChildIDs(id.id)) != 0 {
		return nil, fmt.Errorf("wm: container %v still has children", id)
	}
	c.forget(id)
	return c.tree.Extract(id.id)
}

func (c *Container) removable(id ContainerID) error {
	if !c.tree.Contains(id.id) {
		return fmt.Errorf("%w: %v", ErrUnknownContainer, id)
	}
	if id == c.Root() {
		return fmt.Errorf("wm: the root container cannot be removed")
	}
	return nil
}

// forget drops the input focus record if it lies inside id's subtree.
func (c *Container) forget(id ContainerID) {
	for it := c.tree.IterAt(id.id); ; {
		x, ok := it.Next()
		if !ok {
			return
		}
		if x == c.focused.id {
			c.focused = ContainerID{}
			return
		}
	}
}

// Lookup finds the window container for an X window.
func (c *Container) Lookup(xWin xp.Window) (ContainerID, bool) {
	var found ContainerID
	// Each also visits nodes detached by tree.Extract. Extract here refuses
	// nodes with children, so no window is ever orphaned that way.
	c.tree.Each(func(id tree.ID, n Node) bool {
		if w, ok := n.(*Window); ok && w.xWin == xWin {
			found = ContainerID{id}
			return false
		}
		return true
	})
	return found, !found.IsZero()
}

// Focus records id as the focused container: every layout on the path from id
// to the root remembers which of its children leads to id. ArrangeAt applies
// it.
func (c *Container) Focus(id ContainerID) error {
	if !c.tree.Contains(id.id) {
		return fmt.Errorf("%w: %v", ErrUnknownContainer, id)
	}
	child := id
	for {
		parent, ok := c.Parent(child)
		if !ok {
			return nil
		}
		if l, ok := c.tree.Get(parent.id); ok {
			if l, ok := l.(*Layout); ok {
				l.focus = child
			}
		}
		child = parent
	}
}

// Focused returns the window that was last given input focus.
func (c *Container) Focused() (ContainerID, bool) {
	return c.focused, !c.focused.IsZero() && c.tree.Contains(c.focused.id)
}

// ArrangeAt places id's descendants within r. Every layout passes its
// remembered child, or its first child if it has none, to its strategy as the
// focused slot. Input focus goes to the window at the end of that chain from
// id; a focused slot off the chain is only shown.
func (c *Container) ArrangeAt(id ContainerID, r xp.Rectangle) error {
	if !c.tree.Contains(id.id) {
		return fmt.Errorf("%w: %v", ErrUnknownContainer, id)
	}
	return c.arrange(id, r, true)
}

func (c *Container) arrange(id ContainerID, r xp.Rectangle, active bool) error {
	n, _ := c.tree.Get(id.id)
	l, ok := n.(*Layout)
	if !ok {
		return nil
	}

	// The strategy needs the final count up front.
	children := c.Children(id)
	count := len(children)
	focus := ContainerID{}
	for _, child := range children {
		if child == l.focus {
			focus = child
			break
		}
	}
	if focus.IsZero() && count > 0 {
		focus = children[0]
	}

	cells := make([]layout.Cell, count)
	for i, child := range children {
		cells[i] = l.Strategy.Arrange(i, count, child == focus, r)
	}
	for i, child := range children {
		if err := c.apply(child, cells[i], active); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) apply(id ContainerID, cell layout.Cell, active bool) error {
	n, _ := c.tree.Get(id.id)
	switch n := n.(type) {
	case *Window:
		switch cell.Mode {
		case layout.Hide:
			return c.hideWindow(id, n)
		case layout.Show, layout.Focus:
			if err := n.resize(c.h.x, cell.Rect); err != nil {
				return err
			}
			if cell.Mode == layout.Focus && active {
				if err := c.focusWindow(id, n); err != nil {
					return err
				}
			}
			return n.show(c.h.x)
		}
	case *Layout:
		switch cell.Mode {
		case layout.Hide:
			return c.Hide(id)
		case layout.Show:
			return c.arrange(id, cell.Rect, false)
		case layout.Focus:
			return c.arrange(id, cell.Rect, active)
		}
	}
	return fmt.Errorf("wm: cannot apply %v to container %v (%T)", cell, id, n)
}

func (c *Container) focusWindow(id ContainerID, w *Window) error {
	if c.focused == id {
		return nil
	}
	if err := c.h.x.SetInputFocus(w.xWin); err != nil {
		return err
	}
	c.focused = id
	return nil
}

func (c *Container) hideWindow(id ContainerID, w *Window) error {
	if err := w.hide(c.h.x); err != nil {
		return err
	}
	if c.focused == id {
		c.focused = ContainerID{}
	}
	return nil
}

// Show maps every window in id's subtree that is not already mapped.
func (c *Container) Show(id ContainerID) error {
	return c.each(id, func(_ ContainerID, w *Window) error {
		return w.show(c.h.x)
	})
}

// Hide unmaps every window in id's subtree that is currently mapped.
func (c *Container) Hide(id ContainerID) error {
	return c.each(id, c.hideWindow)
}

// each calls f for every window in id's subtree, in preorder. Layout nodes
// are skipped.
func (c *Container) each(id ContainerID, f func(ContainerID, *Window) error) error {
	if !c.tree.Contains(id.id) {
		return fmt.Errorf("%w: %v", ErrUnknownContainer, id)
	}
	for _, x := range c.tree.IterAt(id.id).Collect() {
		n, _ := c.tree.Get(x)
		switch n := n.(type) {
		case *Window:
			if err := f(ContainerID{x}, n); err != nil {
				return err
			}
		case *Layout:
		}
	}
	return nil
}

func (c *Container) create(e xp.CreateNotifyEvent) {
	parent, ok := c.Lookup(e.Parent)
	if !ok {
		parent = c.Root()
	}
	rect := xp.Rectangle{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
	id, err := c.Insert(parent, NewWindow(e.Window, rect, !e.OverrideRedirect, true))
	if err != nil {
		// Lookup and Root only return live containers.
		c.h.log.WithError(err).Error("inserting created window")
		return
	}
	c.h.produce(WindowCreate{
		Window: id,
		X:      e.X,
		Y:      e.Y,
		Width:  e.Width,
		Height: e.Height,
	})
}

func (c *Container) configure(e xp.ConfigureRequestEvent) {
	id, ok := c.Lookup(e.Window)
	if !ok {
		c.unknown("configure", e.Window)
		return
	}
	c.h.produce(WindowResize{
		Window: id,
		X:      e.X,
		Y:      e.Y,
		Width:  e.Width,
		Height: e.Height,
	})
}

func (c *Container) mapRequest(e xp.MapRequestEvent) {
	id, ok := c.Lookup(e.Window)
	if !ok {
		c.unknown("map", e.Window)
		return
	}
	// The server only redirects map requests for unmapped windows, so the
	// client unmapped it itself since we last showed it.
	if w, err := c.Window(id); err == nil {
		w.visible = false
	}
	c.h.produce(WindowShow{Window: id})
}

func (c *Container) destroy(e xp.DestroyNotifyEvent) {
	id, ok := c.Lookup(e.Window)
	if !ok {
		c.unknown("destroy", e.Window)
		return
	}
	if c.focused == id {
		c.focused = ContainerID{}
	}
	c.h.produce(WindowDestroy{Window: id})
}

func (c *Container) unknown(what string, xWin xp.Window) {
	c.h.log.WithFields(logrus.Fields{
		"request": what,
		"window":  xWin,
	}).Warn("notification for unknown window dropped")
}
