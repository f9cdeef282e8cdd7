// Package tree implements an arena-backed n-ary tree.
//
// Nodes live in a slot arena and are addressed by an ID. Children of a node
// form a doubly-linked sibling list hanging off the node's first and last
// child links. Each slot carries a
// generation that is bumped when the slot is freed, so an ID held past its
// node's removal is detected instead of silently aliasing a new node.
package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID is returned when an ID does not name a live node.
	ErrInvalidID = errors.New("tree: invalid node id")
	// ErrSameTree is returned when grafting a tree into itself.
	ErrSameTree = errors.New("tree: cannot graft a tree into itself")
)

// ID identifies a node. The zero ID never names a node.
type ID struct {
	index uint32
	gen   uint32
}

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool { return id.gen == 0 }

func (id ID) String() string {
	return fmt.Sprintf("%d.%d", id.index, id.gen)
}

type link struct {
	id    ID
	valid bool
}

func some(id ID) link { return link{id: id, valid: true} }

type node[T any] struct {
	value T

	parent      link
	firstChild  link
	lastChild   link
	prevSibling link
	nextSibling link
}

type slot[T any] struct {
	node node[T]
	gen  uint32
	live bool
}

// Tree is an n-ary tree with a fixed root. The zero value is not usable; call
// New.
type Tree[T any] struct {
	root  ID
	slots []slot[T]
	free  []uint32
	len   int
}

// New returns a tree holding a single root node.
func New[T any](root T) *Tree[T] {
	t := &Tree[T]{}
	t.root = t.orphan(root)
	return t
}

// Root returns the root's ID. It is fixed for the tree's life.
func (t *Tree[T]) Root() ID { return t.root }

// Len returns the number of live nodes.
func (t *Tree[T]) Len() int { return t.len }

// Contains reports whether id names a live node of t.
func (t *Tree[T]) Contains(id ID) bool {
	return t.node(id) != nil
}

func (t *Tree[T]) node(id ID) *node[T] {
	if id.gen == 0 || int(id.index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return &s.node
}

// Get returns the value held by id.
func (t *Tree[T]) Get(id ID) (T, bool) {
	n := t.node(id)
	if n == nil {
		var zero T
		return zero, false
	}
	return n.value, true
}

// Ptr returns a pointer to the value held by id, or nil. The pointer is
// invalidated by the next insertion.
func (t *Tree[T]) Ptr(id ID) *T {
	n := t.node(id)
	if n == nil {
		return nil
	}
	return &n.value
}

// Set replaces the value held by id.
func (t *Tree[T]) Set(id ID, value T) error {
	n := t.node(id)
	if n == nil {
		return ErrInvalidID
	}
	n.value = value
	return nil
}

// Parent returns the parent of id. It reports false for the root, for stale
// IDs, and for nodes whose parent was extracted from under them.
func (t *Tree[T]) Parent(id ID) (ID, bool) {
	n := t.node(id)
	if n == nil || !n.parent.valid || t.node(n.parent.id) == nil {
		return ID{}, false
	}
	return n.parent.id, true
}

// orphan allocates an unattached node.
func (t *Tree[T]) orphan(value T) ID {
	var i uint32
	if k := len(t.free); k > 0 {
		i, t.free = t.free[k-1], t.free[:k-1]
	} else {
		i = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{})
	}
	s := &t.slots[i]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.live = true
	s.node = node[T]{value: value}
	t.len++
	return ID{index: i, gen: s.gen}
}

// adopt appends an orphan as the last child of parent.
func (t *Tree[T]) adopt(parent, orphan ID) {
	p := t.node(parent)
	o := t.node(orphan)
	o.parent = some(parent)
	o.prevSibling = p.lastChild
	o.nextSibling = link{}
	if p.lastChild.valid {
		t.node(p.lastChild.id).nextSibling = some(orphan)
	} else {
		p.firstChild = some(orphan)
	}
	p.lastChild = some(orphan)
}

// release frees id's slot and returns its node.
func (t *Tree[T]) release(id ID) node[T] {
	s := &t.slots[id.index]
	n := s.node
	s.node = node[T]{}
	s.live = false
	t.free = append(t.free, id.index)
	t.len--
	return n
}

// Insert appends value as the new last child of parent.
func (t *Tree[T]) Insert(parent ID, value T) (ID, error) {
	if t.node(parent) == nil {
		return ID{}, ErrInvalidID
	}
	id := t.orphan(value)
	t.adopt(parent, id)
	return id, nil
}

// unlink detaches id from its parent and siblings without touching its
// children.
func (t *Tree[T]) unlink(id ID) {
	n := t.node(id)
	var parent *node[T]
	if n.parent.valid {
		parent = t.node(n.parent.id)
	}
	if n.prevSibling.valid {
		t.node(n.prevSibling.id).nextSibling = n.nextSibling
	} else if parent != nil {
		parent.firstChild = n.nextSibling
	}
	if n.nextSibling.valid {
		t.node(n.nextSibling.id).prevSibling = n.prevSibling
	} else if parent != nil {
		parent.lastChild = n.prevSibling
	}
	n.parent, n.prevSibling, n.nextSibling = link{}, link{}, link{}
}

// Extract removes exactly one node and returns its value. Its siblings are
// relinked around it. Its children are not relocated: they stay in the arena
// with a parent that no longer exists, so callers must detach or account for
// them first.
func (t *Tree[T]) Extract(id ID) (T, error) {
	if t.node(id) == nil || id == t.root {
		var zero T
		return zero, ErrInvalidID
	}
	t.unlink(id)
	return t.release(id).value, nil
}

// discard frees id and its whole subtree without unlinking anything.
func (t *Tree[T]) discard(id ID) {
	for _, c := range t.ChildIDs(id) {
		t.discard(c)
	}
	t.release(id)
}

// Prune removes id together with its entire subtree and returns id's value.
// The descendants' values are dropped.
func (t *Tree[T]) Prune(id ID) (T, error) {
	if t.node(id) == nil || id == t.root {
		var zero T
		return zero, ErrInvalidID
	}
	for _, c := range t.ChildIDs(id) {
		t.discard(c)
	}
	return t.Extract(id)
}

// Remove detaches the subtree rooted at id and returns it as a new tree. The
// nodes are re-inserted into the new tree, so they have new IDs there.
func (t *Tree[T]) Remove(id ID) (*Tree[T], error) {
	if t.node(id) == nil || id == t.root {
		return nil, ErrInvalidID
	}
	children := t.ChildIDs(id)
	value, _ := t.Extract(id)
	out := New(value)
	for _, c := range children {
		if _, err := out.graft(t, c, out.root); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Graft moves the subtree rooted at from in other into t, as the last child
// of to. Every moved node gets a new ID in t; from and its descendants are no
// longer valid in other. It returns the new ID of from's value.
func (t *Tree[T]) Graft(other *Tree[T], from, to ID) (ID, error) {
	if other == t {
		return ID{}, ErrSameTree
	}
	if other.node(from) == nil || from == other.root || t.node(to) == nil {
		return ID{}, ErrInvalidID
	}
	return t.graft(other, from, to)
}

func (t *Tree[T]) graft(other *Tree[T], from, to ID) (ID, error) {
	children := other.ChildIDs(from)
	other.unlink(from)
	value := other.release(from).value
	id, err := t.Insert(to, value)
	if err != nil {
		return ID{}, err
	}
	for _, c := range children {
		if _, err := t.graft(other, c, id); err != nil {
			return ID{}, err
		}
	}
	return id, nil
}

// Move relinks the subtree rooted at id as the last child of parent. IDs are
// preserved. parent must not lie inside id's subtree.
func (t *Tree[T]) Move(id, parent ID) error {
	if t.node(id) == nil || id == t.root || t.node(parent) == nil {
		return ErrInvalidID
	}
	for p, ok := parent, true; ok; p, ok = t.Parent(p) {
		if p == id {
			return fmt.Errorf("tree: cannot move %v beneath itself", id)
		}
	}
	t.unlink(id)
	t.adopt(parent, id)
	return nil
}

// ChildIDs returns id's children in insertion order.
func (t *Tree[T]) ChildIDs(id ID) []ID {
	var ids []ID
	for it := t.Children(id); ; {
		c, ok := it.Next()
		if !ok {
			return ids
		}
		ids = append(ids, c)
	}
}
