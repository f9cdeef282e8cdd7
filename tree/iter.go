package tree

// Children iterates over a node's direct children in insertion order. It is
// single-use.
type Children[T any] struct {
	tree *Tree[T]
	next link
}

// Children returns an iterator over id's children. A stale id yields nothing.
func (t *Tree[T]) Children(id ID) *Children[T] {
	c := &Children[T]{tree: t}
	if n := t.node(id); n != nil {
		c.next = n.firstChild
	}
	return c
}

// Next returns the next child, or false when the children are exhausted.
func (c *Children[T]) Next() (ID, bool) {
	if !c.next.valid {
		return ID{}, false
	}
	id := c.next.id
	n := c.tree.node(id)
	if n == nil {
		c.next = link{}
		return ID{}, false
	}
	c.next = n.nextSibling
	return id, true
}

// Preorder iterates over a subtree, parents before descendants. It keeps a
// LIFO frontier seeded from each node's children, so a node's children are
// visited most-recently-inserted first. It is single-use.
type Preorder[T any] struct {
	tree  *Tree[T]
	stack []ID
}

// IterAt returns a preorder iterator over the subtree rooted at id.
func (t *Tree[T]) IterAt(id ID) *Preorder[T] {
	p := &Preorder[T]{tree: t}
	if t.Contains(id) {
		p.stack = append(p.stack, id)
	}
	return p
}

// Next returns the next node, or false when the subtree is exhausted.
func (p *Preorder[T]) Next() (ID, bool) {
	k := len(p.stack)
	if k == 0 {
		return ID{}, false
	}
	id := p.stack[k-1]
	p.stack = p.stack[:k-1]
	for it := p.tree.Children(id); ; {
		c, ok := it.Next()
		if !ok {
			break
		}
		p.stack = append(p.stack, c)
	}
	return id, true
}

// Collect drains a preorder iterator into a slice.
func (p *Preorder[T]) Collect() []ID {
	var ids []ID
	for {
		id, ok := p.Next()
		if !ok {
			return ids
		}
		ids = append(ids, id)
	}
}

// Each calls f for every live node in arena order, stopping early when f
// returns false. Nodes orphaned by Extract are included.
func (t *Tree[T]) Each(f func(id ID, value T) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.live {
			continue
		}
		if !f(ID{index: uint32(i), gen: s.gen}, s.node.value) {
			return
		}
	}
}
