package wm

import (
	"testing"

	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilewm/tilewm/layout"
)

func newTestContainer(t *testing.T) (*Container, *fakeConn) {
	t.Helper()
	f := newFakeConn()
	h, _ := newTestHandle(f)
	c, err := newContainer(h)
	require.NoError(t, err)
	return c, f
}

func insertWindows(t *testing.T, c *Container, parent ContainerID, xWins ...xp.Window) []ContainerID {
	t.Helper()
	ids := make([]ContainerID, len(xWins))
	for i, xWin := range xWins {
		id, err := c.Insert(parent, NewWindow(xWin, xp.Rectangle{}, true, true))
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

// recorder wraps a strategy and logs its calls.
type recorder struct {
	layout.Layout
	calls [][2]int
}

func (r *recorder) Arrange(index, count int, focused bool, scope xp.Rectangle) layout.Cell {
	r.calls = append(r.calls, [2]int{index, count})
	return r.Layout.Arrange(index, count, focused, scope)
}

func TestRootContainer(t *testing.T) {
	c, _ := newTestContainer(t)

	w, err := c.Window(c.Root())
	require.NoError(t, err)
	assert.Equal(t, testRoot, w.XWindow())
	assert.Equal(t, testScreen, w.Rect())
	assert.False(t, w.Managed())
	assert.False(t, w.Selectable())

	_, err = c.Layout(c.Root())
	var verr *VariantError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, LayoutVariant, verr.Want)
	assert.Equal(t, c.Root(), verr.ID)
}

func TestArrangeSingleFocus(t *testing.T) {
	c, f := newTestContainer(t)
	l, err := c.InsertLayout(c.Root(), layout.Monocle{})
	require.NoError(t, err)
	insertWindows(t, c, l, 101, 102, 103)

	r := xp.Rectangle{X: 10, Y: 20, Width: 800, Height: 600}
	require.NoError(t, c.ArrangeAt(l, r))
	assert.Equal(t, []string{
		"configure 101 10,20 800x600",
		"focus 101",
		"map 101",
	}, f.take())

	require.NoError(t, c.ArrangeAt(l, r))
	assert.Empty(t, f.take())
}

func TestArrangeFollowsFocus(t *testing.T) {
	c, f := newTestContainer(t)
	l, err := c.InsertLayout(c.Root(), layout.Monocle{})
	require.NoError(t, err)
	ws := insertWindows(t, c, l, 101, 102, 103)

	require.NoError(t, c.ArrangeAt(l, testScreen))
	f.take()

	require.NoError(t, c.Focus(ws[1]))
	require.NoError(t, c.ArrangeAt(l, testScreen))
	assert.Equal(t, []string{
		"unmap 101",
		"configure 102 0,0 1920x1080",
		"focus 102",
		"map 102",
	}, f.take())

	focused, ok := c.Focused()
	require.True(t, ok)
	assert.Equal(t, ws[1], focused)

	lay, err := c.Layout(l)
	require.NoError(t, err)
	child, ok := lay.FocusedChild()
	require.True(t, ok)
	assert.Equal(t, ws[1], child)
}

func TestArrangeCallsStrategyInOrder(t *testing.T) {
	c, _ := newTestContainer(t)
	rec := &recorder{Layout: layout.Horizontal{}}
	l, err := c.InsertLayout(c.Root(), rec)
	require.NoError(t, err)
	insertWindows(t, c, l, 101, 102, 103, 104)

	require.NoError(t, c.ArrangeAt(l, testScreen))
	assert.Equal(t, [][2]int{{0, 4}, {1, 4}, {2, 4}, {3, 4}}, rec.calls)
}

func TestArrangeResizesOnlyOnChange(t *testing.T) {
	c, f := newTestContainer(t)
	l, err := c.InsertLayout(c.Root(), layout.Horizontal{})
	require.NoError(t, err)
	insertWindows(t, c, l, 101, 102)

	require.NoError(t, c.ArrangeAt(l, xp.Rectangle{Width: 200, Height: 100}))
	assert.Equal(t, []string{
		"configure 101 0,0 100x100",
		"focus 101",
		"map 101",
		"configure 102 100,0 100x100",
		"map 102",
	}, f.take())

	require.NoError(t, c.ArrangeAt(l, xp.Rectangle{Width: 200, Height: 100}))
	assert.Empty(t, f.take())

	require.NoError(t, c.ArrangeAt(l, xp.Rectangle{Width: 400, Height: 100}))
	assert.Equal(t, []string{
		"configure 101 0,0 200x100",
		"configure 102 200,0 200x100",
	}, f.take())
}

func TestArrangeNested(t *testing.T) {
	c, f := newTestContainer(t)
	outer, err := c.InsertLayout(c.Root(), layout.Horizontal{})
	require.NoError(t, err)
	left := insertWindows(t, c, outer, 101)[0]
	inner, err := c.InsertLayout(outer, layout.Monocle{})
	require.NoError(t, err)
	ws := insertWindows(t, c, inner, 102, 103)

	require.NoError(t, c.Focus(ws[1]))
	require.NoError(t, c.ArrangeAt(outer, xp.Rectangle{Width: 200, Height: 100}))
	assert.Equal(t, []string{
		"configure 101 0,0 100x100",
		"map 101",
		"configure 103 100,0 100x100",
		"focus 103",
		"map 103",
	}, f.take())

	// Focus moves to the left column; the inner layout keeps showing its
	// current window without input focus.
	require.NoError(t, c.Focus(left))
	require.NoError(t, c.ArrangeAt(outer, xp.Rectangle{Width: 200, Height: 100}))
	assert.Equal(t, []string{"focus 101"}, f.take())
}

func TestArrangeHidesNestedLayout(t *testing.T) {
	c, f := newTestContainer(t)
	outer, err := c.InsertLayout(c.Root(), layout.Monocle{})
	require.NoError(t, err)
	inner, err := c.InsertLayout(outer, layout.Horizontal{})
	require.NoError(t, err)
	ws := insertWindows(t, c, inner, 101, 102)
	other := insertWindows(t, c, outer, 103)[0]

	require.NoError(t, c.ArrangeAt(outer, testScreen))
	assert.Equal(t, []string{
		"configure 101 0,0 960x1080",
		"focus 101",
		"map 101",
		"configure 102 960,0 960x1080",
		"map 102",
	}, f.take())

	require.NoError(t, c.Focus(other))
	require.NoError(t, c.ArrangeAt(outer, testScreen))
	// Preorder visits the most recently inserted child first.
	assert.Equal(t, []string{
		"unmap 102",
		"unmap 101",
		"configure 103 0,0 1920x1080",
		"focus 103",
		"map 103",
	}, f.take())

	for _, id := range ws {
		w, err := c.Window(id)
		require.NoError(t, err)
		assert.False(t, w.Visible())
	}
}

func TestArrangeWindowIsNoop(t *testing.T) {
	c, f := newTestContainer(t)
	w := insertWindows(t, c, c.Root(), 101)[0]
	require.NoError(t, c.ArrangeAt(w, testScreen))
	require.NoError(t, c.ArrangeAt(c.Root(), testScreen))
	assert.Empty(t, f.take())
}

func TestShowHide(t *testing.T) {
	c, f := newTestContainer(t)
	l, err := c.InsertLayout(c.Root(), layout.Monocle{})
	require.NoError(t, err)
	insertWindows(t, c, l, 101, 102)

	require.NoError(t, c.Show(l))
	assert.ElementsMatch(t, []string{"map 101", "map 102"}, f.take())
	require.NoError(t, c.Show(l))
	assert.Empty(t, f.take())

	require.NoError(t, c.Hide(l))
	assert.ElementsMatch(t, []string{"unmap 101", "unmap 102"}, f.take())
	require.NoError(t, c.Hide(l))
	assert.Empty(t, f.take())
}

func TestRemoveClearsFocus(t *testing.T) {
	c, _ := newTestContainer(t)
	l, err := c.InsertLayout(c.Root(), layout.Monocle{})
	require.NoError(t, err)
	ws := insertWindows(t, c, l, 101, 102)
	require.NoError(t, c.ArrangeAt(l, testScreen))

	_, ok := c.Focused()
	require.True(t, ok)

	n, err := c.Prune(l)
	require.NoError(t, err)
	assert.IsType(t, &Layout{}, n)
	_, ok = c.Focused()
	assert.False(t, ok)

	_, err = c.Window(ws[0])
	assert.ErrorIs(t, err, ErrUnknownContainer)
}

func TestExtract(t *testing.T) {
	c, _ := newTestContainer(t)
	l, err := c.InsertLayout(c.Root(), layout.Monocle{})
	require.NoError(t, err)
	ws := insertWindows(t, c, l, 101)

	_, err = c.Extract(l)
	assert.Error(t, err)

	n, err := c.Extract(ws[0])
	require.NoError(t, err)
	assert.Equal(t, xp.Window(101), n.(*Window).XWindow())
	_, ok := c.Lookup(101)
	assert.False(t, ok)

	_, err = c.Extract(c.Root())
	assert.Error(t, err)
	_, err = c.Prune(c.Root())
	assert.Error(t, err)
}

func TestMoveKeepsIDs(t *testing.T) {
	c, f := newTestContainer(t)
	a, err := c.InsertLayout(c.Root(), layout.Monocle{})
	require.NoError(t, err)
	b, err := c.InsertLayout(c.Root(), layout.Monocle{})
	require.NoError(t, err)
	ws := insertWindows(t, c, a, 101, 102)

	require.NoError(t, c.Move(ws[1], b))
	assert.Equal(t, []ContainerID{ws[0]}, c.Children(a))
	assert.Equal(t, []ContainerID{ws[1]}, c.Children(b))
	p, ok := c.Parent(ws[1])
	require.True(t, ok)
	assert.Equal(t, b, p)

	require.NoError(t, c.ArrangeAt(b, testScreen))
	assert.Equal(t, []string{
		"configure 102 0,0 1920x1080",
		"focus 102",
		"map 102",
	}, f.take())

	assert.Error(t, c.Move(a, ws[0]))
}

func TestCreate(t *testing.T) {
	c, _ := newTestContainer(t)

	c.create(xp.CreateNotifyEvent{
		Parent: 999,
		Window: 101,
		X:      5,
		Y:      6,
		Width:  300,
		Height: 200,
	})
	events := drain(c.h.events)
	require.Len(t, events, 1)
	ev, ok := events[0].(WindowCreate)
	require.True(t, ok)
	assert.Equal(t, WindowCreate{Window: ev.Window, X: 5, Y: 6, Width: 300, Height: 200}, ev)

	p, ok := c.Parent(ev.Window)
	require.True(t, ok)
	assert.Equal(t, c.Root(), p)
	w, err := c.Window(ev.Window)
	require.NoError(t, err)
	assert.True(t, w.Managed())
	assert.Equal(t, xp.Rectangle{X: 5, Y: 6, Width: 300, Height: 200}, w.Rect())

	// A child of a known window nests under it; override-redirect windows
	// are not managed.
	c.create(xp.CreateNotifyEvent{Parent: 101, Window: 102, OverrideRedirect: true})
	events = drain(c.h.events)
	require.Len(t, events, 1)
	child := events[0].(WindowCreate).Window
	p, ok = c.Parent(child)
	require.True(t, ok)
	assert.Equal(t, ev.Window, p)
	w, err = c.Window(child)
	require.NoError(t, err)
	assert.False(t, w.Managed())
}

func TestConfigureMapDestroy(t *testing.T) {
	f := newFakeConn()
	h, hook := newTestHandle(f)
	c, err := newContainer(h)
	require.NoError(t, err)
	id := insertWindows(t, c, c.Root(), 101)[0]

	c.configure(xp.ConfigureRequestEvent{Window: 101, X: 1, Y: 2, Width: 3, Height: 4})
	c.mapRequest(xp.MapRequestEvent{Window: 101})
	c.destroy(xp.DestroyNotifyEvent{Window: 101})
	assert.Equal(t, []Event{
		WindowResize{Window: id, X: 1, Y: 2, Width: 3, Height: 4},
		WindowShow{Window: id},
		WindowDestroy{Window: id},
	}, drain(c.h.events))

	c.configure(xp.ConfigureRequestEvent{Window: 555})
	c.mapRequest(xp.MapRequestEvent{Window: 555})
	c.destroy(xp.DestroyNotifyEvent{Window: 555})
	assert.Empty(t, drain(c.h.events))
	require.Len(t, hook.AllEntries(), 3)
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, e.Level)
		assert.Equal(t, xp.Window(555), e.Data["window"])
	}
}

func TestStaleContainerID(t *testing.T) {
	c, _ := newTestContainer(t)
	id := insertWindows(t, c, c.Root(), 101)[0]
	_, err := c.Prune(id)
	require.NoError(t, err)
	again := insertWindows(t, c, c.Root(), 102)[0]
	assert.NotEqual(t, id, again)

	_, err = c.Node(id)
	assert.ErrorIs(t, err, ErrUnknownContainer)
	assert.ErrorIs(t, c.Focus(id), ErrUnknownContainer)
	assert.ErrorIs(t, c.ArrangeAt(id, testScreen), ErrUnknownContainer)
	_, err = c.Insert(id, NewWindow(103, xp.Rectangle{}, true, true))
	assert.ErrorIs(t, err, ErrUnknownContainer)
}
