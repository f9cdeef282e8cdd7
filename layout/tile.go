package layout

import (
	xp "github.com/BurntSushi/xgb/xproto"
)

// Horizontal tiles slots side by side, left to right, in equal columns.
type Horizontal struct{}

// Vertical tiles slots top to bottom, in equal rows.
type Vertical struct{}

// Arrange gives slot index the index'th column of scope.
func (Horizontal) Arrange(index, count int, focused bool, scope xp.Rectangle) Cell {
	return tile(split(scope, index, count, true), focused)
}

// Arrange gives slot index the index'th row of scope.
func (Vertical) Arrange(index, count int, focused bool, scope xp.Rectangle) Cell {
	return tile(split(scope, index, count, false), focused)
}

func tile(r xp.Rectangle, focused bool) Cell {
	if r.Width == 0 || r.Height == 0 {
		return Hidden()
	}
	if focused {
		return Focused(r)
	}
	return Shown(r)
}

// split returns the i'th of n equal strips of r. Rounding is spread so that
// the strips exactly cover r.
func split(r xp.Rectangle, i, n int, horizontal bool) xp.Rectangle {
	if n <= 0 || i < 0 || i >= n {
		return xp.Rectangle{X: r.X, Y: r.Y}
	}
	if horizontal {
		i0 := (i + 0) * int(r.Width) / n
		i1 := (i + 1) * int(r.Width) / n
		r.X += int16(i0)
		r.Width = uint16(i1 - i0)
	} else {
		i0 := (i + 0) * int(r.Height) / n
		i1 := (i + 1) * int(r.Height) / n
		r.Y += int16(i0)
		r.Height = uint16(i1 - i0)
	}
	return r
}
