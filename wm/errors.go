package wm

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning means another client holds substructure redirection
	// on the root window.
	ErrAlreadyRunning = errors.New("wm: another window manager is already running")
	// ErrConnectionClosed means the X connection is gone.
	ErrConnectionClosed = errors.New("wm: X connection closed")
	// ErrUnknownContainer means a ContainerID does not name a live container.
	ErrUnknownContainer = errors.New("wm: unknown container")
)

// Variant names a container node kind.
type Variant int

const (
	WindowVariant Variant = iota
	LayoutVariant
)

func (v Variant) String() string {
	if v == LayoutVariant {
		return "layout"
	}
	return "window"
}

// VariantError is returned when an operation needs one kind of container node
// and finds the other.
type VariantError struct {
	ID   ContainerID
	Want Variant
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("wm: container %v is not a %v", e.ID, e.Want)
}
