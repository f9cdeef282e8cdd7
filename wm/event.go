package wm

import (
	"fmt"
)

// Event is the closed set of messages the manager produces for policy code.
type Event interface {
	event()
}

// WindowCreate reports a new window container and the geometry the client
// asked for.
type WindowCreate struct {
	Window        ContainerID
	X, Y          int16
	Width, Height uint16
}

// WindowResize reports a client's configure request.
type WindowResize struct {
	Window        ContainerID
	X, Y          int16
	Width, Height uint16
}

// WindowShow reports a client's map request.
type WindowShow struct {
	Window ContainerID
}

// WindowDestroy reports that a window is gone. Its container is still in the
// tree until policy code prunes it.
type WindowDestroy struct {
	Window ContainerID
}

// Binding reports that a bound key chord fired.
type Binding struct {
	Key Key
}

type MonitorConnect struct {
	Monitor       MonitorID
	X, Y          int16
	Width, Height uint16
}

type MonitorDisconnect struct {
	Monitor MonitorID
}

type MonitorPrimary struct {
	Monitor MonitorID
}

type MonitorTransform struct {
	Monitor       MonitorID
	X, Y          int16
	Width, Height uint16
}

func (WindowCreate) event()      {}
func (WindowResize) event()      {}
func (WindowShow) event()        {}
func (WindowDestroy) event()     {}
func (Binding) event()           {}
func (MonitorConnect) event()    {}
func (MonitorDisconnect) event() {}
func (MonitorPrimary) event()    {}
func (MonitorTransform) event()  {}

func (e WindowCreate) String() string {
	return fmt.Sprintf("WindowCreate{%v %d,%d %dx%d}", e.Window, e.X, e.Y, e.Width, e.Height)
}

func (e WindowResize) String() string {
	return fmt.Sprintf("WindowResize{%v %d,%d %dx%d}", e.Window, e.X, e.Y, e.Width, e.Height)
}

func (e Binding) String() string {
	return fmt.Sprintf("Binding{%v}", e.Key)
}

// queue is a FIFO of produced events. There is one producer context and one
// consumer at any time, so it needs no locking.
type queue struct {
	events []Event
	head   int
}

func (q *queue) push(e Event) {
	q.events = append(q.events, e)
}

func (q *queue) pop() (Event, bool) {
	if q.head == len(q.events) {
		return nil, false
	}
	e := q.events[q.head]
	q.events[q.head] = nil
	q.head++
	if q.head == len(q.events) {
		q.events, q.head = q.events[:0], 0
	}
	return e, true
}

func (q *queue) len() int {
	return len(q.events) - q.head
}
