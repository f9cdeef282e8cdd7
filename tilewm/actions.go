package main

import (
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/tilewm/tilewm/layout"
)

type traversal int

const (
	next traversal = iota
	prev
)

// layouts is the cycle walked by next-layout and prev-layout.
var layouts = []string{"monocle", "horizontal", "vertical"}

// actions lists the named actions a binding can trigger. The do function
// receives the fixed arg listed here.
var actions = map[string]struct {
	do  func(*policy, interface{}) error
	arg interface{}
}{
	"focus-next":  {doFocus, next},
	"focus-prev":  {doFocus, prev},
	"next-layout": {doLayout, next},
	"prev-layout": {doLayout, prev},
	"quit":        {doQuit, nil},
}

// doExec starts cmd without waiting for it to finish.
func doExec(log logrus.FieldLogger, cmd []string) {
	if len(cmd) == 0 {
		return
	}
	go func() {
		c := exec.Command(cmd[0], cmd[1:]...)
		if err := c.Start(); err != nil {
			log.WithError(err).WithField("command", cmd).Warn("could not start command")
			return
		}
		// Ignore any error from the program itself.
		c.Wait()
	}()
}

func doFocus(p *policy, t1 interface{}) error {
	t, ok := t1.(traversal)
	if !ok {
		return fmt.Errorf("focus: bad argument %v", t1)
	}
	children := p.m.Container.Children(p.top)
	if len(children) == 0 {
		return nil
	}
	l, err := p.m.Container.Layout(p.top)
	if err != nil {
		return err
	}
	i := 0
	if cur, ok := l.FocusedChild(); ok {
		for j, c := range children {
			if c == cur {
				i = j
				break
			}
		}
	}
	n := len(children)
	if t == next {
		i = (i + 1) % n
	} else {
		i = (i + n - 1) % n
	}
	if err := p.m.Container.Focus(children[i]); err != nil {
		return err
	}
	return p.arrange()
}

func doLayout(p *policy, t1 interface{}) error {
	t, ok := t1.(traversal)
	if !ok {
		return fmt.Errorf("layout: bad argument %v", t1)
	}
	n := len(layouts)
	if t == next {
		p.layoutIndex = (p.layoutIndex + 1) % n
	} else {
		p.layoutIndex = (p.layoutIndex + n - 1) % n
	}
	s, err := layout.New(layouts[p.layoutIndex])
	if err != nil {
		return err
	}
	l, err := p.m.Container.Layout(p.top)
	if err != nil {
		return err
	}
	l.Strategy = s
	p.log.WithField("layout", layouts[p.layoutIndex]).Debug("switched layout")
	return p.arrange()
}

func doQuit(p *policy, _ interface{}) error {
	p.quitting = true
	return nil
}

