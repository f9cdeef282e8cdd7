package wm

import (
	"fmt"
	"strings"

	xp "github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"

	"github.com/tilewm/tilewm/keysym"
)

// Modifier is a set of X modifier bits.
type Modifier uint16

const (
	Shift   Modifier = xp.ModMaskShift
	Lock    Modifier = xp.ModMaskLock
	Control Modifier = xp.ModMaskControl
	Mod1    Modifier = xp.ModMask1
	Mod2    Modifier = xp.ModMask2
	Mod3    Modifier = xp.ModMask3
	Mod4    Modifier = xp.ModMask4
	Mod5    Modifier = xp.ModMask5
	// Any matches whatever modifiers are held.
	Any Modifier = xp.ModMaskAny

	realModifiers = Shift | Lock | Control | Mod1 | Mod2 | Mod3 | Mod4 | Mod5
)

var modifierNames = []struct {
	name string
	mod  Modifier
}{
	{"Shift", Shift},
	{"Lock", Lock},
	{"Control", Control},
	{"Ctrl", Control},
	{"Mod1", Mod1},
	{"Alt", Mod1},
	{"Mod2", Mod2},
	{"Mod3", Mod3},
	{"Mod4", Mod4},
	{"Super", Mod4},
	{"Mod5", Mod5},
	{"Any", Any},
}

func (m Modifier) String() string {
	if m == Any {
		return "Any"
	}
	var parts []string
	for i, name := range []string{"Shift", "Lock", "Control", "Mod1", "Mod2", "Mod3", "Mod4", "Mod5"} {
		if m&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "-")
}

// Phase says whether a binding fires on key press, key release or both.
type Phase int

const (
	Press Phase = iota
	Release
	Both
)

func (p Phase) String() string {
	switch p {
	case Press:
		return "press"
	case Release:
		return "release"
	case Both:
		return "both"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ParsePhase parses "press", "release" or "both". The empty string means
// press.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(s) {
	case "", "press":
		return Press, nil
	case "release":
		return Release, nil
	case "both":
		return Both, nil
	}
	return 0, fmt.Errorf("wm: unknown key phase %q", s)
}

// Key is a logical key binding.
type Key struct {
	Keysym xp.Keysym
	Mask   Modifier
	Phase  Phase
}

func (k Key) String() string {
	name := keysym.String(k.Keysym)
	if k.Mask == 0 {
		return name + "/" + k.Phase.String()
	}
	return k.Mask.String() + "-" + name + "/" + k.Phase.String()
}

// ParseKey parses a chord such as "Mod4-Shift-Return": zero or more
// modifier names followed by a key name, separated by '-'. The key name may
// itself be "-".
func ParseKey(s string, phase Phase) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("wm: empty key chord")
	}
	mods, name := "", s
	if i := strings.LastIndexByte(s[:len(s)-1], '-'); i >= 0 {
		mods, name = s[:i], s[i+1:]
	}

	var mask Modifier
	if mods != "" {
		for _, p := range strings.Split(mods, "-") {
			m, ok := lookupModifier(p)
			if !ok {
				return Key{}, fmt.Errorf("wm: unknown modifier %q in %q", p, s)
			}
			mask |= m
		}
	}
	sym, err := keysym.Lookup(name)
	if err != nil {
		return Key{}, fmt.Errorf("wm: parsing %q: %w", s, err)
	}
	if mask&Any != 0 {
		mask = Any
	}
	return Key{Keysym: sym, Mask: mask, Phase: phase}, nil
}

func lookupModifier(name string) (Modifier, bool) {
	for _, m := range modifierNames {
		if strings.EqualFold(m.name, name) {
			return m.mod, true
		}
	}
	return 0, false
}

// keyMap is the server's keysym and modifier tables.
type keyMap struct {
	min     xp.Keycode
	per     int
	keysyms []xp.Keysym
	// modmap holds perMod keycodes for each of the 8 modifiers in turn.
	modmap []xp.Keycode
	perMod int
}

func loadKeyMap(x Conn) (*keyMap, error) {
	first, km, err := x.KeyboardMapping()
	if err != nil {
		return nil, fmt.Errorf("wm: getting keyboard mapping: %w", err)
	}
	mm, err := x.ModifierMapping()
	if err != nil {
		return nil, fmt.Errorf("wm: getting modifier mapping: %w", err)
	}
	per := int(km.KeysymsPerKeycode)
	if per < 1 {
		return nil, fmt.Errorf("wm: too few keysyms per keycode: %d", per)
	}
	return &keyMap{
		min:     first,
		per:     per,
		keysyms: km.Keysyms,
		modmap:  mm.Keycodes,
		perMod:  int(mm.KeycodesPerModifier),
	}, nil
}

// keycodeIter yields, in keycode order, every keycode whose row holds a
// keysym. Each keycode is yielded at most once.
type keycodeIter struct {
	m      *keyMap
	target xp.Keysym
	index  int
}

func (m *keyMap) keycodes(sym xp.Keysym) *keycodeIter {
	return &keycodeIter{m: m, target: sym}
}

func (it *keycodeIter) Next() (xp.Keycode, bool) {
	per := it.m.per
	for it.index < len(it.m.keysyms) {
		i := it.index
		it.index++
		if it.m.keysyms[i] != it.target {
			continue
		}
		// Skip the rest of this row.
		if r := it.index % per; r != 0 {
			it.index += per - r
		}
		return it.m.min + xp.Keycode(i/per), true
	}
	return 0, false
}

func (m *keyMap) all(sym xp.Keysym) []xp.Keycode {
	var codes []xp.Keycode
	for it := m.keycodes(sym); ; {
		c, ok := it.Next()
		if !ok {
			return codes
		}
		codes = append(codes, c)
	}
}

// modifier returns the modifier bit sym is mapped to, or 0.
func (m *keyMap) modifier(sym xp.Keysym) Modifier {
	codes := m.all(sym)
	for mod := 0; mod < 8; mod++ {
		for j := 0; j < m.perMod; j++ {
			mc := m.modmap[mod*m.perMod+j]
			if mc == 0 {
				continue
			}
			for _, c := range codes {
				if c == mc {
					return 1 << mod
				}
			}
		}
	}
	return 0
}

type bindingKey struct {
	root    xp.Window
	mask    Modifier
	code    xp.Keycode
	release bool
}

// Keyboard maps physical key events to bound logical keys.
type Keyboard struct {
	h    handle
	km   *keyMap
	num  Modifier
	caps Modifier
	// scroll is ScrollLock's modifier bit.
	scroll Modifier
	// locks holds the nonzero lock bits. Grabs cover every subset of them.
	locks    []Modifier
	bindings map[bindingKey]Key
}

func newKeyboard(h handle) (*Keyboard, error) {
	k := &Keyboard{
		h:        h,
		bindings: make(map[bindingKey]Key),
	}
	if err := k.refresh(); err != nil {
		return nil, err
	}
	return k, nil
}

// refresh reloads the server's tables and recomputes the lock bits.
func (k *Keyboard) refresh() error {
	km, err := loadKeyMap(k.h.x)
	if err != nil {
		return err
	}
	k.km = km
	k.num = km.modifier(keysym.NumLock)
	k.caps = km.modifier(keysym.CapsLock)
	k.scroll = km.modifier(keysym.ScrollLock)
	k.locks = k.locks[:0]
	for _, m := range []Modifier{k.num, k.caps, k.scroll} {
		if m != 0 {
			k.locks = append(k.locks, m)
		}
	}
	k.h.log.WithFields(logrus.Fields{
		"num":    k.num,
		"caps":   k.caps,
		"scroll": k.scroll,
	}).Debug("keyboard mapping loaded")
	return nil
}

// LockMask returns the modifier bits of the lock keys.
func (k *Keyboard) LockMask() Modifier {
	var m Modifier
	for _, l := range k.locks {
		m |= l
	}
	return m
}

// Keycodes returns every keycode that produces sym.
func (k *Keyboard) Keycodes(sym xp.Keysym) []xp.Keycode {
	return k.km.all(sym)
}

// lockSubsets lists mask OR'd with every subset of the lock bits, the empty
// subset first.
func (k *Keyboard) lockSubsets(mask Modifier) []Modifier {
	masks := make([]Modifier, 0, 1<<len(k.locks))
	for s := 0; s < 1<<len(k.locks); s++ {
		m := mask
		for i, l := range k.locks {
			if s&(1<<i) != 0 {
				m |= l
			}
		}
		masks = append(masks, m)
	}
	return masks
}

// Bind registers key and grabs it on the root window for every keycode that
// produces its keysym. A binding already registered for the same chord and
// phase wins. Grabs issued before a failing one are left in place.
func (k *Keyboard) Bind(key Key) error {
	root := k.h.root
	codes := k.km.all(key.Keysym)
	if len(codes) == 0 {
		k.h.log.WithField("key", key).Warn("no keycode produces keysym, not bound")
		return nil
	}
	for _, code := range codes {
		if key.Phase == Press || key.Phase == Both {
			k.register(bindingKey{root, key.Mask, code, false}, key)
		}
		if key.Phase == Release || key.Phase == Both {
			k.register(bindingKey{root, key.Mask, code, true}, key)
		}

		masks := []Modifier{Any}
		if key.Mask != Any {
			masks = k.lockSubsets(key.Mask)
		}
		for _, m := range masks {
			if err := k.h.x.GrabKey(root, uint16(m), code); err != nil {
				return fmt.Errorf("wm: grabbing %v (keycode %d, mask %#x): %w", key, code, uint16(m), err)
			}
		}
	}
	return nil
}

func (k *Keyboard) register(bk bindingKey, key Key) {
	if _, ok := k.bindings[bk]; ok {
		return
	}
	k.bindings[bk] = key
}

// Resolve finds the binding for a key event. Lock bits in state are ignored,
// and a binding made with Any matches when no exact one does.
func (k *Keyboard) Resolve(root xp.Window, state uint16, code xp.Keycode, release bool) (Key, bool) {
	mask := Modifier(state) & realModifiers &^ k.LockMask()
	if key, ok := k.bindings[bindingKey{root, mask, code, release}]; ok {
		return key, true
	}
	key, ok := k.bindings[bindingKey{root, Any, code, release}]
	return key, ok
}

func (k *Keyboard) dispatch(root xp.Window, state uint16, code xp.Keycode, release bool) {
	if key, ok := k.Resolve(root, state, code, release); ok {
		k.h.produce(Binding{Key: key})
	}
}
