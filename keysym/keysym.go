// Package keysym names X11 keysyms. The values come from
// /usr/include/X11/keysymdef.h and XF86keysym.h.
//
// Latin-1 keysyms equal their code point, so 'a' is the keysym for the A key
// without shift and 'A' with shift.
package keysym

import (
	"fmt"
	"strings"
	"unicode/utf8"

	xp "github.com/BurntSushi/xgb/xproto"
)

const (
	ISOLeftTab xp.Keysym = 0xfe20
	BackSpace  xp.Keysym = 0xff08
	Tab        xp.Keysym = 0xff09
	Return     xp.Keysym = 0xff0d
	Pause      xp.Keysym = 0xff13
	ScrollLock xp.Keysym = 0xff14
	Escape     xp.Keysym = 0xff1b
	Home       xp.Keysym = 0xff50
	Left       xp.Keysym = 0xff51
	Up         xp.Keysym = 0xff52
	Right      xp.Keysym = 0xff53
	Down       xp.Keysym = 0xff54
	PageUp     xp.Keysym = 0xff55
	PageDown   xp.Keysym = 0xff56
	End        xp.Keysym = 0xff57
	Print      xp.Keysym = 0xff61
	Insert     xp.Keysym = 0xff63
	Menu       xp.Keysym = 0xff67
	NumLock    xp.Keysym = 0xff7f
	F1         xp.Keysym = 0xffbe
	F12        xp.Keysym = 0xffc9
	ShiftL     xp.Keysym = 0xffe1
	ShiftR     xp.Keysym = 0xffe2
	ControlL   xp.Keysym = 0xffe3
	ControlR   xp.Keysym = 0xffe4
	CapsLock   xp.Keysym = 0xffe5
	ShiftLock  xp.Keysym = 0xffe6
	MetaL      xp.Keysym = 0xffe7
	MetaR      xp.Keysym = 0xffe8
	AltL       xp.Keysym = 0xffe9
	AltR       xp.Keysym = 0xffea
	SuperL     xp.Keysym = 0xffeb
	SuperR     xp.Keysym = 0xffec
	HyperL     xp.Keysym = 0xffed
	HyperR     xp.Keysym = 0xffee
	Delete     xp.Keysym = 0xffff
	Space      xp.Keysym = 0x0020
	AudioLower xp.Keysym = 0x1008ff11
	AudioMute  xp.Keysym = 0x1008ff12
	AudioRaise xp.Keysym = 0x1008ff13
	AudioPlay  xp.Keysym = 0x1008ff14
	AudioStop  xp.Keysym = 0x1008ff15
	AudioPrev  xp.Keysym = 0x1008ff16
	AudioNext  xp.Keysym = 0x1008ff17
	NoSymbol   xp.Keysym = 0
)

// names uses the keysymdef.h spelling without the XK_ prefix.
var names = map[string]xp.Keysym{
	"ISO_Left_Tab":         ISOLeftTab,
	"BackSpace":            BackSpace,
	"Tab":                  Tab,
	"Return":               Return,
	"Pause":                Pause,
	"Scroll_Lock":          ScrollLock,
	"Escape":               Escape,
	"Home":                 Home,
	"Left":                 Left,
	"Up":                   Up,
	"Right":                Right,
	"Down":                 Down,
	"Page_Up":              PageUp,
	"Page_Down":            PageDown,
	"End":                  End,
	"Print":                Print,
	"Insert":               Insert,
	"Menu":                 Menu,
	"Num_Lock":             NumLock,
	"Shift_L":              ShiftL,
	"Shift_R":              ShiftR,
	"Control_L":            ControlL,
	"Control_R":            ControlR,
	"Caps_Lock":            CapsLock,
	"Shift_Lock":           ShiftLock,
	"Meta_L":               MetaL,
	"Meta_R":               MetaR,
	"Alt_L":                AltL,
	"Alt_R":                AltR,
	"Super_L":              SuperL,
	"Super_R":              SuperR,
	"Hyper_L":              HyperL,
	"Hyper_R":              HyperR,
	"Delete":               Delete,
	"space":                Space,
	"XF86AudioLowerVolume": AudioLower,
	"XF86AudioMute":        AudioMute,
	"XF86AudioRaiseVolume": AudioRaise,
	"XF86AudioPlay":        AudioPlay,
	"XF86AudioStop":        AudioStop,
	"XF86AudioPrev":        AudioPrev,
	"XF86AudioNext":        AudioNext,
}

// aliases are accepted by Lookup but never returned by String.
var aliases = map[string]xp.Keysym{
	"Prior": PageUp,
	"Next":  PageDown,
	"Enter": Return,
	"Esc":   Escape,
}

var byValue = map[xp.Keysym]string{}

func init() {
	for i := 0; i < 12; i++ {
		names[fmt.Sprintf("F%d", i+1)] = F1 + xp.Keysym(i)
	}
	for name, k := range names {
		byValue[k] = name
	}
}

// Lookup returns the keysym for name. A single Latin-1 character names its own
// keysym. Named keys are matched case-sensitively first, then
// case-insensitively.
func Lookup(name string) (xp.Keysym, error) {
	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r != utf8.RuneError && r > 0x20 && r <= 0xff {
		return xp.Keysym(r), nil
	}
	if k, ok := names[name]; ok {
		return k, nil
	}
	if k, ok := aliases[name]; ok {
		return k, nil
	}
	for _, m := range [...]map[string]xp.Keysym{names, aliases} {
		for n, k := range m {
			if strings.EqualFold(n, name) {
				return k, nil
			}
		}
	}
	return NoSymbol, fmt.Errorf("keysym: unknown key %q", name)
}

// String returns a name for k that Lookup accepts.
func String(k xp.Keysym) string {
	if k > 0x20 && k <= 0xff {
		return string(rune(k))
	}
	if name, ok := byValue[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", uint32(k))
}
