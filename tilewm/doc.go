/*
Tilewm is a minimalist, keyboard driven, tiling window manager for X. Every
window it manages is placed by a single top-level layout that covers the
primary monitor. Windows that opt out of management, such as menus and
tooltips, are mapped where they ask to be.


INSTALLATION

To install tilewm, install Go and run "go install ./tilewm" from a checkout of
this repository.

Tilewm is designed to run from an Xsession session. Add this line to the end of
your ~/.xsession file:
	/path/to/your/tilewm


USAGE

All default keyboard shortcuts involve holding down the Super (Windows) key.

Super and the Enter key will open a new terminal emulator window. Super, Shift
and the Enter key will open dmenu. Super and the Space key will open a web
browser window. Super and the Tab or 'F' key will focus the next window, and
Super and Shift-Tab or the 'D' key will focus the previous one. Super and the
'G' key will cycle the layout between monocle, horizontal and vertical. Super,
Shift and the Escape key will quit.

The volume keys on multimedia keyboards drive pactl.


CUSTOMIZATION

Tilewm reads $XDG_CONFIG_HOME/tilewm/config.toml, or the file named by the
--config flag. For example:
	log_level = "debug"
	layout = "horizontal"

	[[bind]]
	keys = "Mod4-Return"
	exec = ["xterm"]

	[[bind]]
	keys = "Mod4-q"
	press = "release"
	action = "quit"

A config with any [[bind]] tables replaces the default shortcuts entirely. The
actions are focus-next, focus-prev, next-layout, prev-layout and quit. Settings
can also come from TILEWM_DISPLAY, TILEWM_LOG_LEVEL and TILEWM_LAYOUT.


DEVELOPMENT

When working on tilewm, it can be run in a nested X server such as Xephyr:
	Xephyr :9 2>/dev/null &
	go run ./tilewm --display :9 --debug
*/
package main
