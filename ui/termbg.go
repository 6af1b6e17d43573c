package ui

import (
	"fmt"
	"io"
	"os"
)

// SetTerminalBackground emits OSC 11 to set the terminal's default background
// color and returns a function that restores the original default via OSC 111.
// Every ANSI reset (\033[0m) then falls back to the given color instead of the
// terminal's configured default.
//
// Supported by kitty, alacritty, foot, wezterm, ghostty, iTerm2, Windows
// Terminal, and most modern terminal emulators.
func SetTerminalBackground(hexColor string) func() {
	return setTermBg(os.Stdout, hexColor)
}

// setTermBg is the testable core, writing to the given writer instead of stdout.
func setTermBg(w io.Writer, hexColor string) func() {
	if hexColor == "" {
		return func() {}
	}
	// OSC 11 ; <color> ST
	fmt.Fprintf(w, "\033]11;%s\033\\", hexColor)

	return func() {
		// OSC 111 ST — reset to the terminal's configured value
		fmt.Fprint(w, "\033]111\033\\")
	}
}
