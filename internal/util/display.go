package util

import (
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// GetDisplayWidth calculates the actual display width of a string, accounting
// for wide runes.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TerminalWidth returns the current terminal width, or the fallback when
// stdout is not a terminal.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
