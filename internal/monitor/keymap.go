package monitor

import "fmt"

// KeyMap defines the keyboard shortcuts displayed in the footer.
type KeyMap struct {
	Next    string
	Prev    string
	Refresh string
	Quit    string
}

// DefaultKeyMap returns the default shortcut mapping.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:    "tab",
		Prev:    "shift+tab",
		Refresh: "r",
		Quit:    "q",
	}
}

// HelpLine renders the footer help text.
func (k KeyMap) HelpLine() string {
	return fmt.Sprintf("[1-%d] view  [%s/%s] cycle  [%s] reload  [%s] quit",
		len(tabs), k.Next, k.Prev, k.Refresh, k.Quit)
}
