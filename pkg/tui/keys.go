package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// CommonKeys defines the keybindings shared by the main screen and the
// popups.
type CommonKeys struct {
	Quit       key.Binding
	Back       key.Binding
	Help       key.Binding
	NavUp      key.Binding
	NavDown    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PrevTab    key.Binding
	NextTab    key.Binding
	Refresh    key.Binding
	Pause      key.Binding
	Delete     key.Binding
	AddURL     key.Binding
	AddFile    key.Binding
	ServerInfo key.Binding
	Confirm    key.Binding
	Yes        key.Binding
	No         key.Binding
}

// NewCommonKeys returns the canonical dstui keybindings.
func NewCommonKeys() CommonKeys {
	return CommonKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NavUp: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "up"),
		),
		NavDown: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "scroll info up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "scroll info down"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "previous tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "next tab"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		AddURL: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add from URL"),
		),
		AddFile: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add from file"),
		),
		ServerInfo: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "server info"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "no"),
		),
	}
}
