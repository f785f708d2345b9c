package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// PlayKeyMap defines the key bindings for the play screen.
type PlayKeyMap struct {
	Answer key.Binding
	Skip   key.Binding
	Pin    key.Binding
	Again  key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Answer, k.Skip, k.Pin, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Answer, k.Skip, k.Pin},
		{k.Again, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Answer: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "answer"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin reward"),
		),
		Again: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "play again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// answerIndex maps an answer key to an option index.
func answerIndex(k string) (int, bool) {
	switch k {
	case "1":
		return 0, true
	case "2":
		return 1, true
	case "3":
		return 2, true
	case "4":
		return 3, true
	}
	return 0, false
}
