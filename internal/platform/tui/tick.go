// Package tui provides the Bubble Tea screens for wordguess: the play
// screen with its countdown and reward toasts, the high score board, and
// the SSH server that hosts both over Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickInterval drives the countdown and toast expiry.
const tickInterval = 250 * time.Millisecond

// TickMsg is sent on every countdown tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends one tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
