// Package tui provides the Bubble Tea driver for the flappy game.
// It handles the terminal UI loop, input mapping, effect presentation and
// the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// DeadMsg is delivered when a delayed dead effect becomes due.
type DeadMsg struct {
	Frame int
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(max(tickRate, 1))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// deadCmd delivers a DeadMsg after the effect's delay.
func deadCmd(frame int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return DeadMsg{Frame: frame}
	})
}
