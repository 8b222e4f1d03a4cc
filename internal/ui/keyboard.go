package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// handleKey handles keyboard input and returns whether it was handled.
func (m *HostModel) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return true, m.quit()
	}

	if m.phase.composing() {
		return m.handleComposeKey(msg)
	}

	switch strings.ToLower(msg.String()) {
	case "q":
		return true, m.quit()
	case "r":
		if m.busy {
			return true, nil
		}
		return true, m.syncRoom()
	case "l":
		if m.busy {
			return true, nil
		}
		return true, m.setLocked(!m.room.Locked())
	case "b":
		m.enterPhase(PhaseBroadcast)
		return true, nil
	case "a":
		if m.busy {
			return true, nil
		}
		m.enterPhase(PhaseAsk)
		return true, nil
	case "d":
		if m.busy {
			return true, nil
		}
		m.enterPhase(PhaseDraw)
		return true, nil
	case "p":
		return true, m.popReconnected()
	}
	return false, nil
}

func (m *HostModel) handleComposeKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.enterPhase(PhaseIdle)
		return true, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return true, nil
		}
		phase := m.phase
		m.enterPhase(PhaseIdle)
		switch phase {
		case PhaseBroadcast:
			return true, m.broadcast(text)
		case PhaseAsk:
			return true, m.askAll(text)
		case PhaseDraw:
			return true, m.drawAll(text)
		}
	}
	// 其余按键交给输入框
	return false, nil
}

func (m *HostModel) quit() tea.Cmd {
	m.cancel()
	m.soundManager.Close()
	return tea.Quit
}
