package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Prompt kinds carried by AnswersMsg.
const (
	KindAsk  = "ask"
	KindDraw = "draw"
)

func (m *HostModel) scheduleSync() tea.Cmd {
	if m.opts.SyncInterval <= 0 {
		return nil
	}
	return tea.Tick(m.opts.SyncInterval, func(time.Time) tea.Msg {
		return syncTickMsg{}
	})
}

func (m *HostModel) syncRoom() tea.Cmd {
	m.busy = true
	room, ctx := m.room, m.ctx
	return func() tea.Msg {
		added, err := room.SyncReconnects(ctx)
		return SyncedMsg{Err: err, NewReconnects: added}
	}
}

func (m *HostModel) setLocked(locked bool) tea.Cmd {
	m.busy = true
	room, ctx := m.room, m.ctx
	return func() tea.Msg {
		return LockedMsg{Locked: locked, Err: room.SetLocked(ctx, locked)}
	}
}

func (m *HostModel) broadcast(message string) tea.Cmd {
	room, ctx := m.room, m.ctx
	return func() tea.Msg {
		return BroadcastSentMsg{Message: message, Err: room.Broadcast(ctx, message)}
	}
}

func (m *HostModel) askAll(question string) tea.Cmd {
	m.busy = true
	room, ctx, timeout := m.room, m.ctx, m.opts.PromptTimeout
	return func() tea.Msg {
		answers, err := room.AskAll(ctx, question, timeout)
		return AnswersMsg{Kind: KindAsk, Prompt: question, Answers: answers, Err: err}
	}
}

func (m *HostModel) drawAll(prompt string) tea.Cmd {
	m.busy = true
	room, ctx, timeout := m.room, m.ctx, m.opts.PromptTimeout
	return func() tea.Msg {
		answers, err := room.DrawAll(ctx, prompt, timeout)
		return AnswersMsg{Kind: KindDraw, Prompt: prompt, Answers: answers, Err: err}
	}
}

func clearNotificationLater() tea.Cmd {
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}
