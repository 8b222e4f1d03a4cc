// Package ui implements the host console: a bubbletea program that drives
// one room from the terminal.
package ui

import (
	"context"

	"github.com/palemoky/leebox"
)

// RoomController is the part of *leebox.Room the console drives.
type RoomController interface {
	ID() string
	Locked() bool
	PlayerCount() int
	MaxPlayers() int
	Players() []*leebox.Player
	Reconnected() []*leebox.Player
	PopReconnected() (*leebox.Player, bool)
	SyncReconnects(ctx context.Context) (int, error)
	SetLocked(ctx context.Context, locked bool) error
	Broadcast(ctx context.Context, message string) error
	AskAll(ctx context.Context, question string, timeoutSeconds int) (leebox.Answers, error)
	DrawAll(ctx context.Context, prompt string, timeoutSeconds int) (leebox.Answers, error)
}

// Phase is what the console is currently doing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBroadcast
	PhaseAsk
	PhaseDraw
)

// composing 表示输入框处于激活状态
func (p Phase) composing() bool {
	return p != PhaseIdle
}

// NotificationType represents types of console notifications.
type NotificationType int

const (
	NotifyError     NotificationType = iota // 错误信息（临时）
	NotifyReconnect                         // 玩家重连（临时）
	NotifyInfo                              // 普通提示（临时）
)

// Notification is the single status line under the roster.
type Notification struct {
	Message string
	Type    NotificationType
}

// --- Tea Messages ---

// SyncedMsg reports a finished room sync.
type SyncedMsg struct {
	Err error
	// NewReconnects is how many players joined the reconnect queue.
	NewReconnects int
}

// syncTickMsg triggers the periodic sync.
type syncTickMsg struct{}

// LockedMsg reports a finished lock change.
type LockedMsg struct {
	Locked bool
	Err    error
}

// BroadcastSentMsg reports a finished broadcast.
type BroadcastSentMsg struct {
	Message string
	Err     error
}

// AnswersMsg carries the answers of a group prompt.
type AnswersMsg struct {
	Kind    string
	Prompt  string
	Answers leebox.Answers
	Err     error
}

// ClearNotificationMsg clears the status line.
type ClearNotificationMsg struct{}
