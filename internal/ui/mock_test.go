package ui

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/leebox"
)

// MockRoom 模拟房间控制器
type MockRoom struct {
	mock.Mock
}

func (m *MockRoom) ID() string {
	return m.Called().String(0)
}

func (m *MockRoom) Locked() bool {
	return m.Called().Bool(0)
}

func (m *MockRoom) PlayerCount() int {
	return m.Called().Int(0)
}

func (m *MockRoom) MaxPlayers() int {
	return m.Called().Int(0)
}

func (m *MockRoom) Players() []*leebox.Player {
	args := m.Called()
	players, _ := args.Get(0).([]*leebox.Player)
	return players
}

func (m *MockRoom) Reconnected() []*leebox.Player {
	args := m.Called()
	players, _ := args.Get(0).([]*leebox.Player)
	return players
}

func (m *MockRoom) PopReconnected() (*leebox.Player, bool) {
	args := m.Called()
	p, _ := args.Get(0).(*leebox.Player)
	return p, args.Bool(1)
}

func (m *MockRoom) SyncReconnects(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRoom) SetLocked(ctx context.Context, locked bool) error {
	return m.Called(ctx, locked).Error(0)
}

func (m *MockRoom) Broadcast(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockRoom) AskAll(ctx context.Context, question string, timeoutSeconds int) (leebox.Answers, error) {
	args := m.Called(ctx, question, timeoutSeconds)
	answers, _ := args.Get(0).(leebox.Answers)
	return answers, args.Error(1)
}

func (m *MockRoom) DrawAll(ctx context.Context, prompt string, timeoutSeconds int) (leebox.Answers, error) {
	args := m.Called(ctx, prompt, timeoutSeconds)
	answers, _ := args.Get(0).(leebox.Answers)
	return answers, args.Error(1)
}

var _ RoomController = (*MockRoom)(nil)
var _ RoomController = (*leebox.Room)(nil)
