package leebox

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/leebox/internal/storage"
	"github.com/palemoky/leebox/internal/testutil"
)

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) SaveRoster(ctx context.Context, roomID string, data *storage.RosterData) error {
	args := m.Called(ctx, roomID, data)
	return args.Error(0)
}

func (m *mockJournal) SaveAnswers(ctx context.Context, roomID string, data *storage.AnswerData) error {
	args := m.Called(ctx, roomID, data)
	return args.Error(0)
}

func TestJournal_RedisStore(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	store := storage.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer func() { _ = store.Close() }()

	fs := testutil.NewFakeService(t)
	s := NewSession(WithAddress(fs.Address()), WithJournal(store))
	ctx := context.Background()

	room, err := s.CreateRoom(ctx, 4)
	require.NoError(t, err)
	fs.AddPlayer("R1", "p1", "Ann")
	fs.AddPlayer("R1", "p2", "Bo")
	require.NoError(t, room.Sync(ctx))

	roster, err := store.LoadRoster(ctx, "R1")
	require.NoError(t, err)
	require.NotNil(t, roster)
	assert.Equal(t, 2, roster.PlayerCount)
	assert.Equal(t, []storage.PlayerData{{ID: "p1", Name: "Ann"}, {ID: "p2", Name: "Bo"}}, roster.Players)

	fs.SetGroupAnswers("R1", map[string]string{"p1": "red", "ghost": "blue"})
	_, err = room.AskAll(ctx, "colour?", 0)
	require.NoError(t, err)

	prompts, err := store.ListPrompts(ctx, "R1", 0)
	require.NoError(t, err)
	require.Len(t, prompts, 1)

	saved, err := store.LoadAnswers(ctx, "R1", prompts[0])
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "ask", saved.Kind)
	assert.Equal(t, "colour?", saved.Prompt)
	assert.Equal(t, map[string]string{"p1": "red"}, saved.Answers)
}

func TestJournal_FailuresDoNotFailOperations(t *testing.T) {
	t.Parallel()

	j := new(mockJournal)
	j.On("SaveRoster", mock.Anything, "R1", mock.Anything).Return(errors.New("redis down"))
	j.On("SaveAnswers", mock.Anything, "R1", mock.MatchedBy(func(d *storage.AnswerData) bool {
		return d.Kind == "draw" && d.PromptID != ""
	})).Return(errors.New("redis down"))

	fs := testutil.NewFakeService(t)
	s := NewSession(WithAddress(fs.Address()), WithJournal(j))
	ctx := context.Background()

	room, err := s.CreateRoom(ctx, 4)
	require.NoError(t, err)
	fs.AddPlayer("R1", "p1", "Ann")
	require.NoError(t, room.Sync(ctx))

	fs.SetGroupAnswers("R1", map[string]string{"p1": "data:image/png;base64,AAAA"})
	answers, err := room.DrawAll(ctx, "a cat", 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p1": "data:image/png;base64,AAAA"}, answers.ByID())

	j.AssertExpectations(t)
}

func TestJournal_NotUsedWithoutOption(t *testing.T) {
	t.Parallel()

	fs, room := newTestRoom(t, 4)
	fs.AddPlayer("R1", "p1", "Ann")
	require.NoError(t, room.Sync(context.Background()))
	assert.Nil(t, room.session.journal)
}
