package leebox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/leebox/internal/testutil"
)

func syncedPlayer(t *testing.T) (*testutil.FakeService, *Room, *Player) {
	t.Helper()
	fs, room := newTestRoom(t, 4)
	fs.AddPlayer("R1", "p1", "Ann")
	fs.AddPlayer("R1", "p2", "Bo")
	require.NoError(t, room.Sync(context.Background()))
	p, ok := room.PlayerByID("p1")
	require.True(t, ok)
	return fs, room, p
}

func TestPlayer_Say(t *testing.T) {
	t.Parallel()

	fs, _, ann := syncedPlayer(t)

	require.NoError(t, ann.Say(context.Background(), `psst, "you" are next`))

	req := fs.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/R1/say/p1", req.Path)
	assert.Equal(t, "K1", req.APIKey)
	assert.Equal(t, []string{`psst, "you" are next`}, fs.Room("R1").Said["p1"])
	assert.Empty(t, fs.Room("R1").Said["p2"])
}

func TestPlayer_SetImage(t *testing.T) {
	t.Parallel()

	fs, _, ann := syncedPlayer(t)

	require.NoError(t, ann.SetImage(context.Background(), "https://cdn.example.com/ann.png"))
	assert.Equal(t, "/R1/setImage/p1", fs.LastRequest().Path)
	assert.Equal(t, "https://cdn.example.com/ann.png", fs.Room("R1").PlayerImages["p1"])
}

func TestPlayer_Ask(t *testing.T) {
	t.Parallel()

	fs, _, ann := syncedPlayer(t)
	fs.SetPlayerAnswer("R1", "p1", "pizza")

	answer, err := ann.Ask(context.Background(), "dinner?", 0)
	require.NoError(t, err)
	assert.Equal(t, "pizza", answer)

	req := fs.LastRequest()
	assert.Equal(t, "/R1/ask/p1", req.Path)
	assert.Equal(t, "30", req.Query.Get("timeoutSeconds"))
	assert.Equal(t, `"dinner?"`, req.Body)
}

func TestPlayer_Option(t *testing.T) {
	t.Parallel()

	fs, _, ann := syncedPlayer(t)
	fs.SetPlayerAnswer("R1", "p1", "B")

	answer, err := ann.Option(context.Background(), "which?", []string{"A", "B"}, []string{"a.png", "b.png"}, 15)
	require.NoError(t, err)
	assert.Equal(t, "B", answer)

	req := fs.LastRequest()
	assert.Equal(t, "/R1/options/p1", req.Path)
	assert.Equal(t, "15", req.Query.Get("timeoutSeconds"))

	var body optionRequest
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	assert.Equal(t, "which?", body.Message)
	assert.Equal(t, []string{"A", "B"}, body.Options)
	assert.Equal(t, []string{"a.png", "b.png"}, body.Images)
}

func TestPlayer_Draw(t *testing.T) {
	t.Parallel()

	fs, _, ann := syncedPlayer(t)
	fs.SetPlayerAnswer("R1", "p1", "data:image/png;base64,AAAA")

	answer, err := ann.Draw(context.Background(), "a house", 60)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", answer)
	assert.Equal(t, "/R1/draw/p1", fs.LastRequest().Path)
	assert.Equal(t, "60", fs.LastRequest().Query.Get("timeoutSeconds"))
}

func TestPlayer_RequiresRoomKey(t *testing.T) {
	t.Parallel()

	fs := testutil.NewFakeService(t)
	unset := newRoom(NewSession(WithAddress(fs.Address())), 4)
	ctx := context.Background()

	players := map[string]*Player{
		"no room":        {ID: "p1", Name: "Ann"},
		"room never set": {ID: "p1", Name: "Ann", room: unset},
	}

	for name, p := range players {
		ops := []func() error{
			func() error { return p.Say(ctx, "hi") },
			func() error { return p.SetImage(ctx, "u") },
			func() error {
				_, err := p.Ask(ctx, "q", 0)
				return err
			},
			func() error {
				_, err := p.Option(ctx, "q", []string{"a"}, nil, 0)
				return err
			},
			func() error {
				_, err := p.Draw(ctx, "q", 0)
				return err
			},
		}
		for _, op := range ops {
			err := op()
			assert.ErrorIs(t, err, ErrNoSecretKey, name)
			assert.True(t, IsPrecondition(err), name)
		}
	}
	assert.Equal(t, 0, fs.RequestCount())
}

func TestPlayer_PropagatesHTTPFailure(t *testing.T) {
	t.Parallel()

	fs, room, _ := syncedPlayer(t)
	fs.RemovePlayer("R1", "p2")
	bo, ok := room.PlayerByID("p2")
	require.True(t, ok)

	_, err := bo.Ask(context.Background(), "still there?", 0)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "/R1/ask/p2", httpErr.Path)
}

func TestPlayer_StaleHandleStillWorks(t *testing.T) {
	t.Parallel()

	fs, room, ann := syncedPlayer(t)
	require.NoError(t, room.Sync(context.Background()))

	current, _ := room.PlayerByID("p1")
	require.NotSame(t, ann, current)

	fs.SetPlayerAnswer("R1", "p1", "still me")
	answer, err := ann.Ask(context.Background(), "who?", 0)
	require.NoError(t, err)
	assert.Equal(t, "still me", answer)
}

func TestPlayer_Is(t *testing.T) {
	t.Parallel()

	a := &Player{ID: "p1", Name: "Ann"}
	renamed := &Player{ID: "p1", Name: "Annie"}
	b := &Player{ID: "p2", Name: "Ann"}
	var none *Player

	assert.True(t, a.Is(a))
	assert.True(t, a.Is(renamed))
	assert.False(t, a.Is(b))
	assert.False(t, a.Is(none))
	assert.True(t, none.Is(nil))
	assert.Equal(t, "Ann (p1)", a.String())
}

func TestPlayer_DecodeFromSnapshot(t *testing.T) {
	t.Parallel()

	var snap roomSnapshot
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "R1",
		"playerCount": 1,
		"locked": true,
		"players": [{"playerId": "p1", "playerName": "Ann"}],
		"reconnectedPlayers": []
	}`), &snap))

	require.Len(t, snap.Players, 1)
	assert.Equal(t, "p1", snap.Players[0].ID)
	assert.Equal(t, "Ann", snap.Players[0].Name)
	assert.Nil(t, snap.Players[0].Room())
	assert.True(t, snap.Locked)
}
