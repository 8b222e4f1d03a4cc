package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/leebox/internal/logger"
	"github.com/palemoky/leebox/internal/storage"
	"github.com/palemoky/leebox/internal/testutil"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile, address = "", ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateCommand(t *testing.T) {
	fs := testutil.NewFakeService(t)

	out, err := runRoot(t, "create", "--address", fs.Address(), "--max-players", "6")
	require.NoError(t, err)
	assert.Equal(t, "R1\n", out)
	assert.NotContains(t, out, "K1")
	assert.Equal(t, "/newroom", fs.LastRequest().Path)
}

func TestCreateCommand_ServiceDown(t *testing.T) {
	fs := testutil.NewFakeService(t)
	addr := fs.Address()
	fs.Close()

	_, err := runRoot(t, "create", "--address", addr)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service:\n  address: http://svc:9000/api\nroom:\n  max_players: 4\n"), 0o600))

	configFile, address = path, ""
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://svc:9000/api", cfg.Service.Address)
	assert.Equal(t, 4, cfg.Room.MaxPlayers)

	address = "http://override/api"
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://override/api", cfg.Service.Address)

	address = "not a url"
	_, err = loadConfig()
	assert.Error(t, err)

	configFile, address = filepath.Join(dir, "missing.yaml"), ""
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestHostCommand_FailureIsLogged(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	fs := testutil.NewFakeService(t)
	fs.FailWith(http.MethodGet, "/newroom", http.StatusServiceUnavailable)
	t.Cleanup(func() { logger.Init(os.Stderr, "info") })

	_, err := runRoot(t, "host", "--address", fs.Address())
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(home, ".leebox", "debug.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "create room failed")
}

func writeRedisConfig(t *testing.T, addr string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("redis:\n  addr: %q\n", addr)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestHistoryCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	store := storage.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	now := time.Now().Unix()
	require.NoError(t, store.SaveRoster(ctx, "R1", &storage.RosterData{
		RoomID:      "R1",
		PlayerCount: 2,
		Locked:      true,
		Players:     []storage.PlayerData{{ID: "p1", Name: "Ann"}, {ID: "p2", Name: "Bo"}},
		SyncedAt:    now,
	}))
	require.NoError(t, store.SaveAnswers(ctx, "R1", &storage.AnswerData{
		PromptID: "q1",
		Kind:     "ask",
		Prompt:   "colour?",
		Answers:  map[string]string{"p2": "blue", "p1": "red", "p9": "green"},
		AskedAt:  now,
	}))
	cfgPath := writeRedisConfig(t, mr.Addr())

	out, err := runRoot(t, "history", "--config", cfgPath, "--room", "R1")
	require.NoError(t, err)
	assert.Contains(t, out, "房间 R1: 2 名玩家, 已锁定")
	assert.Contains(t, out, "[ask] colour?")
	assert.Contains(t, out, "  Ann: red\n  Bo: blue\n  p9: green\n")

	out, err = runRoot(t, "history", "--config", cfgPath, "--room", "R1", "--delete")
	require.NoError(t, err)
	assert.Contains(t, out, "已删除")
	assert.False(t, mr.Exists("room:R1"))
	assert.False(t, mr.Exists("answers:R1:q1"))

	out, err = runRoot(t, "history", "--config", cfgPath, "--room", "R1", "--delete=false")
	require.NoError(t, err)
	assert.Contains(t, out, "没有快照")
}

func TestHistoryCommand_NeedsJournal(t *testing.T) {
	_, err := runRoot(t, "history", "--room", "R1")
	assert.ErrorIs(t, err, errJournalDisabled)
}
