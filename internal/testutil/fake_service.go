//go:build !production

package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// FakePlayer 服务端玩家
type FakePlayer struct {
	ID   string `json:"playerId"`
	Name string `json:"playerName"`
}

// FakeRoom 服务端房间状态
type FakeRoom struct {
	ID          string
	SecretKey   string
	Locked      bool
	Image       string
	Players     []FakePlayer
	Reconnected []FakePlayer

	// SnapshotID 非空时 GET /{room} 返回该 ID，用于模拟房间不一致
	SnapshotID string
	// PlayerCount 非零时覆盖返回的 playerCount
	PlayerCount int
	// EmptySnapshot 为 true 时 GET /{room} 返回 null
	EmptySnapshot bool

	GroupAnswers  map[string]string // playerId -> answer，用于 ask/options/draw 群发
	PlayerAnswers map[string]string // playerId -> answer，用于单个玩家提问
	Broadcasts    []string
	Said          map[string][]string // playerId -> messages
	PlayerImages  map[string]string
}

// RecordedRequest 记录到的请求
type RecordedRequest struct {
	Method    string
	Path      string
	Query     url.Values
	Body      string
	APIKey    string
	RequestID string
}

// FakeService 内存版 Leebox 服务
type FakeService struct {
	server *httptest.Server

	mu        sync.Mutex
	rooms     map[string]*FakeRoom
	order     []string
	nextRoom  int
	requests  []RecordedRequest
	failures  map[string]int
	setupBody string
}

// NewFakeService 启动服务，测试结束时自动关闭
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()

	fs := &FakeService{
		rooms:    make(map[string]*FakeRoom),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /newroom", fs.handleNewRoom)
	mux.HandleFunc("GET /{room}", fs.withRoom(fs.handleSnapshot))
	mux.HandleFunc("POST /{room}/setlocked", fs.withRoom(fs.handleSetLocked))
	mux.HandleFunc("POST /{room}/broadcast", fs.withRoom(fs.handleBroadcast))
	mux.HandleFunc("POST /{room}/setImage", fs.withRoom(fs.handleRoomImage))
	mux.HandleFunc("POST /{room}/ask", fs.withRoom(fs.handleGroupPrompt))
	mux.HandleFunc("POST /{room}/options", fs.withRoom(fs.handleGroupPrompt))
	mux.HandleFunc("POST /{room}/draw", fs.withRoom(fs.handleGroupPrompt))
	mux.HandleFunc("POST /{room}/say/{player}", fs.withRoom(fs.handleSay))
	mux.HandleFunc("POST /{room}/setImage/{player}", fs.withRoom(fs.handlePlayerImage))
	mux.HandleFunc("POST /{room}/ask/{player}", fs.withRoom(fs.handlePlayerPrompt))
	mux.HandleFunc("POST /{room}/options/{player}", fs.withRoom(fs.handlePlayerPrompt))
	mux.HandleFunc("POST /{room}/draw/{player}", fs.withRoom(fs.handlePlayerPrompt))

	fs.server = httptest.NewServer(http.StripPrefix("/api", fs.record(mux)))
	t.Cleanup(fs.server.Close)
	return fs
}

// Address 服务地址（带 /api 前缀）
func (fs *FakeService) Address() string {
	return fs.server.URL + "/api"
}

// Close 关闭服务
func (fs *FakeService) Close() {
	fs.server.Close()
}

// Room 返回房间状态，不存在时返回 nil。只用于读取，修改请用 Update
func (fs *FakeService) Room(id string) *FakeRoom {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.rooms[id]
}

// Update 在锁内修改房间
func (fs *FakeService) Update(roomID string, fn func(r *FakeRoom)) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if r, ok := fs.rooms[roomID]; ok {
		fn(r)
	}
}

// LastRoomID 最近创建的房间
func (fs *FakeService) LastRoomID() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.order) == 0 {
		return ""
	}
	return fs.order[len(fs.order)-1]
}

// AddPlayer 添加玩家
func (fs *FakeService) AddPlayer(roomID, playerID, name string) {
	fs.Update(roomID, func(r *FakeRoom) {
		r.Players = append(r.Players, FakePlayer{ID: playerID, Name: name})
	})
}

// RemovePlayer 移除玩家
func (fs *FakeService) RemovePlayer(roomID, playerID string) {
	fs.Update(roomID, func(r *FakeRoom) {
		kept := r.Players[:0]
		for _, p := range r.Players {
			if p.ID != playerID {
				kept = append(kept, p)
			}
		}
		r.Players = kept
	})
}

// MarkReconnected 让后续快照把玩家报告为重连
func (fs *FakeService) MarkReconnected(roomID, playerID, name string) {
	fs.Update(roomID, func(r *FakeRoom) {
		r.Reconnected = append(r.Reconnected, FakePlayer{ID: playerID, Name: name})
	})
}

// ClearReconnected 清空重连列表
func (fs *FakeService) ClearReconnected(roomID string) {
	fs.Update(roomID, func(r *FakeRoom) { r.Reconnected = nil })
}

// SetGroupAnswers 设置群发提问的返回
func (fs *FakeService) SetGroupAnswers(roomID string, answers map[string]string) {
	fs.Update(roomID, func(r *FakeRoom) { r.GroupAnswers = answers })
}

// SetPlayerAnswer 设置单个玩家提问的返回
func (fs *FakeService) SetPlayerAnswer(roomID, playerID, answer string) {
	fs.Update(roomID, func(r *FakeRoom) { r.PlayerAnswers[playerID] = answer })
}

// FailWith 让匹配 method 和路径（不含 /api 前缀）的请求返回 status
func (fs *FakeService) FailWith(method, path string, status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failures[method+" "+path] = status
}

// SetSetupBody 覆盖 /newroom 的响应体
func (fs *FakeService) SetSetupBody(body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.setupBody = body
}

// Requests 已记录的请求
func (fs *FakeService) Requests() []RecordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]RecordedRequest, len(fs.requests))
	copy(out, fs.requests)
	return out
}

// LastRequest 最近一次请求
func (fs *FakeService) LastRequest() RecordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.requests) == 0 {
		return RecordedRequest{}
	}
	return fs.requests[len(fs.requests)-1]
}

// RequestCount 请求数
func (fs *FakeService) RequestCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

func (fs *FakeService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		fs.mu.Lock()
		fs.requests = append(fs.requests, RecordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			Body:      string(body),
			APIKey:    r.Header.Get("X-Api-Key"),
			RequestID: r.Header.Get("X-Request-Id"),
		})
		status, fail := fs.failures[r.Method+" "+r.URL.Path]
		fs.mu.Unlock()

		if fail {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type roomHandler func(w http.ResponseWriter, r *http.Request, room *FakeRoom)

// withRoom 校验房间存在与 X-Api-Key，处理函数在锁内执行
func (fs *FakeService) withRoom(h roomHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()

		room, ok := fs.rooms[r.PathValue("room")]
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		if r.Header.Get("X-Api-Key") != room.SecretKey {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}
		h(w, r, room)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeString(r *http.Request) (string, error) {
	var s string
	err := json.NewDecoder(r.Body).Decode(&s)
	return s, err
}

func (fs *FakeService) handleNewRoom(w http.ResponseWriter, _ *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.setupBody != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fs.setupBody)
		return
	}

	fs.nextRoom++
	room := &FakeRoom{
		ID:            fmt.Sprintf("R%d", fs.nextRoom),
		SecretKey:     fmt.Sprintf("K%d", fs.nextRoom),
		GroupAnswers:  map[string]string{},
		PlayerAnswers: map[string]string{},
		Said:          map[string][]string{},
		PlayerImages:  map[string]string{},
	}
	fs.rooms[room.ID] = room
	fs.order = append(fs.order, room.ID)
	writeJSON(w, map[string]string{"id": room.ID, "secretKey": room.SecretKey})
}

func (fs *FakeService) handleSnapshot(w http.ResponseWriter, _ *http.Request, room *FakeRoom) {
	if room.EmptySnapshot {
		writeJSON(w, nil)
		return
	}
	id := room.ID
	if room.SnapshotID != "" {
		id = room.SnapshotID
	}
	count := len(room.Players)
	if room.PlayerCount != 0 {
		count = room.PlayerCount
	}
	players := append([]FakePlayer{}, room.Players...)
	reconnected := append([]FakePlayer{}, room.Reconnected...)
	writeJSON(w, map[string]any{
		"id":                 id,
		"playerCount":        count,
		"locked":             room.Locked,
		"players":            players,
		"reconnectedPlayers": reconnected,
	})
}

func (fs *FakeService) handleSetLocked(w http.ResponseWriter, r *http.Request, room *FakeRoom) {
	var locked bool
	if err := json.NewDecoder(r.Body).Decode(&locked); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room.Locked = locked
	w.WriteHeader(http.StatusOK)
}

func (fs *FakeService) handleBroadcast(w http.ResponseWriter, r *http.Request, room *FakeRoom) {
	msg, err := decodeString(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room.Broadcasts = append(room.Broadcasts, msg)
	w.WriteHeader(http.StatusOK)
}

func (fs *FakeService) handleRoomImage(w http.ResponseWriter, r *http.Request, room *FakeRoom) {
	u, err := decodeString(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room.Image = u
	w.WriteHeader(http.StatusOK)
}

func (fs *FakeService) handleGroupPrompt(w http.ResponseWriter, r *http.Request, room *FakeRoom) {
	if r.URL.Query().Get("timeoutSeconds") == "" {
		http.Error(w, "missing timeoutSeconds", http.StatusBadRequest)
		return
	}
	writeJSON(w, room.GroupAnswers)
}

func (fs *FakeService) findPlayer(room *FakeRoom, id string) bool {
	for _, p := range room.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (fs *FakeService) handleSay(w http.ResponseWriter, r *http.Request, room *FakeRoom) {
	playerID := r.PathValue("player")
	if !fs.findPlayer(room, playerID) {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	msg, err := decodeString(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room.Said[playerID] = append(room.Said[playerID], msg)
	w.WriteHeader(http.StatusOK)
}

func (fs *FakeService) handlePlayerImage(w http.ResponseWriter, r *http.Request, room *FakeRoom) {
	playerID := r.PathValue("player")
	if !fs.findPlayer(room, playerID) {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	u, err := decodeString(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	room.PlayerImages[playerID] = u
	w.WriteHeader(http.StatusOK)
}

func (fs *FakeService) handlePlayerPrompt(w http.ResponseWriter, r *http.Request, room *FakeRoom) {
	playerID := r.PathValue("player")
	if !fs.findPlayer(room, playerID) {
		http.Error(w, "player not found", http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("timeoutSeconds") == "" {
		http.Error(w, "missing timeoutSeconds", http.StatusBadRequest)
		return
	}
	writeJSON(w, room.PlayerAnswers[playerID])
}
