package leebox

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"sync"

	"github.com/palemoky/leebox/internal/apperrors"
)

type setupResponse struct {
	ID        string `json:"id"`
	SecretKey string `json:"secretKey"`
}

type roomSnapshot struct {
	ID                 string    `json:"id"`
	PlayerCount        int       `json:"playerCount"`
	Locked             bool      `json:"locked"`
	Players            []*Player `json:"players"`
	ReconnectedPlayers []*Player `json:"reconnectedPlayers"`
}

type optionRequest struct {
	Message string   `json:"message"`
	Options []string `json:"options"`
	Images  []string `json:"images"`
}

func newOptionRequest(question string, options, images []string) optionRequest {
	if options == nil {
		options = []string{}
	}
	if images == nil {
		images = []string{}
	}
	return optionRequest{Message: question, Options: options, Images: images}
}

// Room is the local mirror of one room on the service.
//
// The roster is replaced as a whole by every Sync; nothing patches it in
// between. Players that the service reports as reconnected are kept on a
// stack, most recent on top, with at most one entry per player id.
type Room struct {
	session    *Session
	maxPlayers int

	mu          sync.RWMutex
	id          string
	secretKey   string
	locked      bool
	playerCount int
	players     []*Player
	reconnected []*Player // top of stack is the last element
}

func newRoom(s *Session, maxPlayers int) *Room {
	return &Room{
		session:    s,
		maxPlayers: maxPlayers,
	}
}

// setup registers the room with the service. It runs once, from
// Session.CreateRoom.
func (r *Room) setup(ctx context.Context) error {
	var resp *setupResponse
	if err := r.session.doJSON(ctx, request{method: http.MethodGet, path: "/newroom"}, &resp); err != nil {
		return err
	}
	if resp == nil || resp.ID == "" || resp.SecretKey == "" {
		return apperrors.ErrRoomNotCreated
	}

	r.mu.Lock()
	r.id = resp.ID
	r.secretKey = resp.SecretKey
	r.mu.Unlock()
	return nil
}

// credentials returns the room id and key, or ErrNoSecretKey.
func (r *Room) credentials() (string, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.secretKey == "" {
		return "", "", apperrors.ErrNoSecretKey
	}
	return r.id, r.secretKey, nil
}

// ID returns the id assigned by the service.
func (r *Room) ID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

// MaxPlayers returns the capacity the room was created with.
func (r *Room) MaxPlayers() int {
	return r.maxPlayers
}

// Locked reports the lock state from the last sync.
func (r *Room) Locked() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locked
}

// PlayerCount returns the player count the service reported on the last sync.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playerCount
}

// Players returns a copy of the roster from the last sync, in server order.
func (r *Room) Players() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// All iterates over the roster. Each iteration works on the roster as it was
// when that iteration started, so a concurrent Sync never affects it.
func (r *Room) All() iter.Seq[*Player] {
	return func(yield func(*Player) bool) {
		for _, p := range r.Players() {
			if !yield(p) {
				return
			}
		}
	}
}

// Sync fetches the room from the service and replaces the local state.
func (r *Room) Sync(ctx context.Context) error {
	_, err := r.SyncReconnects(ctx)
	return err
}

// SyncReconnects is Sync, also returning how many players this sync pushed
// onto the reconnect stack.
func (r *Room) SyncReconnects(ctx context.Context) (int, error) {
	id, key, err := r.credentials()
	if err != nil {
		return 0, err
	}

	var snap *roomSnapshot
	if err := r.session.doJSON(ctx, request{method: http.MethodGet, path: roomPath(id), secretKey: key}, &snap); err != nil {
		return 0, err
	}
	if snap == nil {
		return 0, apperrors.ErrEmptySnapshot
	}
	if snap.ID != id {
		return 0, fmt.Errorf("%w: expected %q, got %q", apperrors.ErrRoomMismatch, id, snap.ID)
	}

	added := r.apply(snap)
	if added > 0 {
		r.session.log.Info("players reconnected", "room", id, "count", added)
	}
	r.recordRoster(ctx)
	return added, nil
}

// apply installs a snapshot and returns how many players were pushed onto
// the reconnect stack.
func (r *Room) apply(snap *roomSnapshot) int {
	players := make([]*Player, 0, len(snap.Players))
	for _, p := range snap.Players {
		if p == nil {
			continue
		}
		p.room = r
		players = append(players, p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.players = players
	r.playerCount = snap.PlayerCount
	r.locked = snap.Locked

	added := 0
	for _, rp := range snap.ReconnectedPlayers {
		if rp == nil {
			continue
		}
		current := r.findByIDLocked(rp.ID)
		if current == nil || r.reconnectedLocked(current.ID) {
			continue
		}
		r.reconnected = append(r.reconnected, current)
		added++
	}
	return added
}

func (r *Room) findByIDLocked(playerID string) *Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) reconnectedLocked(playerID string) bool {
	for _, p := range r.reconnected {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// PlayerByID looks a player up in the current roster.
func (r *Room) PlayerByID(playerID string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.findByIDLocked(playerID)
	return p, p != nil
}

// PlayerByName returns the first player in the roster with the given display
// name. Names are not unique.
func (r *Room) PlayerByName(name string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Reconnected returns the reconnect stack, most recent first.
func (r *Room) Reconnected() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Player, 0, len(r.reconnected))
	for i := len(r.reconnected) - 1; i >= 0; i-- {
		out = append(out, r.reconnected[i])
	}
	return out
}

// PeekReconnected returns the most recently reconnected player without
// removing it.
func (r *Room) PeekReconnected() (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.reconnected) == 0 {
		return nil, false
	}
	return r.reconnected[len(r.reconnected)-1], true
}

// PopReconnected removes and returns the most recently reconnected player.
func (r *Room) PopReconnected() (*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.reconnected)
	if n == 0 {
		return nil, false
	}
	p := r.reconnected[n-1]
	r.reconnected[n-1] = nil
	r.reconnected = r.reconnected[:n-1]
	return p, true
}

// SetLocked opens or closes the room to new players, then syncs.
func (r *Room) SetLocked(ctx context.Context, locked bool) error {
	id, key, err := r.credentials()
	if err != nil {
		return err
	}
	if _, err := r.session.do(ctx, request{
		method:    http.MethodPost,
		path:      roomPath(id, "setlocked"),
		body:      locked,
		secretKey: key,
	}); err != nil {
		return err
	}
	return r.Sync(ctx)
}

// Broadcast sends a message to every player.
func (r *Room) Broadcast(ctx context.Context, message string) error {
	return r.post(ctx, "broadcast", message)
}

// SetImage sets the room header image.
func (r *Room) SetImage(ctx context.Context, url string) error {
	return r.post(ctx, "setImage", url)
}

func (r *Room) post(ctx context.Context, action string, body any) error {
	id, key, err := r.credentials()
	if err != nil {
		return err
	}
	_, err = r.session.do(ctx, request{
		method:    http.MethodPost,
		path:      roomPath(id, action),
		body:      body,
		secretKey: key,
	})
	return err
}

// AskAll asks every player a free-text question. The result only holds
// players that are in the roster when the answers arrive.
func (r *Room) AskAll(ctx context.Context, question string, timeoutSeconds int) (Answers, error) {
	return r.collect(ctx, kindAsk, question, question, timeoutSeconds)
}

// OptionAll asks every player a multiple choice question. images may be nil
// or hold one image url per option.
func (r *Room) OptionAll(ctx context.Context, question string, options, images []string, timeoutSeconds int) (Answers, error) {
	return r.collect(ctx, kindOptions, question, newOptionRequest(question, options, images), timeoutSeconds)
}

// DrawAll asks every player to draw something.
func (r *Room) DrawAll(ctx context.Context, prompt string, timeoutSeconds int) (Answers, error) {
	return r.collect(ctx, kindDraw, prompt, prompt, timeoutSeconds)
}

func (r *Room) collect(ctx context.Context, kind, prompt string, body any, timeoutSeconds int) (Answers, error) {
	id, key, err := r.credentials()
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := r.session.doJSON(ctx, request{
		method:    http.MethodPost,
		path:      roomPath(id, kind),
		query:     timeoutQuery(r.session.promptTimeout(timeoutSeconds)),
		body:      body,
		secretKey: key,
	}, &raw); err != nil {
		return nil, err
	}

	answers := r.correlate(raw)
	if dropped := len(raw) - len(answers); dropped > 0 {
		r.session.log.Debug("dropped answers from unknown players", "room", id, "kind", kind, "count", dropped)
	}
	r.recordAnswers(ctx, kind, prompt, answers)
	return answers, nil
}

// correlate maps player ids to handles of the current roster. Ids without a
// handle are left out.
func (r *Room) correlate(raw map[string]string) Answers {
	r.mu.RLock()
	defer r.mu.RUnlock()

	answers := make(Answers, len(raw))
	for playerID, answer := range raw {
		if p := r.findByIDLocked(playerID); p != nil {
			answers[p] = answer
		}
	}
	return answers
}
