package leebox

import (
	"context"
	"net/http"

	"github.com/palemoky/leebox/internal/apperrors"
)

// Player is one participant as reported by the last Sync of its room.
//
// A Player does not own its room; the room sets the back reference whenever it
// installs a roster. Two Player values describe the same participant iff
// their IDs are equal.
type Player struct {
	ID   string `json:"playerId"`
	Name string `json:"playerName"`

	room *Room
}

// Room returns the room this player was synced into, or nil.
func (p *Player) Room() *Room {
	return p.room
}

// Is reports whether p and other are the same participant.
func (p *Player) Is(other *Player) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.ID == other.ID
}

func (p *Player) String() string {
	return p.Name + " (" + p.ID + ")"
}

func (p *Player) credentials() (*Session, string, string, error) {
	if p.room == nil {
		return nil, "", "", apperrors.ErrNoSecretKey
	}
	id, key, err := p.room.credentials()
	return p.room.session, id, key, err
}

func (p *Player) post(ctx context.Context, action string, body any) error {
	s, roomID, key, err := p.credentials()
	if err != nil {
		return err
	}
	_, err = s.do(ctx, request{
		method:    http.MethodPost,
		path:      roomPath(roomID, action, p.ID),
		body:      body,
		secretKey: key,
	})
	return err
}

func (p *Player) prompt(ctx context.Context, kind string, body any, timeoutSeconds int) (string, error) {
	s, roomID, key, err := p.credentials()
	if err != nil {
		return "", err
	}
	data, err := s.do(ctx, request{
		method:    http.MethodPost,
		path:      roomPath(roomID, kind, p.ID),
		query:     timeoutQuery(s.promptTimeout(timeoutSeconds)),
		body:      body,
		secretKey: key,
	})
	if err != nil {
		return "", err
	}
	return decodeAnswer(data), nil
}

// Say sends a message to this player only.
func (p *Player) Say(ctx context.Context, message string) error {
	return p.post(ctx, "say", message)
}

// SetImage sets this player's avatar.
func (p *Player) SetImage(ctx context.Context, url string) error {
	return p.post(ctx, "setImage", url)
}

// Ask sends a free-text question and blocks until the service returns the
// answer or its own timeout elapses. timeoutSeconds <= 0 uses the session
// default.
func (p *Player) Ask(ctx context.Context, question string, timeoutSeconds int) (string, error) {
	return p.prompt(ctx, kindAsk, question, timeoutSeconds)
}

// Option sends a multiple choice question and returns the chosen option.
func (p *Player) Option(ctx context.Context, question string, options, images []string, timeoutSeconds int) (string, error) {
	return p.prompt(ctx, kindOptions, newOptionRequest(question, options, images), timeoutSeconds)
}

// Draw asks the player to draw something and returns the drawing reference.
func (p *Player) Draw(ctx context.Context, prompt string, timeoutSeconds int) (string, error) {
	return p.prompt(ctx, kindDraw, prompt, timeoutSeconds)
}
