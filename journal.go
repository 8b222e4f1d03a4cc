package leebox

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/leebox/internal/storage"
)

// recordRoster saves the current roster. Journal failures are logged and never
// fail the caller's operation.
func (r *Room) recordRoster(ctx context.Context) {
	j := r.session.journal
	if j == nil {
		return
	}

	r.mu.RLock()
	data := &storage.RosterData{
		RoomID:      r.id,
		PlayerCount: r.playerCount,
		Locked:      r.locked,
		Players:     make([]storage.PlayerData, 0, len(r.players)),
		SyncedAt:    time.Now().Unix(),
	}
	for _, p := range r.players {
		data.Players = append(data.Players, storage.PlayerData{ID: p.ID, Name: p.Name})
	}
	r.mu.RUnlock()

	if err := j.SaveRoster(ctx, data.RoomID, data); err != nil {
		r.session.log.Warn("journal: save roster failed", "room", data.RoomID, "err", err)
	}
}

func (r *Room) recordAnswers(ctx context.Context, kind, prompt string, answers Answers) {
	j := r.session.journal
	if j == nil {
		return
	}

	roomID := r.ID()
	data := &storage.AnswerData{
		PromptID: uuid.NewString(),
		Kind:     kind,
		Prompt:   prompt,
		Answers:  answers.ByID(),
		AskedAt:  time.Now().Unix(),
	}
	if err := j.SaveAnswers(ctx, roomID, data); err != nil {
		r.session.log.Warn("journal: save answers failed", "room", roomID, "kind", kind, "err", err)
	}
}
