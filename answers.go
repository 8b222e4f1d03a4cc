package leebox

// Prompt kinds, also the path element of their endpoints.
const (
	kindAsk     = "ask"
	kindOptions = "options"
	kindDraw    = "draw"
)

// Answers maps players to what they answered in a group prompt. Only players
// known to the room when the answers arrived are present.
type Answers map[*Player]string

// ByID returns the answers keyed by player id, the form to persist.
func (a Answers) ByID() map[string]string {
	out := make(map[string]string, len(a))
	for p, answer := range a {
		out[p.ID] = answer
	}
	return out
}

// Of returns the answer of the participant p refers to, matching by id so a
// handle from an earlier sync still finds its answer.
func (a Answers) Of(p *Player) (string, bool) {
	if p == nil {
		return "", false
	}
	if answer, ok := a[p]; ok {
		return answer, true
	}
	for q, answer := range a {
		if q.ID == p.ID {
			return answer, true
		}
	}
	return "", false
}

// InOrder returns the answers following the order of players, skipping
// players without an answer.
func (a Answers) InOrder(players []*Player) []Answer {
	out := make([]Answer, 0, len(a))
	for _, p := range players {
		if answer, ok := a.Of(p); ok {
			out = append(out, Answer{Player: p, Value: answer})
		}
	}
	return out
}

// Answer is one player's answer.
type Answer struct {
	Player *Player
	Value  string
}
