package conversation

import (
	"sync"
	"time"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

// State is the append-only (question, analysis) log for one session. Append
// is the only mutation; History always returns turns in insertion order.
// Sessions never share a State instance.
type State struct {
	mu    sync.Mutex
	turns []domain.ConversationTurn
}

func NewState() *State {
	return &State{}
}

func (s *State) Append(turn domain.ConversationTurn) domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn.Index = len(s.turns)
	if turn.AskedAt.IsZero() {
		turn.AskedAt = time.Now().UTC()
	}
	s.turns = append(s.turns, turn)
	return turn
}

func (s *State) History() []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Window returns the trailing n turns in chronological order.
func Window(turns []domain.ConversationTurn, n int) []domain.ConversationTurn {
	if n <= 0 || len(turns) == 0 {
		return nil
	}
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
