package conversation

import (
	"sync"

	"resume-assistant-be/internal/entity"
)

// Store holds the active candidate identity and its append-only transcript.
type Store struct {
	mu      sync.RWMutex
	session entity.CandidateSession
	turns   []entity.ConversationTurn
}

func NewStore(session entity.CandidateSession) *Store {
	return &Store{session: session}
}

func (s *Store) Session() entity.CandidateSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) Append(turn entity.ConversationTurn) {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

// Turns returns a copy of the transcript in chronological order.
func (s *Store) Turns() []entity.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Replace swaps in a new candidate and drops the old transcript.
func (s *Store) Replace(session entity.CandidateSession) {
	s.mu.Lock()
	s.session = session
	s.turns = nil
	s.mu.Unlock()
}
