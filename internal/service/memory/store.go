package memory

import (
	"sync"

	"github.com/sandevgo/barista/internal/core"
)

// DefaultMaxTurns is the history bound applied after every successful turn.
const DefaultMaxTurns = 4

// Store is the process-wide memory table: one bounded history per user.
// It lives as long as the process and is never persisted. The mutex only
// protects the map itself; callers that read, modify and write back a
// history must hold the user's lock from Locker.
type Store struct {
	mu    sync.RWMutex
	table map[core.UserID][]core.Turn
}

func NewStore() *Store {
	return &Store{
		table: make(map[core.UserID][]core.Turn),
	}
}

// Get returns a copy of the user's history, oldest first. Unknown users get
// an empty slice.
func (s *Store) Get(userID core.UserID) []core.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.table[userID])
}

// Put replaces the user's history.
func (s *Store) Put(userID core.UserID, turns []core.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[userID] = clone(turns)
}

// AppendAndGet appends turn to the user's history, creating it if absent, and
// returns the resulting history.
func (s *Store) AppendAndGet(userID core.UserID, turn core.Turn) []core.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[userID] = append(s.table[userID], turn)
	return clone(s.table[userID])
}

// Trim evicts the oldest entries until at most maxLen remain.
func (s *Store) Trim(userID core.UserID, maxLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns, ok := s.table[userID]
	if !ok {
		return
	}
	s.table[userID] = TrimTurns(turns, maxLen)
}

// Users reports how many users have a history.
func (s *Store) Users() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}

// TrimTurns keeps the maxLen most recent turns in their original order.
// The result never aliases the input.
func TrimTurns(turns []core.Turn, maxLen int) []core.Turn {
	if maxLen < 0 {
		maxLen = 0
	}
	if len(turns) > maxLen {
		turns = turns[len(turns)-maxLen:]
	}
	return clone(turns)
}

func clone(turns []core.Turn) []core.Turn {
	out := make([]core.Turn, len(turns))
	copy(out, turns)
	return out
}
