package chat

import (
	"sync"

	"github.com/GabbasovDinar/TelegramBot/llm"
)

// Store keeps the in-memory conversation context per identity. It is the
// only mutable shared state in the core: every operation takes the store
// lock, so appends and resets for one identity are linearizable. The lock
// is never held across network calls.
//
// The durable message log lives in the db package and is independent of
// this context; resetting a conversation does not touch persisted history.
type Store struct {
	mu            sync.Mutex
	systemPrompt  string
	maxTurns      int
	conversations map[string][]llm.Message
}

// NewStore creates a conversation store. maxTurns bounds the number of kept
// turns including the system turn; 0 keeps the history unbounded. A window
// of one could hold nothing beyond the system turn, so the bound is clamped
// to two.
func NewStore(systemPrompt string, maxTurns int) *Store {
	if maxTurns == 1 {
		maxTurns = 2
	}
	return &Store{
		systemPrompt:  systemPrompt,
		maxTurns:      maxTurns,
		conversations: make(map[string][]llm.Message),
	}
}

// Append adds a turn to the identity's conversation, lazily initializing it
// with the system turn first. Once the window is exceeded, the oldest
// non-system turns are dropped; the leading system turn is never dropped.
func (s *Store) Append(identity, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[identity]
	if !ok {
		conv = []llm.Message{{Role: llm.RoleSystem, Content: s.systemPrompt}}
	}
	conv = append(conv, llm.Message{Role: role, Content: content})
	if s.maxTurns > 0 && len(conv) > s.maxTurns {
		trimmed := make([]llm.Message, 0, s.maxTurns)
		trimmed = append(trimmed, conv[0])
		trimmed = append(trimmed, conv[len(conv)-(s.maxTurns-1):]...)
		conv = trimmed
	}
	s.conversations[identity] = conv
}

// Snapshot returns a copy of the identity's full ordered turn history, or
// an empty slice when no conversation exists.
func (s *Store) Snapshot(identity string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.conversations[identity]...)
}

// Reset deletes the identity's conversation entirely, system turn included.
// The next Append reinitializes from scratch. Resetting an identity with no
// conversation is a no-op.
func (s *Store) Reset(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, identity)
}
