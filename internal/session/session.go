// Package session holds the in-memory conversation state of one chat session.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/diogo/groqchat/internal/models"
)

// EventType identifies a transcript mutation
type EventType int

const (
	EventAppended EventType = iota
	EventCleared
)

func (t EventType) String() string {
	switch t {
	case EventAppended:
		return "appended"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event describes a mutation delivered to observers after it has been applied
type Event struct {
	Type EventType
	// Turn is the appended turn; zero for EventCleared
	Turn models.Turn
	// Len is the number of turns after the mutation
	Len int
}

// Observer is notified after every transcript mutation. Observers run on the
// mutating goroutine, outside the session lock.
type Observer func(Event)

// Session owns the ordered transcript and the API credential of one user.
// Safe for concurrent use.
type Session struct {
	id string

	mu         sync.RWMutex
	turns      []models.Turn
	credential string
	observers  []Observer
}

// New creates an empty session with a fresh identifier
func New() *Session {
	return &Session{
		id: uuid.Must(uuid.NewV7()).String(),
	}
}

// ID returns the unique session identifier
func (s *Session) ID() string {
	return s.id
}

// Append adds turn to the end of the transcript
func (s *Session) Append(turn models.Turn) error {
	if !turn.Role.Valid() {
		return fmt.Errorf("invalid role %q", turn.Role)
	}
	if turn.IsEmpty() {
		return fmt.Errorf("turn content is empty")
	}

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	n := len(s.turns)
	observers := s.observers
	s.mu.Unlock()

	notify(observers, Event{Type: EventAppended, Turn: turn, Len: n})
	return nil
}

// Clear removes every turn. The credential is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	s.turns = nil
	observers := s.observers
	s.mu.Unlock()

	notify(observers, Event{Type: EventCleared})
}

// Turns returns a copy of the transcript in insertion order
func (s *Session) Turns() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]models.Turn, len(s.turns))
	copy(copied, s.turns)
	return copied
}

// Len returns the number of turns
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// LastAssistant returns the most recent assistant turn
func (s *Session) LastAssistant() (models.Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == models.RoleAssistant {
			return s.turns[i], true
		}
	}
	return models.Turn{}, false
}

// SetCredential replaces the API key. Surrounding whitespace is dropped.
func (s *Session) SetCredential(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = strings.TrimSpace(key)
}

// Credential returns the API key
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// HasCredential reports whether an API key is set
func (s *Session) HasCredential() bool {
	return s.Credential() != ""
}

// Subscribe registers an observer for transcript mutations
func (s *Session) Subscribe(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// copy-on-write so notify can iterate without the lock
	observers := make([]Observer, len(s.observers), len(s.observers)+1)
	copy(observers, s.observers)
	s.observers = append(observers, o)
}

func notify(observers []Observer, ev Event) {
	for _, o := range observers {
		o(ev)
	}
}
