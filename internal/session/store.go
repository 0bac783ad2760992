package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tordrt/askdb/internal/translator"
)

// Store holds the live sessions in memory
type Store struct {
	parser     SchemaParser
	translator translator.Translator

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store
func NewStore(parser SchemaParser, tr translator.Translator) *Store {
	return &Store{
		parser:     parser,
		translator: tr,
		sessions:   make(map[string]*Session),
	}
}

// Create starts a new session without a schema
func (st *Store) Create() *Session {
	s := &Session{
		id:         uuid.NewString(),
		createdAt:  time.Now(),
		parser:     st.parser,
		translator: st.translator,
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
	return s
}

// Get returns the session with the given ID
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes the session with the given ID
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
