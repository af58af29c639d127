package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session couples a session identifier with its owned State.
type Session struct {
	ID        string
	State     *State
	CreatedAt time.Time
}

// Registry holds the live sessions of the hosting process. Each session owns
// an independent State, so concurrent sessions cannot interfere.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Create() *Session {
	session := &Session{
		ID:        uuid.NewString(),
		State:     NewState(),
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return session
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Remove drops the session entirely; a later query with the same id fails.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}
