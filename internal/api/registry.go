package api

import (
	"sync"
	"time"

	"github.com/abhisek/akaun/internal/session"
)

type entry struct {
	sess     *session.Session
	lastSeen time.Time
}

// registry holds live sessions in memory. Sessions idle for longer than
// ttl are dropped on the next sweep or lookup.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

func newRegistry(ttl time.Duration, now func() time.Time) *registry {
	return &registry{sessions: make(map[string]*entry), ttl: ttl, now: now}
}

func (r *registry) put(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = &entry{sess: s, lastSeen: r.now()}
}

func (r *registry) get(id string) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.expired(e, now) {
		delete(r.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e.sess, true
}

func (r *registry) expired(e *entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastSeen) > r.ttl
}

// sweep removes expired sessions and returns how many remain.
func (r *registry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, id)
		}
	}
	return len(r.sessions)
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
