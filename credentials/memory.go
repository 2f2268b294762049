package credentials

import (
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory Store. Credentials are lost on
// process exit; intended for tests and demos.
type MemoryStore struct {
	mu        sync.RWMutex
	sessionID string
	hasLogin  bool
	guest     GuestSession
	hasGuest  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ReadSessionID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID, s.hasLogin
}

func (s *MemoryStore) ReadGuestSession() (GuestSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasGuest {
		return GuestSession{}, false
	}
	out := GuestSession{SessionID: s.guest.SessionID}
	if s.guest.ExpiresAt != nil {
		t := *s.guest.ExpiresAt
		out.ExpiresAt = &t
	}
	return out, true
}

func (s *MemoryStore) WriteSessionID(id string) {
	s.mu.Lock()
	s.sessionID = id
	s.hasLogin = true
	s.mu.Unlock()
}

func (s *MemoryStore) WriteGuestSession(id string, expiresAt *time.Time) {
	s.mu.Lock()
	s.guest = GuestSession{SessionID: id}
	if expiresAt != nil {
		t := *expiresAt
		s.guest.ExpiresAt = &t
	}
	s.hasGuest = true
	s.mu.Unlock()
}

func (s *MemoryStore) ClearAll() {
	s.mu.Lock()
	s.sessionID = ""
	s.hasLogin = false
	s.guest = GuestSession{}
	s.hasGuest = false
	s.mu.Unlock()
}

func (s *MemoryStore) ClearGuestSession() {
	s.mu.Lock()
	s.guest = GuestSession{}
	s.hasGuest = false
	s.mu.Unlock()
}
