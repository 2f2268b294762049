// Package credentials provides durable, secret-safe persistence for session
// identifiers so an identity survives process restarts.
package credentials

import "time"

// GuestSession is the persisted guest credential pair. A nil ExpiresAt
// means the session is treated as never-expiring by this layer; restore
// logic re-validates expiry regardless.
type GuestSession struct {
	SessionID string
	ExpiresAt *time.Time
}

// Store abstracts credential persistence so callers can swap the durable
// implementation for an in-memory one in tests.
//
// Writes have overwrite semantics keyed by fixed logical keys. Reads never
// fail: absent data reports ok=false. Guest fields are always written
// together, so no cross-key transactionality is needed. Implementations
// serialize their own reads and writes; callers may touch the store
// concurrently during startup. Calls must be fast and never suspend.
type Store interface {
	// ReadSessionID returns the persisted login session id, if any.
	ReadSessionID() (string, bool)
	// ReadGuestSession returns the persisted guest credential, if any.
	ReadGuestSession() (GuestSession, bool)
	// WriteSessionID persists the login session id.
	WriteSessionID(id string)
	// WriteGuestSession persists the guest session id and expiry together.
	WriteGuestSession(id string, expiresAt *time.Time)
	// ClearAll removes both login and guest credentials.
	ClearAll()
	// ClearGuestSession removes only the guest credential.
	ClearGuestSession()
}
