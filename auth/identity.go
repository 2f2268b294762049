// Package auth owns the user's identity against the content API: the three
// identity-establishment flows, the current-identity state machine, and its
// persistence across restarts.
package auth

import "time"

// IdentityKind discriminates the three identity states.
type IdentityKind int

const (
	// KindAnonymous is the default and reset state.
	KindAnonymous IdentityKind = iota
	// KindLoggedIn holds an account-backed session.
	KindLoggedIn
	// KindGuest holds a time-boxed anonymous session.
	KindGuest
)

func (k IdentityKind) String() string {
	switch k {
	case KindLoggedIn:
		return "logged_in"
	case KindGuest:
		return "guest"
	default:
		return "anonymous"
	}
}

// Identity is the closed three-case variant of "who is the current user".
// Only the fields of the active Kind are meaningful; transitions replace
// the whole value, never mutate another case's fields.
type Identity struct {
	Kind IdentityKind

	// LoggedIn fields.
	SessionID string
	AccountID *int64

	// Guest fields.
	GuestSessionID string
	ExpiresAt      *time.Time
}

// Anonymous returns the reset identity.
func Anonymous() Identity {
	return Identity{Kind: KindAnonymous}
}

// LoggedIn returns an account-backed identity.
func LoggedIn(sessionID string, accountID *int64) Identity {
	return Identity{Kind: KindLoggedIn, SessionID: sessionID, AccountID: accountID}
}

// Guest returns a guest identity with an optional expiry.
func Guest(guestSessionID string, expiresAt *time.Time) Identity {
	return Identity{Kind: KindGuest, GuestSessionID: guestSessionID, ExpiresAt: expiresAt}
}

// AuthenticatedAt reports whether the identity counts as authenticated at
// the given instant. Logged-in is always authenticated; a guest only while
// not expired; anonymous never.
func (i Identity) AuthenticatedAt(now time.Time) bool {
	switch i.Kind {
	case KindLoggedIn:
		return true
	case KindGuest:
		return !i.expiredAt(now)
	default:
		return false
	}
}

func (i Identity) expiredAt(now time.Time) bool {
	if i.Kind != KindGuest || i.ExpiresAt == nil {
		return false
	}
	return !now.Before(*i.ExpiresAt)
}
