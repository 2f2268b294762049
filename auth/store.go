package auth

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/screenpass/screenpass/credentials"
)

// FlowRecorder receives one observation per finished identity flow.
type FlowRecorder interface {
	RecordAuthFlow(flow, outcome string)
}

// Store owns the current identity. All mutations go through its methods
// and commit atomically: network exchanges run without any lock held, then
// the result is committed under the lock after a cancellation check, so a
// cancelled flow leaves the prior identity and persisted credentials
// untouched and no caller ever observes a partial update.
type Store struct {
	svc      *Service
	creds    credentials.Store
	now      func() time.Time
	logger   *slog.Logger
	recorder FlowRecorder

	mu       sync.RWMutex
	identity Identity

	observerMu sync.Mutex
	observers  []func(Identity)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used for guest expiry checks.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithStoreLogger sets the structured logger for identity transitions.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// WithFlowRecorder sets the metrics recorder for identity flows.
func WithFlowRecorder(r FlowRecorder) StoreOption {
	return func(s *Store) { s.recorder = r }
}

// NewStore creates a Store starting out Anonymous. Call Restore once at
// startup to pick up a persisted identity.
func NewStore(svc *Service, creds credentials.Store, opts ...StoreOption) *Store {
	s := &Store{
		svc:      svc,
		creds:    creds,
		now:      time.Now,
		identity: Anonymous(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Identity returns the current identity.
func (s *Store) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// IsAuthenticated reports whether the current identity counts as
// authenticated right now. Guest expiry is computed live against the
// clock, not cached, so the flag flips the instant the expiry passes.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.AuthenticatedAt(s.now())
}

// OnChange registers an observer invoked after every identity transition.
// Observers run outside the store's lock.
func (s *Store) OnChange(fn func(Identity)) {
	s.observerMu.Lock()
	s.observers = append(s.observers, fn)
	s.observerMu.Unlock()
}

// Restore loads a persisted identity from the credential store. A login
// session wins over a guest session when both exist; an already-expired
// guest session is cleared and the store stays Anonymous.
func (s *Store) Restore() {
	if id, ok := s.creds.ReadSessionID(); ok {
		s.transition(LoggedIn(id, nil), "restore")
		return
	}

	guest, ok := s.creds.ReadGuestSession()
	if !ok {
		return
	}
	if guest.ExpiresAt != nil && !s.now().Before(*guest.ExpiresAt) {
		s.creds.ClearGuestSession()
		return
	}
	s.transition(Guest(guest.SessionID, guest.ExpiresAt), "restore")
}

// LoginWithCredentials establishes a logged-in session from a username and
// password. Empty fields fail fast with ErrMissingCredentials before any
// network call.
func (s *Store) LoginWithCredentials(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		s.record("login", "missing_credentials")
		return ErrMissingCredentials
	}

	result, err := s.svc.CreateSessionFromLogin(ctx, username, password)
	if err != nil {
		s.fail("login", err)
		return err
	}
	return s.commitLogin(ctx, "login", result)
}

// LoginAsGuest establishes a guest session.
func (s *Store) LoginAsGuest(ctx context.Context) error {
	result, err := s.svc.CreateGuestSession(ctx)
	if err != nil {
		s.fail("guest", err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.identity = Guest(result.SessionID, result.ExpiresAt)
	s.creds.WriteGuestSession(result.SessionID, result.ExpiresAt)
	id := s.identity
	s.mu.Unlock()

	s.record("guest", "success")
	s.logTransition(id, "guest")
	s.notify(id)
	return nil
}

// HandleCallback processes a redirect URL from the browser flow. URLs that
// are not the registered callback are silently ignored; a declined
// authorization fails with ErrNotApproved and leaves identity unchanged.
func (s *Store) HandleCallback(ctx context.Context, u *url.URL) error {
	payload := s.svc.ParseCallback(u)
	if payload == nil {
		return nil
	}
	if !payload.Approved {
		s.record("callback", "not_approved")
		return ErrNotApproved
	}

	result, err := s.svc.ExchangeSession(ctx, payload.RequestToken)
	if err != nil {
		s.fail("callback", err)
		return err
	}
	return s.commitLogin(ctx, "callback", result)
}

// Logout clears all persisted credentials and resets to Anonymous,
// unconditionally.
func (s *Store) Logout() {
	s.mu.Lock()
	s.creds.ClearAll()
	s.identity = Anonymous()
	id := s.identity
	s.mu.Unlock()

	s.record("logout", "success")
	s.logTransition(id, "logout")
	s.notify(id)
}

// InvalidateGuestSessionIfExpired clears the guest credentials and resets
// to Anonymous when the current identity is a guest whose expiry is in the
// past. Otherwise it is a no-op. Intended to run whenever the application
// regains foreground focus.
func (s *Store) InvalidateGuestSessionIfExpired() {
	s.mu.Lock()
	if !s.identity.expiredAt(s.now()) {
		s.mu.Unlock()
		return
	}
	s.creds.ClearGuestSession()
	s.identity = Anonymous()
	id := s.identity
	s.mu.Unlock()

	s.logTransition(id, "guest_expired")
	s.notify(id)
}

func (s *Store) commitLogin(ctx context.Context, flow string, result AuthResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.identity = LoggedIn(result.SessionID, nil)
	s.creds.WriteSessionID(result.SessionID)
	id := s.identity
	s.mu.Unlock()

	s.record(flow, "success")
	s.logTransition(id, flow)
	s.notify(id)
	return nil
}

func (s *Store) transition(id Identity, flow string) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
	s.logTransition(id, flow)
	s.notify(id)
}

func (s *Store) notify(id Identity) {
	s.observerMu.Lock()
	observers := make([]func(Identity), len(s.observers))
	copy(observers, s.observers)
	s.observerMu.Unlock()
	for _, fn := range observers {
		fn(id)
	}
}

func (s *Store) record(flow, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordAuthFlow(flow, outcome)
	}
}

func (s *Store) fail(flow string, err error) {
	s.record(flow, "error")
	if s.logger != nil {
		s.logger.Warn("identity flow failed",
			slog.String("flow", flow),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Store) logTransition(id Identity, flow string) {
	if s.logger != nil {
		s.logger.Info("identity changed",
			slog.String("flow", flow),
			slog.String("identity", id.Kind.String()),
		)
	}
}
