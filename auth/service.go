package auth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/screenpass/screenpass/tmdb"
)

// DefaultRedirectURL is the app-registered callback the provider redirects
// to after the user approves or declines the request token.
const DefaultRedirectURL = "screenpass://auth/callback"

const defaultAuthenticateURL = "https://www.themoviedb.org/authenticate/"

// AuthResult is produced by a successful session exchange. Only SessionID
// outlives the flow; the rest is ephemeral.
type AuthResult struct {
	SessionID    string
	Approved     bool
	RequestToken string
}

// CallbackPayload is parsed from the provider's redirect URL.
type CallbackPayload struct {
	RequestToken string
	Approved     bool
}

// GuestResult is produced by guest session creation.
type GuestResult struct {
	SessionID string
	ExpiresAt *time.Time
}

// Service performs the three identity-establishment exchanges against the
// provider. It is stateless; one instance is reused across calls.
type Service struct {
	client          tmdb.Doer
	redirectURL     *url.URL
	authenticateURL string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service) error

// WithRedirectURL overrides the registered callback URL. CLI flows use a
// loopback address here instead of the custom scheme.
func WithRedirectURL(raw string) ServiceOption {
	return func(s *Service) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parsing redirect URL: %w", err)
		}
		s.redirectURL = u
		return nil
	}
}

// WithAuthenticateURL overrides the provider's browser-facing authorize
// page, mainly for tests.
func WithAuthenticateURL(raw string) ServiceOption {
	return func(s *Service) error {
		s.authenticateURL = raw
		return nil
	}
}

// NewService creates a Service dispatching through client.
func NewService(client tmdb.Doer, opts ...ServiceOption) (*Service, error) {
	redirect, err := url.Parse(DefaultRedirectURL)
	if err != nil {
		return nil, err
	}
	s := &Service{
		client:          client,
		redirectURL:     redirect,
		authenticateURL: defaultAuthenticateURL,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AuthorizationURL requests a fresh request token and returns the
// browser-facing URL the user approves it on.
func (s *Service) AuthorizationURL(ctx context.Context) (*url.URL, error) {
	var token tmdb.RequestTokenResponse
	if err := s.client.Do(ctx, tmdb.RequestToken(), &token); err != nil {
		return nil, err
	}

	u, err := url.Parse(s.authenticateURL + token.RequestToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %s%s", tmdb.ErrMalformedURL, s.authenticateURL, token.RequestToken)
	}
	q := u.Query()
	q.Set("redirect_to", s.redirectURL.String())
	u.RawQuery = q.Encode()
	return u, nil
}

// ParseCallback extracts the request token and approval flag from a
// redirect URL. Returns nil when the URL is not the registered callback
// (scheme, host and path must all match), so unrelated deep links can be
// ignored by the caller. It never fails.
func (s *Service) ParseCallback(u *url.URL) *CallbackPayload {
	if u == nil {
		return nil
	}
	if u.Scheme != s.redirectURL.Scheme || u.Host != s.redirectURL.Host || u.Path != s.redirectURL.Path {
		return nil
	}
	q := u.Query()
	token := q.Get("request_token")
	if token == "" {
		return nil
	}
	return &CallbackPayload{
		RequestToken: token,
		Approved:     q.Get("approved") == "true",
	}
}

// ExchangeSession exchanges an approved request token for a session.
// Approved is true by construction: callers only reach this after checking
// the callback's approval flag.
func (s *Service) ExchangeSession(ctx context.Context, requestToken string) (AuthResult, error) {
	var session tmdb.CreateSessionResponse
	if err := s.client.Do(ctx, tmdb.CreateSession(requestToken), &session); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		SessionID:    session.SessionID,
		Approved:     true,
		RequestToken: requestToken,
	}, nil
}

// CreateSessionFromLogin establishes a session from username and password:
// fetch a request token, validate it with the login, then exchange the
// validated token. The three calls are strictly sequential; each output
// token feeds the next call.
//
// When validation reports success=false the provider still returns a
// token, and a session is created from it with Approved=false. That
// mirrors the upstream flow and is flagged for product confirmation.
func (s *Service) CreateSessionFromLogin(ctx context.Context, username, password string) (AuthResult, error) {
	var token tmdb.RequestTokenResponse
	if err := s.client.Do(ctx, tmdb.RequestToken(), &token); err != nil {
		return AuthResult{}, err
	}

	var validated tmdb.RequestTokenResponse
	ep := tmdb.ValidateTokenWithLogin(username, password, token.RequestToken)
	if err := s.client.Do(ctx, ep, &validated); err != nil {
		return AuthResult{}, err
	}

	var session tmdb.CreateSessionResponse
	if err := s.client.Do(ctx, tmdb.CreateSession(validated.RequestToken), &session); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		SessionID:    session.SessionID,
		Approved:     validated.Success,
		RequestToken: validated.RequestToken,
	}, nil
}

// CreateGuestSession creates an anonymous, time-boxed guest session. An
// unparsable expiry degrades to nil rather than failing the call.
func (s *Service) CreateGuestSession(ctx context.Context) (GuestResult, error) {
	var guest tmdb.GuestSessionResponse
	if err := s.client.Do(ctx, tmdb.CreateGuestSession(), &guest); err != nil {
		return GuestResult{}, err
	}
	return GuestResult{
		SessionID: guest.GuestSessionID,
		ExpiresAt: tmdb.ParseExpiresAt(guest.ExpiresAt),
	}, nil
}
