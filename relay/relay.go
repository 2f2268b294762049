// Package relay runs a loopback HTTP server that captures the provider's
// browser redirect during the authorization flow. Processes that cannot
// register a custom URL scheme point the provider's redirect_to at this
// server instead and hand the captured URL to the identity store.
package relay

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
)

const callbackPath = "/auth/callback"

const doneBody = `<!doctype html><title>screenpass</title>
<p>Authorization received. You can close this window.</p>`

// Server captures a single redirect URL on a loopback address.
type Server struct {
	ln   net.Listener
	srv  *http.Server
	urls chan *url.URL
}

// NewServer listens on addr (e.g. "127.0.0.1:0") and returns a server
// ready to Start. The chosen port is reflected in RedirectURL.
func NewServer(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	s := &Server{
		ln:   ln,
		urls: make(chan *url.URL, 1),
	}

	r := chi.NewRouter()
	r.Get(callbackPath, s.handleCallback)
	s.srv = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// RedirectURL returns the callback URL to register as redirect_to.
func (s *Server) RedirectURL() string {
	return "http://" + s.ln.Addr().String() + callbackPath
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		// Serve returns http.ErrServerClosed after Shutdown; any earlier
		// failure shows up as the caller's Wait timing out.
		_ = s.srv.Serve(s.ln)
	}()
}

// Wait blocks until a callback arrives or ctx is done.
func (s *Server) Wait(ctx context.Context) (*url.URL, error) {
	select {
	case u := <-s.urls:
		return u, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	captured := &url.URL{
		Scheme:   "http",
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
	select {
	case s.urls <- captured:
	default:
		// A callback was already captured; ignore duplicates.
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(doneBody))
}
