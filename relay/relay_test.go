package relay

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerCapturesCallback(t *testing.T) {
	s, err := NewServer("127.0.0.1:0")
	require.NoError(t, err)
	s.Start()
	defer s.Shutdown(context.Background())

	resp, err := http.Get(s.RedirectURL() + "?request_token=tok&approved=true")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	u, err := s.Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, "/auth/callback", u.Path)
	assert.Equal(t, "tok", u.Query().Get("request_token"))
	assert.Equal(t, "true", u.Query().Get("approved"))
}

func TestServerIgnoresOtherPaths(t *testing.T) {
	s, err := NewServer("127.0.0.1:0")
	require.NoError(t, err)
	s.Start()
	defer s.Shutdown(context.Background())

	resp, err := http.Get("http://" + s.ln.Addr().String() + "/other")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServerWaitHonorsCancellation(t *testing.T) {
	s, err := NewServer("127.0.0.1:0")
	require.NoError(t, err)
	s.Start()
	defer s.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
