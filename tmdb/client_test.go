package tmdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoResponse struct {
	Success bool `json:"success"`
}

func newEchoServer(t *testing.T, capture *http.Request, captureBody *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = *r
		if captureBody != nil {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			*captureBody = data
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(echoResponse{Success: true})
	}))
}

func TestClientAPIKeyInQuery(t *testing.T) {
	var got http.Request
	srv := newEchoServer(t, &got, nil)
	defer srv.Close()

	c := NewClient(Keys{APIKey: "k3y"}, WithBaseURL(srv.URL))
	var out echoResponse
	require.NoError(t, c.Do(context.Background(), Endpoint{Path: "/x"}, &out))

	assert.True(t, out.Success)
	assert.Equal(t, "k3y", got.URL.Query().Get("api_key"))
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestClientBearerToken(t *testing.T) {
	var got http.Request
	srv := newEchoServer(t, &got, nil)
	defer srv.Close()

	c := NewClient(Keys{APIKey: "k3y", AccessToken: "t0ken"}, WithBaseURL(srv.URL))
	var out echoResponse
	require.NoError(t, c.Do(context.Background(), Endpoint{Path: "/x"}, &out))

	assert.Equal(t, "Bearer t0ken", got.Header.Get("Authorization"))
	// The token must never leak into the query string.
	assert.Empty(t, got.URL.Query().Get("api_key"))
	assert.NotContains(t, got.URL.RawQuery, "t0ken")
}

func TestClientEndpointForcesAPIKey(t *testing.T) {
	var got http.Request
	srv := newEchoServer(t, &got, nil)
	defer srv.Close()

	// Bearer is the configured default, but the endpoint override wins.
	c := NewClient(Keys{APIKey: "k3y", AccessToken: "t0ken"}, WithBaseURL(srv.URL))
	var out echoResponse
	require.NoError(t, c.Do(context.Background(), Endpoint{Path: "/x", Auth: AuthAPIKey}, &out))

	assert.Equal(t, "k3y", got.URL.Query().Get("api_key"))
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestClientLanguageMerging(t *testing.T) {
	tests := []struct {
		name  string
		query map[string]string
		want  string
	}{
		{"default applied", nil, "en-US"},
		{"endpoint wins", map[string]string{"language": "de-DE"}, "de-DE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got http.Request
			srv := newEchoServer(t, &got, nil)
			defer srv.Close()

			c := NewClient(Keys{APIKey: "k"}, WithBaseURL(srv.URL))
			var out echoResponse
			require.NoError(t, c.Do(context.Background(), Endpoint{Path: "/x", Query: tt.query}, &out))
			assert.Equal(t, tt.want, got.URL.Query().Get("language"))
		})
	}
}

func TestClientPostBodyAndHeaders(t *testing.T) {
	var got http.Request
	var body []byte
	srv := newEchoServer(t, &got, &body)
	defer srv.Close()

	c := NewClient(Keys{APIKey: "k"}, WithBaseURL(srv.URL))
	ep := ValidateTokenWithLogin("test_user", "test_pass", "token_123")
	var out echoResponse
	require.NoError(t, c.Do(context.Background(), ep, &out))

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/authentication/token/validate_with_login", got.URL.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "test_user", decoded["username"])
	assert.Equal(t, "test_pass", decoded["password"])
	assert.Equal(t, "token_123", decoded["request_token"])
}

func TestClientDecodingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(Keys{APIKey: "k"}, WithBaseURL(srv.URL))
	var out echoResponse
	err := c.Do(context.Background(), Endpoint{Path: "/x"}, &out)

	var decErr *DecodingError
	require.ErrorAs(t, err, &decErr)
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(Keys{APIKey: "k"}, WithBaseURL(srv.URL))
	var out echoResponse
	err := c.Do(context.Background(), Endpoint{Path: "/x"}, &out)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "/x", netErr.Path)
}
