package tmdb

import "net/http"

// AuthMethod selects how a request authenticates against the API.
type AuthMethod int

const (
	// AuthDefault defers to the client's configured method: bearer token
	// when an access token is present, api key otherwise.
	AuthDefault AuthMethod = iota
	// AuthAPIKey sends the v3 api key as an `api_key` query parameter.
	AuthAPIKey
	// AuthBearer sends the v4 access token in the Authorization header.
	AuthBearer
)

// Endpoint describes one outbound API call: path, method, query parameters
// and an optional JSON body. The zero value of Method means GET.
type Endpoint struct {
	Method string
	Path   string
	// Query holds endpoint-specific parameters. The client merges in the
	// default language only when the endpoint did not set one.
	Query map[string]string
	// Auth forces a specific authentication method for this endpoint.
	Auth AuthMethod
	// Body is JSON-encoded into the request body when non-nil.
	Body any
	// Header holds extra request headers, e.g. Content-Type.
	Header map[string]string
}

func (e Endpoint) method() string {
	if e.Method == "" {
		return http.MethodGet
	}
	return e.Method
}
