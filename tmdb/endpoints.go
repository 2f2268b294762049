package tmdb

import "net/http"

// RequestToken returns the endpoint that creates a fresh, unauthorized
// request token. Forces api-key auth: the authentication endpoints are v3.
func RequestToken() Endpoint {
	return Endpoint{
		Path: "/authentication/token/new",
		Auth: AuthAPIKey,
	}
}

type validateLoginBody struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	RequestToken string `json:"request_token"`
}

// ValidateTokenWithLogin returns the endpoint that validates a request
// token against the account's username and password.
func ValidateTokenWithLogin(username, password, requestToken string) Endpoint {
	return Endpoint{
		Method: http.MethodPost,
		Path:   "/authentication/token/validate_with_login",
		Auth:   AuthAPIKey,
		Body: validateLoginBody{
			Username:     username,
			Password:     password,
			RequestToken: requestToken,
		},
		Header: map[string]string{"Content-Type": "application/json"},
	}
}

type createSessionBody struct {
	RequestToken string `json:"request_token"`
}

// CreateSession returns the endpoint that exchanges an approved or
// validated request token for a session id.
func CreateSession(requestToken string) Endpoint {
	return Endpoint{
		Method: http.MethodPost,
		Path:   "/authentication/session/new",
		Auth:   AuthAPIKey,
		Body:   createSessionBody{RequestToken: requestToken},
		Header: map[string]string{"Content-Type": "application/json"},
	}
}

// CreateGuestSession returns the endpoint that creates a time-boxed guest
// session not tied to an account.
func CreateGuestSession() Endpoint {
	return Endpoint{
		Path: "/authentication/guest_session/new",
		Auth: AuthAPIKey,
	}
}

// ConfigurationDetails returns the endpoint serving the API-wide
// configuration, including image base URLs and sizes.
func ConfigurationDetails() Endpoint {
	return Endpoint{Path: "/configuration"}
}
