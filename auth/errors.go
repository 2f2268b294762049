package auth

import "errors"

var (
	// ErrMissingCredentials indicates the username or password was empty.
	// No network call is attempted.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrNotApproved indicates the user declined the request on the
	// provider's authorization page.
	ErrNotApproved = errors.New("authorization was not approved")
)
