package tmdb

// RequestTokenResponse is returned by token creation and by
// validate_with_login; both carry a request token.
type RequestTokenResponse struct {
	Success      bool   `json:"success"`
	ExpiresAt    string `json:"expires_at"`
	RequestToken string `json:"request_token"`
}

// CreateSessionResponse is returned when a request token is exchanged for
// a session.
type CreateSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// GuestSessionResponse is returned by guest session creation. ExpiresAt is
// the raw provider string, e.g. "2025-12-31 23:59:59 UTC".
type GuestSessionResponse struct {
	Success        bool   `json:"success"`
	GuestSessionID string `json:"guest_session_id"`
	ExpiresAt      string `json:"expires_at"`
}

// ImageConfiguration holds the image-serving settings from /configuration.
type ImageConfiguration struct {
	BaseURL       string   `json:"base_url"`
	SecureBaseURL string   `json:"secure_base_url"`
	BackdropSizes []string `json:"backdrop_sizes"`
	LogoSizes     []string `json:"logo_sizes"`
	PosterSizes   []string `json:"poster_sizes"`
	ProfileSizes  []string `json:"profile_sizes"`
	StillSizes    []string `json:"still_sizes"`
}

// ConfigurationDetailsResponse is the /configuration response.
type ConfigurationDetailsResponse struct {
	Images     ImageConfiguration `json:"images"`
	ChangeKeys []string           `json:"change_keys"`
}
