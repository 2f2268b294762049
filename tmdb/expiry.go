package tmdb

import "time"

// Provider timestamps carry a literal " UTC" suffix. Some responses omit it.
const (
	expiresAtLayout     = "2006-01-02 15:04:05 UTC"
	expiresAtBareLayout = "2006-01-02 15:04:05"
)

// ParseExpiresAt parses a provider expiry string. Unparsable or empty input
// yields nil rather than an error: a missing expiry means never-expiring at
// this layer and callers re-validate on restore anyway.
func ParseExpiresAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{expiresAtLayout, expiresAtBareLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
