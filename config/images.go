package config

import (
	"context"
	"sync"

	"github.com/screenpass/screenpass/tmdb"
)

// fallbackImages is served until the provider configuration has loaded.
var fallbackImages = tmdb.ImageConfiguration{
	BaseURL:       "http://image.tmdb.org/t/p/",
	SecureBaseURL: "https://image.tmdb.org/t/p/",
	BackdropSizes: []string{"w300", "w780", "w1280"},
	LogoSizes:     []string{"w185", "w300", "w500"},
	PosterSizes:   []string{"w92", "w154", "w185", "w342", "w500", "w780"},
	ProfileSizes:  []string{"w45", "w185", "h632"},
	StillSizes:    []string{"w92", "w185", "w300"},
}

// ImageCache holds the provider's image configuration behind a lock. It is
// shared process-wide and may be read while the identity store is
// restoring, so access is internally serialized.
type ImageCache struct {
	mu     sync.Mutex
	images tmdb.ImageConfiguration
	loaded bool
}

// NewImageCache creates a cache serving the fallback configuration.
func NewImageCache() *ImageCache {
	return &ImageCache{images: fallbackImages}
}

// Refresh fetches /configuration and replaces the cached value. Repeated
// calls after a successful load are no-ops.
func (c *ImageCache) Refresh(ctx context.Context, client tmdb.Doer) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}

	var resp tmdb.ConfigurationDetailsResponse
	if err := client.Do(ctx, tmdb.ConfigurationDetails(), &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.images = resp.Images
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// PosterBaseURL returns the secure base URL joined with the preferred
// poster size.
func (c *ImageCache) PosterBaseURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images.SecureBaseURL + preferredSize(c.images.PosterSizes, []string{"w500", "w342", "w185"}, "w500")
}

// BackdropBaseURL returns the secure base URL joined with the preferred
// backdrop size.
func (c *ImageCache) BackdropBaseURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images.SecureBaseURL + preferredSize(c.images.BackdropSizes, []string{"w780", "w1280", "w300"}, "w780")
}

func preferredSize(available, desired []string, fallback string) string {
	for _, want := range desired {
		for _, have := range available {
			if have == want {
				return want
			}
		}
	}
	if len(available) > 0 {
		return available[len(available)-1]
	}
	return fallback
}
