// Package config loads API credentials and runtime settings, and holds the
// image configuration cache shared across the app.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// ErrMissingAPIKey indicates no api key or access token was configured.
var ErrMissingAPIKey = errors.New("no api_key or access_token configured")

// Config holds the static runtime settings. Values come from the key file
// first; environment variables override.
type Config struct {
	// APIKey is the v3 api key sent as a query parameter.
	APIKey string `json:"api_key" env:"SCREENPASS_API_KEY"`
	// AccessToken is the optional v4 token; when set, bearer auth is
	// preferred over the api key.
	AccessToken string `json:"access_token" env:"SCREENPASS_ACCESS_TOKEN"`
	// Language is the default locale merged into requests, e.g. "en-US".
	Language string `json:"language" env:"SCREENPASS_LANGUAGE"`
}

const defaultLanguage = "en-US"

// Load reads the JSON key file at path (ignored when path is empty or the
// file does not exist), applies environment overrides and validates the
// result. One of APIKey or AccessToken is required.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env
		case err != nil:
			return nil, fmt.Errorf("reading key file: %w", err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing key file %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		return nil, ErrMissingAPIKey
	}

	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", cfg.Language, err)
	}
	cfg.Language = tag.String()

	return cfg, nil
}
