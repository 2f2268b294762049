package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apikey.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFromKeyFile(t *testing.T) {
	path := writeKeyFile(t, `{"api_key": "k3y", "access_token": "t0ken"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "k3y", cfg.APIKey)
	assert.Equal(t, "t0ken", cfg.AccessToken)
	assert.Equal(t, "en-US", cfg.Language)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeKeyFile(t, `{"api_key": "file-key"}`)
	t.Setenv("SCREENPASS_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("SCREENPASS_API_KEY", "env-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("SCREENPASS_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadMissingCredentials(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadAccessTokenAloneSuffices(t *testing.T) {
	path := writeKeyFile(t, `{"access_token": "t0ken"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "t0ken", cfg.AccessToken)
}

func TestLoadCanonicalizesLanguage(t *testing.T) {
	path := writeKeyFile(t, `{"api_key": "k", "language": "de-de"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", cfg.Language)
}

func TestLoadRejectsInvalidLanguage(t *testing.T) {
	path := writeKeyFile(t, `{"api_key": "k", "language": "no-such-locale!"}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedKeyFile(t *testing.T) {
	path := writeKeyFile(t, `{not json`)

	_, err := Load(path)
	assert.Error(t, err)
}
