package credentials

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func newTestBoltStore(t *testing.T, path string) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(path, []byte("test-secret"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")
	storeTests(t, newTestBoltStore(t, path))
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")
	expires := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	store, err := NewBoltStore(path, []byte("test-secret"))
	require.NoError(t, err)
	store.WriteSessionID("sess-persist")
	store.WriteGuestSession("guest-persist", &expires)
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path, []byte("test-secret"))
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.ReadSessionID()
	require.True(t, ok)
	assert.Equal(t, "sess-persist", got)

	guest, ok := reopened.ReadGuestSession()
	require.True(t, ok)
	assert.Equal(t, "guest-persist", guest.SessionID)
	require.NotNil(t, guest.ExpiresAt)
	assert.True(t, guest.ExpiresAt.Equal(expires))
}

func TestBoltStoreWrongSecretReadsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")

	store, err := NewBoltStore(path, []byte("right-secret"))
	require.NoError(t, err)
	store.WriteSessionID("sess-1")
	require.NoError(t, store.Close())

	wrong, err := NewBoltStore(path, []byte("wrong-secret"))
	require.NoError(t, err)
	defer wrong.Close()

	_, ok := wrong.ReadSessionID()
	assert.False(t, ok)
}

func TestBoltStoreSealsValuesAtRest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")

	store, err := NewBoltStore(path, []byte("test-secret"))
	require.NoError(t, err)
	store.WriteSessionID("very-secret-session-id")
	require.NoError(t, store.Close())

	db, err := bbolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	defer db.Close()

	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		require.NotNil(t, b)
		raw := b.Get([]byte(keySessionID))
		require.NotNil(t, raw)
		assert.False(t, bytes.Contains(raw, []byte("very-secret-session-id")))
		return nil
	})
	require.NoError(t, err)
}

func TestBoltStoreRejectsEmptySecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")
	_, err := NewBoltStore(path, nil)
	assert.Error(t, err)
}
