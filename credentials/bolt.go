package credentials

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/awnumar/memguard"
	"go.etcd.io/bbolt"

	"github.com/screenpass/screenpass/internal/util"
)

const (
	bucketName = "credentials"

	keySalt           = "kdf_salt"
	keySessionID      = "session_id"
	keyGuestSessionID = "guest_session_id"
	keyGuestExpiresAt = "guest_expires_at"

	saltLen = 16
	kdfInfo = "screenpass:credential_store:v1"
	aadTag  = "credential:"
)

// BoltStore is a Store backed by a bbolt database. Values are sealed with
// AES-256-GCM before they hit disk; the sealing key is derived from a
// caller-supplied secret and a per-database random salt, and held in a
// memguard enclave between operations.
//
// The Store interface reports no errors, so storage failures are logged
// and reads degrade to "absent". A value that fails to unseal (wrong
// secret, corrupted file) reads as absent rather than surfacing an error.
type BoltStore struct {
	db     *bbolt.DB
	sealed *memguard.Enclave
	logger *slog.Logger
}

var _ Store = (*BoltStore)(nil)

// BoltOption configures a BoltStore.
type BoltOption func(*BoltStore)

// WithLogger sets the logger used to report storage failures.
func WithLogger(logger *slog.Logger) BoltOption {
	return func(s *BoltStore) { s.logger = logger }
}

// NewBoltStore opens (or creates) the database at path and derives the
// sealing key from secret. The same secret must be supplied across runs to
// read back previously written credentials.
func NewBoltStore(path string, secret []byte, opts ...BoltOption) (*BoltStore, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("credential store secret must not be empty")
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening credential db: %w", err)
	}

	salt, err := loadOrCreateSalt(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	key, err := util.HKDF(secret, salt, []byte(kdfInfo))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("deriving sealing key: %w", err)
	}

	s := &BoltStore{
		db:     db,
		sealed: memguard.NewEnclave(key), // wipes key
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func loadOrCreateSalt(db *bbolt.DB) ([]byte, error) {
	var salt []byte
	err := db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		if existing := b.Get([]byte(keySalt)); existing != nil {
			salt = util.CopyBytes(existing)
			return nil
		}
		fresh, err := util.RandomBytes(saltLen)
		if err != nil {
			return err
		}
		salt = fresh
		return b.Put([]byte(keySalt), fresh)
	})
	if err != nil {
		return nil, fmt.Errorf("initializing credential salt: %w", err)
	}
	return salt, nil
}

func (s *BoltStore) ReadSessionID() (string, bool) {
	return s.readValue(keySessionID)
}

func (s *BoltStore) ReadGuestSession() (GuestSession, bool) {
	id, ok := s.readValue(keyGuestSessionID)
	if !ok {
		return GuestSession{}, false
	}
	guest := GuestSession{SessionID: id}
	if raw, ok := s.readValue(keyGuestExpiresAt); ok {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			t := time.Unix(unix, 0).UTC()
			guest.ExpiresAt = &t
		}
	}
	return guest, true
}

func (s *BoltStore) WriteSessionID(id string) {
	s.update(func(b *bbolt.Bucket) error {
		return s.putSealed(b, keySessionID, id)
	})
}

func (s *BoltStore) WriteGuestSession(id string, expiresAt *time.Time) {
	// Both guest fields land in one transaction so a crash cannot split
	// the pair.
	s.update(func(b *bbolt.Bucket) error {
		if err := s.putSealed(b, keyGuestSessionID, id); err != nil {
			return err
		}
		if expiresAt == nil {
			return b.Delete([]byte(keyGuestExpiresAt))
		}
		return s.putSealed(b, keyGuestExpiresAt, strconv.FormatInt(expiresAt.Unix(), 10))
	})
}

func (s *BoltStore) ClearAll() {
	s.update(func(b *bbolt.Bucket) error {
		for _, k := range []string{keySessionID, keyGuestSessionID, keyGuestExpiresAt} {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) ClearGuestSession() {
	s.update(func(b *bbolt.Bucket) error {
		for _, k := range []string{keyGuestSessionID, keyGuestExpiresAt} {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) readValue(key string) (string, bool) {
	var sealed []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			sealed = util.CopyBytes(data)
		}
		return nil
	})
	if err != nil {
		s.warn("credential read failed", key, err)
		return "", false
	}
	if sealed == nil {
		return "", false
	}

	plaintext, err := s.unseal(key, sealed)
	if err != nil {
		s.warn("credential unseal failed", key, err)
		return "", false
	}
	return string(plaintext), true
}

func (s *BoltStore) putSealed(b *bbolt.Bucket, key, value string) error {
	sealed, err := s.seal(key, []byte(value))
	if err != nil {
		return err
	}
	return b.Put([]byte(key), sealed)
}

func (s *BoltStore) update(fn func(b *bbolt.Bucket) error) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return fn(b)
	})
	if err != nil {
		s.warn("credential write failed", "", err)
	}
}

func (s *BoltStore) seal(key string, plaintext []byte) ([]byte, error) {
	buf, err := s.sealed.Open()
	if err != nil {
		return nil, fmt.Errorf("opening sealing key: %w", err)
	}
	defer buf.Destroy()
	return util.SealAES(plaintext, buf.Bytes(), []byte(aadTag+key))
}

func (s *BoltStore) unseal(key string, sealed []byte) ([]byte, error) {
	buf, err := s.sealed.Open()
	if err != nil {
		return nil, fmt.Errorf("opening sealing key: %w", err)
	}
	defer buf.Destroy()
	return util.OpenAES(sealed, buf.Bytes(), []byte(aadTag+key))
}

func (s *BoltStore) warn(msg, key string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, slog.String("key", key), slog.String("error", err.Error()))
}
