package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key, err := RandomBytes(AESKeySize)
	require.NoError(t, err)

	aad := []byte("store:v1")
	sealed, err := SealAES([]byte("secret value"), key, aad)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "secret value")

	opened, err := OpenAES(sealed, key, aad)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret value"), opened)
}

func TestOpenRejectsTamperAndWrongAAD(t *testing.T) {
	key, err := RandomBytes(AESKeySize)
	require.NoError(t, err)

	sealed, err := SealAES([]byte("secret"), key, []byte("aad-1"))
	require.NoError(t, err)

	_, err = OpenAES(sealed, key, []byte("aad-2"))
	assert.Error(t, err)

	sealed[len(sealed)-1] ^= 0x01
	_, err = OpenAES(sealed, key, []byte("aad-1"))
	assert.Error(t, err)
}

func TestSealRejectsShortKey(t *testing.T) {
	_, err := SealAES([]byte("x"), []byte("short"), nil)
	assert.Error(t, err)
}

func TestHKDFDeterministic(t *testing.T) {
	a, err := HKDF([]byte("seed"), []byte("salt"), []byte("info"))
	require.NoError(t, err)
	b, err := HKDF([]byte("seed"), []byte("salt"), []byte("info"))
	require.NoError(t, err)
	c, err := HKDF([]byte("seed"), []byte("other"), []byte("info"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, HKDFKeyLength)
}

func TestWipeBytes(t *testing.T) {
	b := []byte{1, 2, 3}
	WipeBytes(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}
