package crypto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestNewAESGCMFromBase64Key(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		enc, err := NewAESGCMFromBase64Key(testKey())
		require.NoError(t, err)
		assert.NotNil(t, enc)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := NewAESGCMFromBase64Key("  ")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := NewAESGCMFromBase64Key("not-valid-base64!!!")
		assert.Error(t, err)
	})

	t.Run("wrong size", func(t *testing.T) {
		_, err := NewAESGCMFromBase64Key(base64.StdEncoding.EncodeToString([]byte("short")))
		assert.ErrorIs(t, err, ErrKeySize)
	})
}

func TestAESEncrypter_RoundTrip(t *testing.T) {
	enc, err := NewAESGCMFromBase64Key(testKey())
	require.NoError(t, err)

	a, err := enc.Encrypt([]byte("1990-04-12"))
	require.NoError(t, err)
	b, err := enc.Encrypt([]byte("1990-04-12"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "nonce must differ between calls")

	plain, err := enc.Decrypt(a)
	require.NoError(t, err)
	assert.Equal(t, "1990-04-12", string(plain))

	_, err = enc.Decrypt([]byte{1, 2})
	assert.ErrorIs(t, err, ErrCiphertextTooShort)

	a[len(a)-1] ^= 0xff
	_, err = enc.Decrypt(a)
	assert.Error(t, err)
}

func TestFieldCipher(t *testing.T) {
	enc, err := NewAESGCMFromBase64Key(testKey())
	require.NoError(t, err)
	c := NewFieldCipher(enc)

	t.Run("seal and open", func(t *testing.T) {
		sealed, err := c.Seal("1990-04-12")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sealed, sealedPrefix))
		assert.NotContains(t, sealed, "1990")

		opened, err := c.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, "1990-04-12", opened)
	})

	t.Run("empty stays empty", func(t *testing.T) {
		sealed, err := c.Seal("")
		require.NoError(t, err)
		assert.Empty(t, sealed)
	})

	t.Run("plaintext rows pass through", func(t *testing.T) {
		opened, err := c.Open("1990-04-12")
		require.NoError(t, err)
		assert.Equal(t, "1990-04-12", opened)
	})

	t.Run("disabled cipher", func(t *testing.T) {
		plain := NewFieldCipher(nil)
		assert.False(t, plain.Enabled())

		sealed, err := plain.Seal("x")
		require.NoError(t, err)
		assert.Equal(t, "x", sealed)

		encrypted, err := c.Seal("x")
		require.NoError(t, err)
		_, err = plain.Open(encrypted)
		assert.Error(t, err)
	})
}
