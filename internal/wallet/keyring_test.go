package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "didwallet/pkg/domain-errors"
)

func TestKeyring_EncryptDecryptRoundTrip(t *testing.T) {
	k := NewKeyring()
	secret, err := k.CreateRandomKeypair()
	require.NoError(t, err)
	require.Len(t, []byte(secret), 32)

	blob, err := k.EncryptWithPassword(secret, "correct horse")
	require.NoError(t, err)

	got, err := k.DecryptWithPassword(blob, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestKeyring_WrongPassword(t *testing.T) {
	k := NewKeyring()
	secret, err := k.CreateRandomKeypair()
	require.NoError(t, err)
	blob, err := k.EncryptWithPassword(secret, "right")
	require.NoError(t, err)

	_, err = k.DecryptWithPassword(blob, "wrong")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestKeyring_MalformedKeystore(t *testing.T) {
	k := NewKeyring()
	_, err := k.DecryptWithPassword([]byte("not json"), "pw")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestKeyring_DeriveChild(t *testing.T) {
	k := NewKeyring()
	secret := SecretMaterial(strings.Repeat("s", 32))

	a0, err := k.DeriveChild(secret, 0)
	require.NoError(t, err)
	a0again, err := k.DeriveChild(secret, 0)
	require.NoError(t, err)
	a1, err := k.DeriveChild(secret, 1)
	require.NoError(t, err)

	assert.Equal(t, a0, a0again, "derivation must be deterministic")
	assert.NotEqual(t, a0, a1)
	assert.True(t, strings.HasPrefix(a0, "0x"))
	assert.Len(t, a0, 42)

	_, err = k.DeriveChild(nil, 0)
	assert.Error(t, err)
}
