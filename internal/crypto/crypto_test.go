package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec("", "league-password")
	require.NoError(t, err)

	ciphertext, err := codec.Encrypt(payload{Name: "alice", Score: 12})
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "alice")

	var got payload
	require.NoError(t, codec.Decrypt(ciphertext, &got))
	assert.Equal(t, payload{Name: "alice", Score: 12}, got)
}

func TestCodec_DerivedKeyIsDeterministic(t *testing.T) {
	first, err := NewCodec("", "same-password")
	require.NoError(t, err)
	second, err := NewCodec("", "same-password")
	require.NoError(t, err)

	ciphertext, err := first.Encrypt(payload{Name: "bob", Score: 3})
	require.NoError(t, err)

	var got payload
	require.NoError(t, second.Decrypt(ciphertext, &got))
	assert.Equal(t, "bob", got.Name)
}

func TestCodec_WrongKeyFailsDistinctly(t *testing.T) {
	codec, err := NewCodec("", "password-one")
	require.NoError(t, err)
	other, err := NewCodec("", "password-two")
	require.NoError(t, err)

	ciphertext, err := codec.Encrypt(payload{Name: "alice"})
	require.NoError(t, err)

	var got payload
	err = other.Decrypt(ciphertext, &got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecrypt))
}

func TestCodec_GarbageFailsDistinctly(t *testing.T) {
	codec, err := NewCodec("", "password")
	require.NoError(t, err)

	var got payload
	err = codec.Decrypt("%%% not base64 %%%", &got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecrypt))
}

func TestNewCodec_BadExplicitKey(t *testing.T) {
	_, err := NewCodec("too-short", "")
	require.Error(t, err)
}
