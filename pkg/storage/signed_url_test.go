package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerSignAndVerify(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	signed, err := signer.Sign("exp-1", "history/missingHistory_20250330.csv")
	require.NoError(t, err)
	require.NotEmpty(t, signed.Token)
	require.False(t, signed.ExpiresAt.IsZero())

	parsed, err := signer.Verify(signed.Token, false)
	require.NoError(t, err)
	require.Equal(t, "exp-1", parsed.ID)
	require.Equal(t, "history/missingHistory_20250330.csv", parsed.Path)
	require.WithinDuration(t, signed.ExpiresAt, parsed.ExpiresAt, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	signed, err := signer.Sign("exp-1", "history/file.csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = signer.Verify(signed.Token, false)
	require.ErrorIs(t, err, ErrTokenExpired)

	parsed, err := signer.Verify(signed.Token, true)
	require.NoError(t, err)
	require.Equal(t, "exp-1", parsed.ID)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	signed, err := signer.Sign("exp-1", "history/file.csv")
	require.NoError(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, err = other.Verify(signed.Token, false)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = signer.Verify("a.b.c", false)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
