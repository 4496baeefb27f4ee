package oauthstate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vallemarketing/valle360-social/domain/model"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	signer := NewSigner("test-secret")
	raw, err := signer.Sign("tenant-1", model.PlatformFacebook)
	require.NoError(t, err)

	claims, err := signer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, model.PlatformFacebook, claims.Platform)
	assert.NotEmpty(t, claims.Nonce())
}

func TestVerifyExpiredState(t *testing.T) {
	past := time.Now().Add(-11 * time.Minute)
	signer := NewSigner("test-secret").WithClock(func() time.Time { return past })
	raw, err := signer.Sign("tenant-1", model.PlatformInstagram)
	require.NoError(t, err)

	verifier := NewSigner("test-secret")
	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, model.ErrStateExpired)
}

func TestVerifyTamperedState(t *testing.T) {
	signer := NewSigner("test-secret")
	raw, err := signer.Sign("tenant-1", model.PlatformFacebook)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = signer.Verify(tampered)
	assert.ErrorIs(t, err, model.ErrStateInvalid)
}

func TestVerifyWrongKey(t *testing.T) {
	raw, err := NewSigner("key-a").Sign("tenant-1", model.PlatformFacebook)
	require.NoError(t, err)

	_, err = NewSigner("key-b").Verify(raw)
	assert.ErrorIs(t, err, model.ErrStateInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewSigner("test-secret").Verify("not-a-token")
	assert.ErrorIs(t, err, model.ErrStateInvalid)
}

func TestStatesAreUnique(t *testing.T) {
	signer := NewSigner("test-secret")
	a, err := signer.Sign("tenant-1", model.PlatformFacebook)
	require.NoError(t, err)
	b, err := signer.Sign("tenant-1", model.PlatformFacebook)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	ca, err := signer.Verify(a)
	require.NoError(t, err)
	cb, err := signer.Verify(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.Nonce(), cb.Nonce())
}
