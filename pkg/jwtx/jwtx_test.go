package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "shelf-test"

func newManager(t *testing.T) *jwtx.KeyManager {
	t.Helper()
	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer, NumKeys: 2})
	require.NoError(t, err)
	require.True(t, km.IsReady())
	return km
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()
	km := newManager(t)

	claims := jwtx.NewSessionClaims("user-1", "sid-1", []string{"pwd", "otp"}, time.Hour, testIssuer, time.Now().UTC())
	token, err := km.Signer().Sign(claims)
	require.NoError(t, err)

	got, err := km.Verifier().Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "sid-1", got.SID)
	require.Equal(t, []string{"pwd", "otp"}, got.AMR)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()
	km := newManager(t)
	now := time.Now().UTC()

	sign := func(c jwtx.Claims) string {
		token, err := km.Signer().Sign(c)
		require.NoError(t, err)
		return token
	}

	foreign, err := jwtx.GenerateSigner()
	require.NoError(t, err)
	foreignToken, err := foreign.Sign(jwtx.NewSessionClaims("user-1", "sid-1", nil, time.Hour, testIssuer, now))
	require.NoError(t, err)

	valid := sign(jwtx.NewSessionClaims("user-1", "sid-1", nil, time.Hour, testIssuer, now))
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", sign(jwtx.NewSessionClaims("user-1", "sid-1", nil, time.Minute, testIssuer, now.Add(-time.Hour))), jwtx.ErrExpired},
		{"wrong issuer", sign(jwtx.NewSessionClaims("user-1", "sid-1", nil, time.Hour, "someone-else", now)), jwtx.ErrIssuer},
		{"missing sid", sign(jwtx.NewSessionClaims("user-1", "", nil, time.Hour, testIssuer, now)), jwtx.ErrInvalidClaim},
		{"unknown key", foreignToken, jwtx.ErrUnknownKID},
		{"bad signature", tampered, jwtx.ErrMalformed},
		{"garbage", "not.a.token", jwtx.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := km.Verifier().Verify(tt.token)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewKeyManagerWithPersistentSigner(t *testing.T) {
	t.Parallel()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("fixed", pemKey)
	require.NoError(t, err)

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer}, signer)
	require.NoError(t, err)
	require.Equal(t, "fixed", km.Signer().KID())

	_, err = jwtx.NewKeyManager(jwtx.KeyManagerOptions{})
	require.Error(t, err, "issuer is required")
}
