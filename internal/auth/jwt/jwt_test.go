package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmine/techmine/internal/common/config"
)

const secret = "test-secret-with-enough-entropy-123456"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "4f9a3a53-1d1c-4a64-9f1e-5b7c2f0e8d11",
		"email": "ops@techmine.example",
		"iss":   "https://idp.example/auth/v1",
		"aud":   "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func newHS(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(config.AuthConfig{
		Secret:   secret,
		Issuer:   "https://idp.example/auth/v1",
		Audience: "authenticated",
		Leeway:   5 * time.Second,
	})
	require.NoError(t, err)
	return v
}

func TestVerify_HS256(t *testing.T) {
	v := newHS(t)
	claims := baseClaims()
	claims["role"] = "Admin"
	id, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(secret), claims))
	require.NoError(t, err)
	assert.Equal(t, "4f9a3a53-1d1c-4a64-9f1e-5b7c2f0e8d11", id.Subject)
	assert.Equal(t, "ops@techmine.example", id.Email)
	assert.Equal(t, "Admin", id.Role)
	assert.True(t, id.HasRoleClaim)
	assert.Equal(t, "ops@techmine.example", id.DisplayName())
}

func TestVerify_Rejections(t *testing.T) {
	v := newHS(t)

	expired := baseClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	wrongIss := baseClaims()
	wrongIss["iss"] = "https://evil.example"

	wrongAud := baseClaims()
	wrongAud["aud"] = "anon"

	noExp := baseClaims()
	delete(noExp, "exp")

	cases := map[string]struct {
		token string
		want  error
	}{
		"expired":      {sign(t, jwt.SigningMethodHS256, []byte(secret), expired), ErrExpiredToken},
		"wrong issuer": {sign(t, jwt.SigningMethodHS256, []byte(secret), wrongIss), ErrInvalidToken},
		"wrong aud":    {sign(t, jwt.SigningMethodHS256, []byte(secret), wrongAud), ErrInvalidToken},
		"no exp":       {sign(t, jwt.SigningMethodHS256, []byte(secret), noExp), ErrInvalidToken},
		"bad secret":   {sign(t, jwt.SigningMethodHS256, []byte("other-secret"), baseClaims()), ErrInvalidToken},
		"wrong alg":    {sign(t, jwt.SigningMethodHS512, []byte(secret), baseClaims()), ErrInvalidAlgorithm},
		"garbage":      {"not-a-token", ErrInvalidToken},
	}
	for name, tc := range cases {
		id, err := v.Verify(tc.token)
		assert.Nil(t, id, name)
		assert.ErrorIs(t, err, tc.want, name)
	}
}

func TestVerify_Leeway(t *testing.T) {
	v := newHS(t)
	claims := baseClaims()
	claims["exp"] = time.Now().Add(-2 * time.Second).Unix()
	_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(secret), claims))
	assert.NoError(t, err)
}

func TestVerify_RS256(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "idp.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))

	v, err := NewVerifier(config.AuthConfig{PublicKeyFile: path, Secret: secret})
	require.NoError(t, err)

	id, err := v.Verify(sign(t, jwt.SigningMethodRS256, priv, baseClaims()))
	require.NoError(t, err)
	assert.False(t, id.HasRoleClaim)

	// an HS256 token must not pass against the RSA key
	_, err = v.Verify(sign(t, jwt.SigningMethodHS256, []byte(secret), baseClaims()))
	assert.ErrorIs(t, err, ErrInvalidAlgorithm)
}

func TestNewVerifier_Errors(t *testing.T) {
	_, err := NewVerifier(config.AuthConfig{})
	assert.ErrorIs(t, err, ErrNoKeyMaterial)

	_, err = NewVerifier(config.AuthConfig{PublicKeyFile: filepath.Join(t.TempDir(), "missing.pem")})
	assert.ErrorContains(t, err, "read public key")

	bad := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o600))
	_, err = NewVerifier(config.AuthConfig{PublicKeyFile: bad})
	assert.ErrorContains(t, err, "parse public key")
}

func TestIdentity_NestedRoleClaimAndName(t *testing.T) {
	v, err := NewVerifier(config.AuthConfig{Secret: secret, RoleClaim: "app_metadata.role"})
	require.NoError(t, err)

	claims := baseClaims()
	claims["role"] = "authenticated"
	claims["app_metadata"] = map[string]any{"role": "Admin"}
	claims["user_metadata"] = map[string]any{"full_name": "Awa Traoré"}
	id, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(secret), claims))
	require.NoError(t, err)
	assert.Equal(t, "Admin", id.Role)
	assert.Equal(t, "Awa Traoré", id.DisplayName())
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "n", (&Identity{Name: "n", Email: "e", Subject: "s"}).DisplayName())
	assert.Equal(t, "e", (&Identity{Email: "e", Subject: "s"}).DisplayName())
	assert.Equal(t, "s", (&Identity{Subject: "s"}).DisplayName())
}

func TestExpiresIn(t *testing.T) {
	now := time.Now()
	claims := baseClaims()
	claims["exp"] = now.Add(10 * time.Minute).Unix()
	tok := sign(t, jwt.SigningMethodHS256, []byte(secret), claims)
	assert.InDelta(t, (10 * time.Minute).Seconds(), ExpiresIn(tok, now).Seconds(), 1)

	claims["exp"] = now.Add(-time.Minute).Unix()
	assert.Zero(t, ExpiresIn(sign(t, jwt.SigningMethodHS256, []byte(secret), claims), now))
	assert.Zero(t, ExpiresIn("garbage", now))
}
