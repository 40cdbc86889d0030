package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/techmine/techmine/internal/common/config"
	"github.com/tidwall/gjson"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrNoKeyMaterial    = errors.New("one of secret or public key file is required")
)

// Identity is what a verified token says about its bearer
type Identity struct {
	Subject string
	Email   string
	Name    string
	Role    string
	// HasRoleClaim is true when the token carried a non-empty role claim
	HasRoleClaim bool
	Claims       map[string]any
}

// DisplayName prefers the name claim, then email, then subject
func (i *Identity) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	default:
		return i.Subject
	}
}

// Verifier checks bearer tokens issued by the external identity provider.
// It never issues tokens.
type Verifier struct {
	parser    *jwt.Parser
	key       any
	roleClaim string
}

// NewVerifier builds a verifier from auth config. An RS256 public key takes
// precedence over the HS256 secret.
func NewVerifier(cfg config.AuthConfig) (*Verifier, error) {
	var (
		key    any
		method string
	)
	switch {
	case cfg.PublicKeyFile != "":
		pem, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read public key: %w", err)
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		key, method = pub, jwt.SigningMethodRS256.Alg()
	case cfg.Secret != "":
		key, method = []byte(cfg.Secret), jwt.SigningMethodHS256.Alg()
	default:
		return nil, ErrNoKeyMaterial
	}

	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = config.DefaultLeeway
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method}),
		jwt.WithLeeway(leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	roleClaim := cfg.RoleClaim
	if roleClaim == "" {
		roleClaim = config.DefaultRoleClaim
	}

	return &Verifier{
		parser:    jwt.NewParser(opts...),
		key:       key,
		roleClaim: roleClaim,
	}, nil
}

// Verify validates signature, algorithm, expiry, issuer and audience
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid) && strings.Contains(err.Error(), "signing method"):
			return nil, ErrInvalidAlgorithm
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}
	return v.identity(claims)
}

func (v *Verifier) identity(claims jwt.MapClaims) (*Identity, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// dotted paths reach nested claims such as app_metadata.role
	str := func(paths ...string) string {
		for _, p := range paths {
			if r := gjson.GetBytes(raw, p); r.Exists() && r.Type == gjson.String && r.Str != "" {
				return r.Str
			}
		}
		return ""
	}

	id := &Identity{
		Subject: str("sub"),
		Email:   str("email"),
		Name:    str("name", "user_metadata.full_name"),
		Role:    str(v.roleClaim),
		Claims:  claims,
	}
	id.HasRoleClaim = id.Role != ""
	return id, nil
}

// ExpiresIn reports how long until the token expires, without verifying it.
// Zero means expired or unknown.
func ExpiresIn(tokenString string, now time.Time) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || !exp.After(now) {
		return 0
	}
	return exp.Sub(now)
}
