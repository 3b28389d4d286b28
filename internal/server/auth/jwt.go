// Package auth issues and verifies the signed bearer tokens returned on
// login. Tokens are JWTs signed with HMAC-SHA256; the secret and lifetime
// are injected at construction, nothing is read from globals at call time.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avoshkin/authgate/internal/common"
)

// DefaultTokenTTL is the access token lifetime used when no other value is
// configured.
const DefaultTokenTTL = 30 * time.Minute

// Claims is the claim set embedded in issued tokens: the account email as
// subject plus the username as an auxiliary claim. The jti is populated so a
// revocation denylist could be added later without a token format change.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// Codec signs and verifies access tokens with a symmetric secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec. The ttl is applied as-is; a non-positive ttl
// produces tokens that are already expired.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given identity, valid from now until now+ttl.
func (c *Codec) Issue(email, username string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify parses and validates a token string and returns its claims.
//
// The signature is checked before any claim: a tampered token fails with
// ErrTokenBadSignature even when it is also expired. Valid signatures are
// then checked for expiry (ErrTokenExpired when now >= exp) and structural
// completeness (ErrTokenMalformed when the subject is absent). Verify has no
// side effects; the same token always yields the same result until it
// expires.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrTokenBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, common.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, common.ErrInvalidToken
		}
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}
