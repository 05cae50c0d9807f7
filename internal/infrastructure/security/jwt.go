package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/user-management/internal/application/auth"
	"github.com/baechuer/user-management/internal/domain"
)

var signingMethod = jwt.SigningMethodHS256

// accessClaims is the token payload: {userId, email} plus iss/iat/exp.
type accessClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTSigner issues and checks HS256 access tokens. When issuer is non-empty,
// tokens from another issuer are rejected.
type JWTSigner struct {
	key    []byte
	issuer string
	parser *jwt.Parser
}

func NewJWTSigner(secret, issuer string) *JWTSigner {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTSigner{
		key:    []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}
}

func (s *JWTSigner) SignAccessToken(userID int64, email string, ttl time.Duration) (string, error) {
	issued := time.Now()
	signed, err := jwt.NewWithClaims(signingMethod, accessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}).SignedString(s.key)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	var c accessClaims
	if _, err := s.parser.ParseWithClaims(token, &c, s.keyFor); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenClaims{}, domain.ErrTokenExpired()
		}
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	if c.UserID <= 0 {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	return auth.TokenClaims{
		UserID: c.UserID,
		Email:  c.Email,
		Exp:    c.ExpiresAt.Time,
	}, nil
}

func (s *JWTSigner) keyFor(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, domain.ErrTokenInvalid()
	}
	return s.key, nil
}
