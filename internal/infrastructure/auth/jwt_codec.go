package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nantech/inventory/internal/domain/identity"
)

// SessionClaims are the JWT claims carried by a signed session
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// JWTCodec encodes sessions as HS256-signed JWTs with an embedded expiry.
type JWTCodec struct {
	secret []byte
	issuer string
	maxAge time.Duration
}

// NewJWTCodec creates a JWTCodec. The secret must not be empty.
func NewJWTCodec(secret, issuer string, maxAge time.Duration) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt session codec requires a secret")
	}
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &JWTCodec{secret: []byte(secret), issuer: issuer, maxAge: maxAge}, nil
}

// Encode signs s. The token expires maxAge after s.IssuedAt.
func (c *JWTCodec) Encode(s identity.Session) (string, error) {
	if !s.Role.IsValid() {
		return "", ErrUnencodableSession
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.SubjectID, 10),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.IssuedAt.Add(c.maxAge)),
		},
		Username: s.Username,
		Role:     string(s.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the signature and expiry. Every failure is ErrInvalidToken.
func (c *JWTCodec) Decode(tokenString string) (identity.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return identity.Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return identity.Session{}, ErrInvalidToken
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return identity.Session{}, ErrInvalidToken
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return identity.Session{}, ErrInvalidToken
	}
	role, ok := identity.ParseRole(claims.Role)
	if !ok || claims.Username == "" {
		return identity.Session{}, ErrInvalidToken
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return identity.Session{
		SubjectID: subjectID,
		Username:  claims.Username,
		Role:      role,
		IssuedAt:  issuedAt,
	}, nil
}
