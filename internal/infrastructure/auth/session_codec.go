package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nantech/inventory/internal/domain/identity"
)

// Common errors
var (
	// ErrInvalidToken is returned for any token that cannot be decoded into a session.
	// Callers must treat the session as absent and clear it.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnencodableSession is returned when a session could never round-trip
	ErrUnencodableSession = errors.New("session cannot be encoded")
)

const (
	tokenFieldSeparator = ":"
	tokenFieldCount     = 4
)

// Codec names accepted by NewSessionCodec
const (
	CodecPlain = "plain"
	CodecJWT   = "jwt"
)

// SessionCodec turns a session into an opaque cookie value and back.
type SessionCodec interface {
	Encode(s identity.Session) (string, error)
	Decode(token string) (identity.Session, error)
}

// PlainCodec encodes sessions as base64 of "subject_id:username:role:issued_at",
// with issued_at in unix milliseconds.
//
// The encoding is reversible and carries no signature and no expiry: anyone who
// can construct the string can forge a session, and freshness depends entirely on
// the lifetime of the cookie carrying it. Use JWTCodec where that matters.
type PlainCodec struct{}

// NewPlainCodec creates a PlainCodec
func NewPlainCodec() *PlainCodec {
	return &PlainCodec{}
}

// Encode serializes s. Usernames containing the field separator and roles outside
// the closed set are rejected because they could never decode.
func (PlainCodec) Encode(s identity.Session) (string, error) {
	if strings.Contains(s.Username, tokenFieldSeparator) {
		return "", fmt.Errorf("%w: username contains %q", ErrUnencodableSession, tokenFieldSeparator)
	}
	if !s.Role.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrUnencodableSession, s.Role)
	}

	payload := strings.Join([]string{
		strconv.FormatInt(s.SubjectID, 10),
		s.Username,
		string(s.Role),
		strconv.FormatInt(s.IssuedAt.UnixMilli(), 10),
	}, tokenFieldSeparator)

	return base64.StdEncoding.EncodeToString([]byte(payload)), nil
}

// Decode parses a token produced by Encode. Every failure is ErrInvalidToken.
func (PlainCodec) Decode(token string) (identity.Session, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return identity.Session{}, ErrInvalidToken
	}

	parts := strings.Split(string(raw), tokenFieldSeparator)
	if len(parts) != tokenFieldCount {
		return identity.Session{}, ErrInvalidToken
	}

	subjectID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return identity.Session{}, ErrInvalidToken
	}
	if parts[1] == "" {
		return identity.Session{}, ErrInvalidToken
	}
	role, ok := identity.ParseRole(parts[2])
	if !ok {
		return identity.Session{}, ErrInvalidToken
	}
	issuedAt, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return identity.Session{}, ErrInvalidToken
	}

	return identity.Session{
		SubjectID: subjectID,
		Username:  parts[1],
		Role:      role,
		IssuedAt:  time.UnixMilli(issuedAt),
	}, nil
}

// SessionCodecConfig selects and configures a codec
type SessionCodecConfig struct {
	Codec  string        // plain or jwt
	Secret string        // HMAC secret, jwt only
	MaxAge time.Duration // token lifetime, jwt only
	Issuer string
}

// NewSessionCodec builds the codec named in cfg
func NewSessionCodec(cfg SessionCodecConfig) (SessionCodec, error) {
	switch cfg.Codec {
	case "", CodecPlain:
		return NewPlainCodec(), nil
	case CodecJWT:
		return NewJWTCodec(cfg.Secret, cfg.Issuer, cfg.MaxAge)
	default:
		return nil, fmt.Errorf("unknown session codec %q", cfg.Codec)
	}
}
