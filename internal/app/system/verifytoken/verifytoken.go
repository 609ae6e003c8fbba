// internal/app/system/verifytoken/verifytoken.go

// Package verifytoken issues and checks stateless email-verification tokens.
//
// A token has the form "<issued>-<mac>" where issued is the issue time in
// seconds since the Unix epoch (base 36) and mac is a hex HMAC-SHA256 over
// the user id, a fingerprint of the user's mutable state, and issued.
//
// The fingerprint covers the active flag, password hash, last login and
// email, so activating the account (or changing any of those) invalidates
// every outstanding token. Nothing is stored server-side.
package verifytoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
)

// DefaultExpiry is how long a link stays valid when none is configured.
const DefaultExpiry = 72 * time.Hour

var (
	// ErrInvalid is the base error; every failure wraps or equals it.
	ErrInvalid   = errors.New("verification link is invalid or expired")
	ErrMalformed = wrapErr{"malformed token"}
	ErrExpired   = wrapErr{"token expired"}
)

type wrapErr struct{ msg string }

func (e wrapErr) Error() string        { return e.msg }
func (e wrapErr) Is(target error) bool { return target == ErrInvalid }

// keySalt separates these MACs from any other use of the same secret.
const keySalt = "neuronest/verifytoken/email-verification"

// Generator makes and checks tokens. It is safe for concurrent use.
type Generator struct {
	key    []byte
	expiry time.Duration
	now    func() time.Time
}

// New returns a Generator keyed by secret. A non-positive expiry uses DefaultExpiry.
func New(secret string, expiry time.Duration) (*Generator, error) {
	if len(secret) < 16 {
		return nil, errors.New("verifytoken: secret must be at least 16 characters")
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	m := hmac.New(sha256.New, []byte(keySalt))
	m.Write([]byte(secret))
	return &Generator{key: m.Sum(nil), expiry: expiry, now: time.Now}, nil
}

// Expiry is the configured validity window.
func (g *Generator) Expiry() time.Duration { return g.expiry }

// Make returns a URL-safe token for u's current state.
func (g *Generator) Make(u models.User) string {
	issued := g.now().Unix()
	return strconv.FormatInt(issued, 36) + "-" + g.mac(u, issued)
}

// Check validates token against u's current state.
func (g *Generator) Check(u models.User, token string) error {
	tsPart, macPart, ok := strings.Cut(token, "-")
	if !ok || tsPart == "" || macPart == "" {
		return ErrMalformed
	}
	issued, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil || issued <= 0 {
		return ErrMalformed
	}
	got, err := hex.DecodeString(macPart)
	if err != nil || len(got) != sha256.Size {
		return ErrMalformed
	}

	want, _ := hex.DecodeString(g.mac(u, issued))
	if !hmac.Equal(got, want) {
		return ErrInvalid
	}

	age := g.now().Sub(time.Unix(issued, 0))
	if age > g.expiry {
		return ErrExpired
	}
	return nil
}

func (g *Generator) mac(u models.User, issued int64) string {
	m := hmac.New(sha256.New, g.key)
	m.Write(u.ID[:])
	m.Write([]byte{0})
	m.Write([]byte(fingerprint(u)))
	m.Write([]byte{0})
	m.Write([]byte(strconv.FormatInt(issued, 10)))
	return hex.EncodeToString(m.Sum(nil))
}

func fingerprint(u models.User) string {
	login := ""
	if u.LastLogin != nil {
		login = strconv.FormatInt(u.LastLogin.UTC().Truncate(time.Second).Unix(), 10)
	}
	return strings.Join([]string{
		strconv.FormatBool(u.IsActive),
		u.PasswordHash,
		login,
		strings.ToLower(u.Email),
	}, "\x1f")
}

// EncodeUID encodes a user id for use in a link path.
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeUID reverses EncodeUID. Any failure yields ErrMalformed.
func DecodeUID(s string) (uuid.UUID, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return uuid.Nil, ErrMalformed
	}
	id, err := uuid.Parse(string(b))
	if err != nil {
		return uuid.Nil, ErrMalformed
	}
	return id, nil
}
