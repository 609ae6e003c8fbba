// internal/app/system/authutil/authutil.go

// Package authutil holds password policy and bcrypt helpers.
package authutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is bcrypt's input limit in bytes.
const MaxPasswordLength = 72

var (
	ErrPasswordEmpty    = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	ErrPasswordCommon   = errors.New("password is too common")
)

var commonPasswords = map[string]struct{}{
	"123456": {}, "1234567": {}, "12345678": {}, "123456789": {}, "1234567890": {},
	"password": {}, "password1": {}, "qwerty": {}, "qwerty123": {}, "abc123": {},
	"111111": {}, "123123": {}, "iloveyou": {}, "letmein": {}, "football": {},
	"welcome": {}, "monkey": {}, "dragon": {}, "sunshine": {}, "admin123": {},
	"neuronest": {},
}

// Policy is a password policy. The zero value only requires a non-empty
// password that bcrypt can hash.
type Policy struct {
	MinLength    int
	RejectCommon bool
}

// Validate checks pw against the policy. Length errors wrap
// ErrPasswordTooShort or ErrPasswordTooLong.
func (p Policy) Validate(pw string) error {
	if pw == "" {
		return ErrPasswordEmpty
	}
	if len(pw) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if p.MinLength > 0 && len(pw) < p.MinLength {
		return fmt.Errorf("%w: use at least %d characters", ErrPasswordTooShort, p.MinLength)
	}
	if p.RejectCommon {
		if _, common := commonPasswords[strings.ToLower(pw)]; common {
			return ErrPasswordCommon
		}
	}
	return nil
}

// Rules describes the policy for form hints. It is empty when the policy
// has nothing worth telling the user.
func (p Policy) Rules() string {
	var parts []string
	if p.MinLength > 1 {
		parts = append(parts, fmt.Sprintf("At least %d characters.", p.MinLength))
	}
	if p.RejectCommon {
		parts = append(parts, "Avoid common passwords.")
	}
	return strings.Join(parts, " ")
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash. Malformed hashes never match.
func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// dummyHash is compared against when an identifier is unknown so a failed
// lookup costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("neuronest-timing-equalizer"), bcrypt.DefaultCost)

// BurnCompare performs a bcrypt comparison whose result is discarded.
func BurnCompare(pw string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pw))
}
