package authutil

import (
	"errors"
	"strings"
	"testing"
)

// strict mirrors the opt-in settings a deployment would configure.
var strict = Policy{MinLength: 6, RejectCommon: true}

func TestPolicy_Valid(t *testing.T) {
	validPasswords := []string{
		"secure123",
		"MyP@ssw0rd",
		"abcdef1",
	}

	for _, pw := range validPasswords {
		if err := strict.Validate(pw); err != nil {
			t.Errorf("expected %q to be valid, got error: %v", pw, err)
		}
	}
}

func TestPolicy_TooShort(t *testing.T) {
	if err := strict.Validate(""); err != ErrPasswordEmpty {
		t.Errorf("expected ErrPasswordEmpty, got %v", err)
	}
	for _, pw := range []string{"a", "abcde"} {
		if err := strict.Validate(pw); !errors.Is(err, ErrPasswordTooShort) {
			t.Errorf("expected ErrPasswordTooShort for %q, got %v", pw, err)
		}
	}
}

func TestPolicy_TooLong(t *testing.T) {
	if err := strict.Validate(strings.Repeat("a", MaxPasswordLength+1)); err != ErrPasswordTooLong {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
	if err := strict.Validate(strings.Repeat("a", MaxPasswordLength)); err != nil {
		t.Errorf("expected password at max length to be valid, got %v", err)
	}
}

func TestPolicy_CommonCaseInsensitive(t *testing.T) {
	for _, pw := range []string{"password", "PASSWORD", "Qwerty", "ILoveYou", "123456"} {
		if err := strict.Validate(pw); err != ErrPasswordCommon {
			t.Errorf("expected ErrPasswordCommon for %q, got %v", pw, err)
		}
	}
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	hash1, err := HashPassword("SecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	hash2, err := HashPassword("SecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("expected different hashes for same password (random salt)")
	}
	if !strings.HasPrefix(hash1, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash1)
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("SecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPassword("SecurePassword123", hash) {
		t.Error("expected CheckPassword to return true for correct password")
	}
	if CheckPassword("WrongPassword456", hash) {
		t.Error("expected CheckPassword to return false for wrong password")
	}
	if CheckPassword("", hash) {
		t.Error("expected CheckPassword to return false for empty password")
	}
	if CheckPassword("password", "not-a-valid-hash") {
		t.Error("expected CheckPassword to return false for invalid hash")
	}
}

func TestPolicy_Rules(t *testing.T) {
	if rules := strict.Rules(); rules != "At least 6 characters. Avoid common passwords." {
		t.Errorf("unexpected rules %q", rules)
	}
}

func TestPolicy_ZeroValueOnlyRequiresPassword(t *testing.T) {
	var p Policy
	for _, pw := range []string{"p1", "a", "password"} {
		if err := p.Validate(pw); err != nil {
			t.Errorf("expected %q to pass the zero policy, got %v", pw, err)
		}
	}
	if err := p.Validate(""); err != ErrPasswordEmpty {
		t.Errorf("expected ErrPasswordEmpty, got %v", err)
	}
	if err := p.Validate(strings.Repeat("x", MaxPasswordLength+1)); err != ErrPasswordTooLong {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
	if rules := p.Rules(); rules != "" {
		t.Errorf("expected no rules for the zero policy, got %q", rules)
	}
}

func TestPolicy_MinLengthMessage(t *testing.T) {
	p := Policy{MinLength: 10}
	err := p.Validate("short-pw")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if !strings.Contains(err.Error(), "10") {
		t.Errorf("expected message to name the minimum, got %q", err.Error())
	}
	if err := p.Validate("password12"); err != nil {
		t.Errorf("common check is off, got %v", err)
	}
	if rules := p.Rules(); rules != "At least 10 characters." {
		t.Errorf("unexpected rules %q", rules)
	}
}

func TestBurnCompare_DoesNotPanic(t *testing.T) {
	BurnCompare("anything")
}
