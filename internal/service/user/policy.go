package user

import (
	"strings"
	"unicode"

	"github.com/nkiryanov/taskboard/internal/apperrors"
)

// PasswordPolicy decides whether a password is acceptable for the username.
// Implementations must return a descriptive error, never silently fix the
// password up.
type PasswordPolicy interface {
	Validate(username string, password string) error
}

const defaultMinPasswordLength = 8

// Short list of passwords seen in every breach dump.
// Checked case insensitively.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"1234567890": {},
	"qwerty123":  {},
	"qwertyuiop": {},
	"iloveyou":   {},
	"letmein1":   {},
	"sunshine":   {},
	"princess":   {},
	"football":   {},
	"baseball":   {},
	"superman":   {},
	"p@ssw0rd":   {},
}

// DefaultPolicy rejects short, entirely numeric, common and
// username-derived passwords
type DefaultPolicy struct {
	// Minimum password length, default is used when zero
	MinLength int
}

func (p DefaultPolicy) Validate(username string, password string) error {
	minLength := p.MinLength
	if minLength == 0 {
		minLength = defaultMinPasswordLength
	}

	reject := func(reason string) error {
		return &apperrors.PasswordPolicyError{Reason: reason}
	}

	if password == "" {
		return reject("password must not be empty")
	}

	if len(password) < minLength {
		return reject("password is too short")
	}

	if isEntirelyNumeric(password) {
		return reject("password is entirely numeric")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return reject("password is too common")
	}

	if isSimilar(username, password) {
		return reject("password is too similar to the username")
	}

	return nil
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isSimilar reports whether one string contains the other, ignoring case
func isSimilar(username string, password string) bool {
	if username == "" {
		return false
	}

	u := strings.ToLower(username)
	p := strings.ToLower(password)
	return strings.Contains(p, u) || strings.Contains(u, p)
}
