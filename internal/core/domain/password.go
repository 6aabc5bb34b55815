package domain

import "unicode"

const minPasswordLength = 8

// ValidatePassword enforces the account password policy: at least eight
// characters with one uppercase letter, one lowercase letter, one digit,
// and one special character. Returns ErrWeakPassword when any rule fails.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}

	if !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}
