package service

import (
	"unicode"

	"schoolku_backend/internals/helpers/apperr"
)

// ValidatePasswordStrength mirrors the registration rule: at least 8 chars
// with upper, lower and a digit.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return apperr.New(apperr.Validation, "Password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return apperr.New(apperr.Validation, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		return apperr.New(apperr.Validation, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return apperr.New(apperr.Validation, "Password must contain at least one number")
	}
	return nil
}
