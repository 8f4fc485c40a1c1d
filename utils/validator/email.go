package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmailEmpty    = errors.New("email cannot be empty")
	ErrEmailInvalid  = errors.New("email format is invalid")
	ErrEmailTooLong  = errors.New("email is too long")
	ErrDomainInvalid = errors.New("email domain is invalid")
)

// ASCII local part, dotted domain, alphabetic TLD of two or more letters.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9][a-zA-Z0-9.-]*[a-zA-Z0-9]\.[a-zA-Z]{2,}$`)

const maxEmailLength = 254

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	if email = strings.TrimSpace(email); email == "" {
		return ErrEmailEmpty
	}
	if len(email) > maxEmailLength {
		return ErrEmailTooLong
	}

	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || strings.Contains(domain, "@") {
		return ErrEmailInvalid
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return ErrDomainInvalid
	}

	if !emailRegex.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}
