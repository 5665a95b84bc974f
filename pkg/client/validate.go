package client

import (
	"regexp"
	"strings"
)

// Client-side validation mirrors the server rules so forms can reject bad
// input before a round trip. The server remains the source of truth.

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// ValidateName requires at least 2 characters after trimming.
func ValidateName(name string) bool {
	return len(strings.TrimSpace(name)) >= 2
}

// ValidateEmail checks the simple local@domain.tld shape, not full RFC 5322.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword requires at least 8 characters.
func ValidatePassword(password string) bool {
	return len(password) >= 8
}

// ValidatePhone accepts an empty phone; a present one must be digits,
// spaces, dashes, parentheses and an optional leading plus.
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// ValidateRole accepts exactly "admin" or "user".
func ValidateRole(role string) bool {
	return role == "admin" || role == "user"
}

// ValidateUserForm checks a create/edit form and returns one message per
// violated field. On update a blank password is allowed (it means "keep"),
// so the password rules only apply when one was entered.
func ValidateUserForm(data UserFormData, isUpdate bool) map[string]string {
	errs := make(map[string]string)

	if !ValidateName(data.Name) {
		errs["name"] = "Name must be at least 2 characters"
	}
	if !ValidateEmail(data.Email) {
		errs["email"] = "Invalid email"
	}
	if !isUpdate || data.Password != "" {
		if !ValidatePassword(data.Password) {
			errs["password"] = "Password must be at least 8 characters"
		}
		if data.Password != data.PasswordConfirmation {
			errs["password_confirmation"] = "Passwords do not match"
		}
	}
	if !ValidatePhone(data.Phone) {
		errs["phone"] = "Invalid phone"
	}
	if !ValidateRole(data.Role) {
		errs["role"] = "Invalid role"
	}

	return errs
}

// ValidateRegistration checks the self-service registration form. No role
// field: registration always yields a standard user.
func ValidateRegistration(data RegisterData) map[string]string {
	errs := make(map[string]string)

	if !ValidateName(data.Name) {
		errs["name"] = "Name must be at least 2 characters"
	}
	if !ValidateEmail(data.Email) {
		errs["email"] = "Invalid email"
	}
	if !ValidatePassword(data.Password) {
		errs["password"] = "Password must be at least 8 characters"
	}
	if data.Password != data.PasswordConfirmation {
		errs["password_confirmation"] = "Passwords do not match"
	}
	if !ValidatePhone(data.Phone) {
		errs["phone"] = "Invalid phone"
	}

	return errs
}
