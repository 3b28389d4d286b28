package accounts

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Username and password constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

var (
	// emailRegex accepts the usual local-part@domain mailbox shape.
	// Deliverability is not checked.
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// usernameRegex restricts usernames to letters, digits, '_' and '-'.
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// FieldError describes one violated registration rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field violation of one registration
// request, so a client sees all problems in a single response.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ValidateRegistration checks the field-level rules for a registration
// request and returns every violation. It is pure: no I/O, no side effects,
// and it never fails fast.
func ValidateRegistration(email, username, password string) []FieldError {
	var errs []FieldError

	if !emailRegex.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
	}

	if l := utf8.RuneCountInString(username); l < MinUsernameLength || l > MaxUsernameLength {
		errs = append(errs, FieldError{
			Field:   "username",
			Message: fmt.Sprintf("must be between %d and %d characters long", MinUsernameLength, MaxUsernameLength),
		})
	}
	if username != "" && !usernameRegex.MatchString(username) {
		errs = append(errs, FieldError{
			Field:   "username",
			Message: "must contain only letters, digits, underscores and hyphens",
		})
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs = append(errs, FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters long", MinPasswordLength),
		})
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		errs = append(errs, FieldError{Field: "password", Message: "must contain at least one letter"})
	}
	if !hasDigit {
		errs = append(errs, FieldError{Field: "password", Message: "must contain at least one digit"})
	}

	return errs
}
