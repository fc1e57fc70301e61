package profile

import (
	"net/mail"
	"unicode/utf8"

	"mypage/internal/pkg/errs"
)

const (
	// MinNameLength is the minimum display name length in runes.
	MinNameLength = 2

	// MinPasswordLength is the minimum password length in runes.
	MinPasswordLength = 6

	// MaxPasswordLength caps password length to keep bcrypt input bounded.
	MaxPasswordLength = 50
)

// FormFields is the raw profile form input submitted by the user.
type FormFields struct {
	Name      string `json:"name"`
	Introduce string `json:"introduce"`
}

// fieldRule pairs a predicate with the error kind reported when it fails.
// Rules are pure: they inspect the input and nothing else.
type fieldRule[T any] struct {
	ok   func(T) bool
	code int
}

// profileRules validate the profile edit form. The bio may be empty.
var profileRules = []fieldRule[FormFields]{
	{ok: func(f FormFields) bool { return utf8.RuneCountInString(f.Name) >= MinNameLength }, code: errs.ErrNameTooShort},
}

// Credentials is the raw signup/login form input.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var loginRules = []fieldRule[Credentials]{
	{ok: func(c Credentials) bool { return validEmail(c.Email) }, code: errs.ErrInvalidEmail},
	{ok: func(c Credentials) bool {
		n := utf8.RuneCountInString(c.Password)
		return n >= MinPasswordLength && n <= MaxPasswordLength
	}, code: errs.ErrInvalidPassword},
}

var signupRules = append([]fieldRule[Credentials]{
	{ok: func(c Credentials) bool { return utf8.RuneCountInString(c.Name) >= MinNameLength }, code: errs.ErrNameTooShort},
}, loginRules...)

// ValidateForm checks the profile edit form and reports the first failing
// rule, or nil when every rule passes. It never contacts a collaborator.
func ValidateForm(f FormFields) *errs.CustomError {
	return evaluate(profileRules, f)
}

// ValidateSignup checks the signup form (name, email, password).
func ValidateSignup(c Credentials) *errs.CustomError {
	return evaluate(signupRules, c)
}

// ValidateLogin checks the login form (email, password).
func ValidateLogin(c Credentials) *errs.CustomError {
	return evaluate(loginRules, c)
}

func evaluate[T any](rules []fieldRule[T], input T) *errs.CustomError {
	for _, rule := range rules {
		if !rule.ok(input) {
			return errs.NewError(rule.code)
		}
	}
	return nil
}

func validEmail(address string) bool {
	if address == "" {
		return false
	}
	parsed, err := mail.ParseAddress(address)
	return err == nil && parsed.Address == address
}
