package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mypage/internal/pkg/errs"
)

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name     string
		form     FormFields
		wantCode int
	}{
		{name: "valid", form: FormFields{Name: "Alice", Introduce: "Hello."}},
		{name: "empty bio is allowed", form: FormFields{Name: "Al"}},
		{name: "single character name", form: FormFields{Name: "A"}, wantCode: errs.ErrNameTooShort},
		{name: "empty name", form: FormFields{Name: ""}, wantCode: errs.ErrNameTooShort},
		{name: "multibyte name counts runes not bytes", form: FormFields{Name: "山田"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customErr := ValidateForm(tt.form)
			if tt.wantCode == 0 {
				assert.Nil(t, customErr)
				return
			}
			require.NotNil(t, customErr)
			assert.Equal(t, tt.wantCode, customErr.Code)
		})
	}
}

func TestValidateSignup(t *testing.T) {
	valid := Credentials{Name: "Alice", Email: "alice@example.com", Password: "secret1"}

	tests := []struct {
		name     string
		mutate   func(c Credentials) Credentials
		wantCode int
	}{
		{name: "valid", mutate: func(c Credentials) Credentials { return c }},
		{name: "short name", mutate: func(c Credentials) Credentials { c.Name = "A"; return c }, wantCode: errs.ErrNameTooShort},
		{name: "missing email", mutate: func(c Credentials) Credentials { c.Email = ""; return c }, wantCode: errs.ErrInvalidEmail},
		{name: "malformed email", mutate: func(c Credentials) Credentials { c.Email = "not-an-email"; return c }, wantCode: errs.ErrInvalidEmail},
		{name: "short password", mutate: func(c Credentials) Credentials { c.Password = "12345"; return c }, wantCode: errs.ErrInvalidPassword},
		{name: "overlong password", mutate: func(c Credentials) Credentials {
			for len(c.Password) <= MaxPasswordLength {
				c.Password += "x"
			}
			return c
		}, wantCode: errs.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customErr := ValidateSignup(tt.mutate(valid))
			if tt.wantCode == 0 {
				assert.Nil(t, customErr)
				return
			}
			require.NotNil(t, customErr)
			assert.Equal(t, tt.wantCode, customErr.Code)
		})
	}
}

func TestValidateLoginIgnoresName(t *testing.T) {
	// Login has no name field; an empty name must not fail validation.
	customErr := ValidateLogin(Credentials{Email: "alice@example.com", Password: "secret1"})
	assert.Nil(t, customErr)
}

func TestValidateReportsFirstFailureOnly(t *testing.T) {
	customErr := ValidateSignup(Credentials{Name: "A", Email: "bad", Password: "x"})
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrNameTooShort, customErr.Code)
}
