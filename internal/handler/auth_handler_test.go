package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mypage/internal/pkg/errs"
	"mypage/internal/session"
)

func TestSignupSuccess(t *testing.T) {
	env := newTestEnv(t)

	r := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "secret1",
	})
	w := env.do(t, r, false)

	assert.Equal(t, http.StatusOK, w.Code)
	code, _, data := decodeEnvelope(t, w)
	assert.Equal(t, 0, code)
	assert.Contains(t, data["message"], "confirmation email")

	// No session is issued until the confirmation link is redeemed.
	assert.Empty(t, w.Result().Cookies())
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	r := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Alice",
		"email":    testEmail,
		"password": "secret1",
	})
	w := env.do(t, r, false)

	code, _, _ := decodeEnvelope(t, w)
	assert.Equal(t, errs.ErrEmailAlreadyRegistered, code)
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]string
		wantCode int
	}{
		{
			name:     "short name",
			payload:  map[string]string{"name": "B", "email": "bob@example.com", "password": "secret1"},
			wantCode: errs.ErrNameTooShort,
		},
		{
			name:     "bad email",
			payload:  map[string]string{"name": "Bob", "email": "nope", "password": "secret1"},
			wantCode: errs.ErrInvalidEmail,
		},
		{
			name:     "short password",
			payload:  map[string]string{"name": "Bob", "email": "bob@example.com", "password": "12345"},
			wantCode: errs.ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(t, jsonRequest(t, http.MethodPost, "/api/auth/signup", tt.payload), false)

			code, _, _ := decodeEnvelope(t, w)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestSignupRejectedWhenAlreadyLoggedIn(t *testing.T) {
	env := newTestEnv(t)

	r := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "secret1",
	})
	w := env.do(t, r, true)

	code, _, _ := decodeEnvelope(t, w)
	assert.Equal(t, errs.ErrAlreadyLoggedIn, code)
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	r := jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": "secret1",
	})
	w := env.do(t, r, false)

	assert.Equal(t, http.StatusOK, w.Code)
	code, _, data := decodeEnvelope(t, w)
	assert.Equal(t, 0, code)

	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, testUserID, user["id"])
	assert.Equal(t, testEmail, user["email"])

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Equal(t, testToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	r := jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    testEmail,
		"password": "wrong-password",
	})
	w := env.do(t, r, false)

	code, _, _ := decodeEnvelope(t, w)
	assert.Equal(t, errs.ErrInvalidCredentials, code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginRejectsNonJSONBody(t *testing.T) {
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	r.Header.Set("Content-Type", "text/plain")
	w := env.do(t, r, false)

	code, _, _ := decodeEnvelope(t, w)
	assert.Equal(t, errs.ErrUnsupportedMediaType, code)
}

func TestSignoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil), true)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestAuthCallbackRedeemsCode(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/auth/callback?code=valid-code", nil), false)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, testToken, cookies[0].Value)
}

func TestAuthCallbackInvalidCodeStillRedirects(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/auth/callback?code=bogus", nil), false)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, w.Result().Cookies(), "an unredeemable code must not issue a session")
}

func TestAuthCallbackWithoutCodeRedirects(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/auth/callback", nil), false)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Empty(t, w.Result().Cookies())
}
