package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mypage/internal/identity"
)

// fakeProvider resolves a fixed token to a fixed session and fails everything
// else. Setting failWith makes GetSession return that error for any token.
type fakeProvider struct {
	token    string
	session  *identity.Session
	failWith error
}

func (f *fakeProvider) GetSession(ctx context.Context, accessToken string) (*identity.Session, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if accessToken != f.token {
		return nil, identity.ErrNoSession
	}
	return f.session, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	return nil, identity.ErrInvalidCredentials
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, name, redirectTo string) error {
	return nil
}

func (f *fakeProvider) ExchangeCodeForSession(ctx context.Context, code string) (*identity.Session, error) {
	return nil, identity.ErrInvalidCode
}

func validProvider() *fakeProvider {
	return &fakeProvider{
		token:   "good-token",
		session: &identity.Session{UserID: "user-1", Email: "alice@example.com", AccessToken: "good-token"},
	}
}

func requestWithCookie(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	return r
}

func TestResolveNoToken(t *testing.T) {
	resolver := NewResolver(validProvider())

	assert.Nil(t, resolver.Resolve(requestWithCookie("")))
}

func TestResolveValidCookie(t *testing.T) {
	resolver := NewResolver(validProvider())

	sess := resolver.Resolve(requestWithCookie("good-token"))
	require.NotNil(t, sess)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "alice@example.com", sess.Email)
}

func TestResolveBearerHeader(t *testing.T) {
	resolver := NewResolver(validProvider())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer good-token")

	sess := resolver.Resolve(r)
	require.NotNil(t, sess)
	assert.Equal(t, "user-1", sess.UserID)
}

func TestResolveCookieTakesPrecedenceOverHeader(t *testing.T) {
	resolver := NewResolver(validProvider())

	r := requestWithCookie("good-token")
	r.Header.Set("Authorization", "Bearer some-other-token")

	assert.NotNil(t, resolver.Resolve(r))
}

func TestResolveUnknownTokenIsAnonymous(t *testing.T) {
	resolver := NewResolver(validProvider())

	assert.Nil(t, resolver.Resolve(requestWithCookie("stale-token")))
}

func TestResolveProviderFailureIsAnonymous(t *testing.T) {
	provider := validProvider()
	provider.failWith = errors.New("identity service unreachable")
	resolver := NewResolver(provider)

	assert.Nil(t, resolver.Resolve(requestWithCookie("good-token")),
		"a provider outage must degrade to anonymous, never fail the request")
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing scheme", header: "good-token"},
		{name: "wrong scheme", header: "Basic good-token"},
		{name: "empty", header: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, "", TokenFromRequest(r))
		})
	}
}

func TestMiddlewareInjectsSession(t *testing.T) {
	resolver := NewResolver(validProvider())

	var got *identity.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r)
	})

	w := httptest.NewRecorder()
	resolver.Middleware()(next).ServeHTTP(w, requestWithCookie("good-token"))

	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
}

func TestMiddlewareAnonymousPassesThrough(t *testing.T) {
	resolver := NewResolver(validProvider())

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, FromContext(r))
	})

	w := httptest.NewRecorder()
	resolver.Middleware()(next).ServeHTTP(w, requestWithCookie(""))

	assert.True(t, called, "anonymous requests still reach the handler")
}

func TestRequireSessionRedirectsAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gated handler must not run for anonymous requests")
	})

	w := httptest.NewRecorder()
	RequireSession("/auth/login")(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/profile", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestRequireSessionAdmitsAuthenticated(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	r := httptest.NewRequest(http.MethodGet, "/settings/profile", nil)
	ctx := context.WithValue(r.Context(), contextSessionKey, &identity.Session{UserID: "user-1"})

	w := httptest.NewRecorder()
	RequireSession("/auth/login")(next).ServeHTTP(w, r.WithContext(ctx))

	assert.True(t, called)
}

func TestRedirectAuthenticated(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("login view must not render for authenticated requests")
	})

	r := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	ctx := context.WithValue(r.Context(), contextSessionKey, &identity.Session{UserID: "user-1"})

	w := httptest.NewRecorder()
	RedirectAuthenticated("/")(next).ServeHTTP(w, r.WithContext(ctx))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSetAndClearCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "token-value", true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	w = httptest.NewRecorder()
	ClearCookie(w)

	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
