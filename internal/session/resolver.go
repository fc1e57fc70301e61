/*
Package session decides authentication state for each request.

The Resolver asks the identity provider for the current session and degrades to
anonymous on any provider failure (fail closed): the anonymous experience stays
available even when the provider is down, and rendering never crashes on a
resolution error. Gate middleware then turns the resolved state into the
redirect-vs-render decision for each view.
*/
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mypage/internal/identity"
	"mypage/internal/pkg/logx"
)

// CookieName is the HttpOnly cookie carrying the session access token for
// server-rendered views. API clients may use an Authorization bearer header
// instead.
const CookieName = "mypage_session"

// Context key for the resolved session, preventing collisions with other packages.
type contextKey string

const contextSessionKey contextKey = "session"

// Resolver resolves the current session for a request. It is read-only and
// safe for concurrent use; it holds no mutable state of its own.
type Resolver struct {
	provider identity.Provider
}

// NewResolver constructs a Resolver over the given identity provider.
func NewResolver(provider identity.Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve returns the session for the request, or nil for anonymous. Provider
// errors (network or service failure) resolve to nil: the caller renders the
// unauthenticated experience instead of failing the request.
func (rs *Resolver) Resolve(r *http.Request) *identity.Session {
	token := TokenFromRequest(r)
	if token == "" {
		return nil
	}

	sess, err := rs.provider.GetSession(r.Context(), token)
	if err != nil {
		if !errors.Is(err, identity.ErrNoSession) {
			logx.Warn("Session resolution failed, treating as anonymous", "error", err)
		}
		return nil
	}

	return sess
}

// Middleware resolves the session once per request and injects it into the
// request context. It never interrupts the request: anonymous users simply
// carry a nil session.
func (rs *Resolver) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := rs.Resolve(r)
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextSessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext safely extracts the resolved session from the request context.
// A nil return means the user is anonymous.
func FromContext(r *http.Request) *identity.Session {
	sess, ok := r.Context().Value(contextSessionKey).(*identity.Session)
	if !ok {
		return nil
	}
	return sess
}

// RequireSession gates views reachable only by authenticated users: anonymous
// requests are redirected to the login view.
func RequireSession(loginPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if FromContext(r) == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectAuthenticated gates views meant only for anonymous users (login,
// signup): authenticated requests are redirected to the home view.
func RedirectAuthenticated(homePath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if FromContext(r) != nil {
				http.Redirect(w, r, homePath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest extracts the access token from the session cookie or, for
// API clients, from a bearer Authorization header. An empty return means no
// token was presented.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// SetCookie attaches the session cookie for the given access token.
func SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
