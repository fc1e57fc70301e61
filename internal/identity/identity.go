/*
Package identity abstracts the authentication collaborator behind a small Provider interface.

Two implementations exist: an HTTP adapter for a hosted GoTrue-compatible service,
and a Postgres-backed local provider for development and self-hosted deployments.
The rest of the application only ever sees Session values and sentinel errors.
*/
package identity

import (
	"context"
	"errors"
)

// Session is the token bundle issued by the identity provider. Downstream code
// consumes only UserID and Email; AccessToken is carried so handlers can place
// it in the session cookie.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

// Sentinel errors returned by Provider implementations. Callers map these to
// user-facing error codes; any other error is treated as a provider failure.
var (
	// ErrInvalidCredentials indicates the email/password pair was rejected.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")

	// ErrEmailTaken indicates an account with the given email already exists.
	ErrEmailTaken = errors.New("identity: email already registered")

	// ErrInvalidCode indicates the confirmation code is unknown or expired.
	ErrInvalidCode = errors.New("identity: invalid confirmation code")

	// ErrNoSession indicates the access token does not map to an active session.
	ErrNoSession = errors.New("identity: no active session")
)

// Provider is the identity collaborator interface consumed by the core.
type Provider interface {
	// GetSession resolves the session for an access token. A missing or invalid
	// token yields ErrNoSession; transport failures yield other errors.
	GetSession(ctx context.Context, accessToken string) (*Session, error)

	// SignIn verifies credentials and returns a fresh session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account. The display name is stored alongside the
	// account so the profile row can be created with it, and redirectTo is the
	// confirmation-link target. No session is returned: the account must be
	// confirmed through ExchangeCodeForSession first.
	SignUp(ctx context.Context, email, password, name, redirectTo string) error

	// ExchangeCodeForSession redeems a confirmation code from the signup email
	// for an authenticated session.
	ExchangeCodeForSession(ctx context.Context, code string) (*Session, error)
}
