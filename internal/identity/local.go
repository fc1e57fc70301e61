package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"mypage/internal/app/db"
	"mypage/internal/pkg/auth/jwt"
	"mypage/internal/pkg/logx"
	"mypage/internal/pkg/randx"
)

// confirmationCodeTTL is how long a signup confirmation link stays redeemable.
const confirmationCodeTTL = 24 * time.Hour

// LocalProvider implements Provider on top of the application's own Postgres
// database, issuing HS256 session tokens. It exists for development and
// self-hosted deployments where no external identity service is available.
type LocalProvider struct {
	pool      *pgxpool.Pool
	jwtSecret string
}

// NewLocalProvider constructs the Postgres-backed provider.
func NewLocalProvider(pool *pgxpool.Pool, jwtSecret string) *LocalProvider {
	return &LocalProvider{pool: pool, jwtSecret: jwtSecret}
}

// GetSession validates the access token and reconstructs the session from its claims.
func (p *LocalProvider) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}

	payload, err := jwt.ParseToken(accessToken, p.jwtSecret)
	if err != nil {
		return nil, ErrNoSession
	}

	return &Session{
		UserID:      payload.UserID,
		Email:       payload.Email,
		AccessToken: accessToken,
	}, nil
}

// SignIn verifies credentials against auth_users and issues a session token.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var (
		userID       string
		passwordHash string
		confirmedAt  *time.Time
	)

	row := p.pool.QueryRow(ctx,
		`SELECT id, password_hash, confirmed_at FROM auth_users WHERE email = $1`, email)
	if err := row.Scan(&userID, &passwordHash, &confirmedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("identity: query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if confirmedAt == nil {
		// Unconfirmed accounts cannot sign in; the confirmation link must be
		// redeemed first.
		return nil, ErrInvalidCredentials
	}

	return p.issueSession(userID, email)
}

// SignUp creates the auth user, its profile row, and a confirmation code in a
// single transaction. The profile row is keyed by the new user id so a later
// email change cannot detach it.
func (p *LocalProvider) SignUp(ctx context.Context, email, password, name, redirectTo string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("identity: hash password: %w", err)
	}

	code, err := randx.ConfirmationCode()
	if err != nil {
		return fmt.Errorf("identity: generate confirmation code: %w", err)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("identity: begin signup transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx,
		`INSERT INTO auth_users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, string(hashed),
	).Scan(&userID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("identity: insert user: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (id, email, name) VALUES ($1, $2, $3)`,
		userID, email, name,
	)
	if err != nil {
		return fmt.Errorf("identity: insert profile: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO auth_confirmation_codes (code, user_id, redirect_to, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		code, userID, redirectTo, time.Now().Add(confirmationCodeTTL),
	)
	if err != nil {
		return fmt.Errorf("identity: insert confirmation code: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("identity: commit signup transaction: %w", err)
	}

	// Mail delivery is out of scope for the local provider; the link is logged
	// so developers can complete the flow by hand.
	logx.Info("Signup confirmation link issued",
		"email", email,
		"link", fmt.Sprintf("%s?code=%s", redirectTo, code),
	)

	return nil
}

// ExchangeCodeForSession redeems a confirmation code, marks the account
// confirmed, and issues a session token. Codes are single use.
func (p *LocalProvider) ExchangeCodeForSession(ctx context.Context, code string) (*Session, error) {
	if !randx.IsValidConfirmationCode(code) {
		return nil, ErrInvalidCode
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity: begin exchange transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		userID    string
		email     string
		expiresAt time.Time
	)
	row := tx.QueryRow(ctx,
		`SELECT c.user_id, u.email, c.expires_at
		   FROM auth_confirmation_codes c
		   JOIN auth_users u ON u.id = c.user_id
		  WHERE c.code = $1`, code)
	if err := row.Scan(&userID, &email, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("identity: query confirmation code: %w", err)
	}

	if time.Now().After(expiresAt) {
		return nil, ErrInvalidCode
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM auth_confirmation_codes WHERE code = $1`, code); err != nil {
		return nil, fmt.Errorf("identity: consume confirmation code: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE auth_users SET confirmed_at = now() WHERE id = $1 AND confirmed_at IS NULL`,
		userID); err != nil {
		return nil, fmt.Errorf("identity: confirm user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("identity: commit exchange transaction: %w", err)
	}

	return p.issueSession(userID, email)
}

// issueSession signs a fresh token for the given user.
func (p *LocalProvider) issueSession(userID, email string) (*Session, error) {
	payload := &jwt.Payload{
		UserID: userID,
		Email:  email,
	}

	token, err := jwt.GenerateToken(payload, p.jwtSecret, jwt.SessionExpiration)
	if err != nil {
		return nil, fmt.Errorf("identity: sign session token: %w", err)
	}

	return &Session{UserID: userID, Email: email, AccessToken: token}, nil
}
