package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a provider response body is read.
const maxResponseBytes = 1 << 20

// HTTPProvider talks to a hosted GoTrue-compatible identity service.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider constructs the hosted-service adapter. A nil client falls
// back to a 10 second timeout default.
func NewHTTPProvider(baseURL, apiKey string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: client,
	}
}

// gotrueUser mirrors the user object embedded in GoTrue responses.
type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// gotrueToken mirrors the token grant response.
type gotrueToken struct {
	AccessToken string     `json:"access_token"`
	User        gotrueUser `json:"user"`
}

// gotrueError mirrors the error payload shapes GoTrue uses.
type gotrueError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e gotrueError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorDescription
}

// GetSession resolves the session for an access token via the userinfo endpoint.
func (p *HTTPProvider) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}

	status, body, err := p.do(ctx, http.MethodGet, "/user", accessToken, nil)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, ErrNoSession
	}
	if status >= 300 {
		return nil, fmt.Errorf("identity: userinfo failed: status=%d", status)
	}

	var user gotrueUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("identity: decode userinfo: %w", err)
	}
	if user.ID == "" {
		return nil, ErrNoSession
	}

	return &Session{UserID: user.ID, Email: user.Email, AccessToken: accessToken}, nil
}

// SignIn performs the password token grant.
func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}

	status, body, err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", payload)
	if err != nil {
		return nil, err
	}

	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if status >= 300 {
		return nil, fmt.Errorf("identity: token grant failed: status=%d", status)
	}

	var token gotrueToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("identity: decode token response: %w", err)
	}

	return &Session{
		UserID:      token.User.ID,
		Email:       token.User.Email,
		AccessToken: token.AccessToken,
	}, nil
}

// SignUp registers a new account with the hosted service. The display name
// travels as user metadata and redirectTo as the confirmation-link target.
func (p *HTTPProvider) SignUp(ctx context.Context, email, password, name, redirectTo string) error {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}

	path := "/signup"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}

	status, body, err := p.do(ctx, http.MethodPost, path, "", payload)
	if err != nil {
		return err
	}

	if status >= 300 {
		var apiErr gotrueError
		_ = json.Unmarshal(body, &apiErr)
		if strings.Contains(strings.ToLower(apiErr.text()), "already registered") {
			return ErrEmailTaken
		}
		return fmt.Errorf("identity: signup failed: status=%d", status)
	}

	return nil
}

// ExchangeCodeForSession redeems a confirmation code for a session.
func (p *HTTPProvider) ExchangeCodeForSession(ctx context.Context, code string) (*Session, error) {
	payload := map[string]string{"auth_code": code}

	status, body, err := p.do(ctx, http.MethodPost, "/token?grant_type=pkce", "", payload)
	if err != nil {
		return nil, err
	}

	if status >= 300 {
		return nil, ErrInvalidCode
	}

	var token gotrueToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("identity: decode token response: %w", err)
	}

	return &Session{
		UserID:      token.User.ID,
		Email:       token.User.Email,
		AccessToken: token.AccessToken,
	}, nil
}

// do issues one request against the provider and returns the status with a
// size-capped body. A non-nil error means the call itself failed (transport),
// not that the provider rejected it.
func (p *HTTPProvider) do(ctx context.Context, method, path, bearer string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("identity: encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("identity: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("identity: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("identity: read response: %w", err)
	}

	return resp.StatusCode, body, nil
}
