package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mypage/internal/app/avatar"
	"mypage/internal/app/profile"
	"mypage/internal/configs"
	"mypage/internal/identity"
	"mypage/internal/session"
)

const (
	testToken  = "test-access-token"
	testUserID = "11111111-1111-1111-1111-111111111111"
	testEmail  = "alice@example.com"
)

// fakeIdentity is an in-memory identity provider for handler tests.
type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]string // email -> password
	codes    map[string]string // confirmation code -> email
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts: map[string]string{testEmail: "secret1"},
		codes:    map[string]string{"valid-code": testEmail},
	}
}

func (f *fakeIdentity) GetSession(ctx context.Context, accessToken string) (*identity.Session, error) {
	if accessToken != testToken {
		return nil, identity.ErrNoSession
	}
	return &identity.Session{UserID: testUserID, Email: testEmail, AccessToken: testToken}, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accounts[email] != password {
		return nil, identity.ErrInvalidCredentials
	}
	return &identity.Session{UserID: testUserID, Email: email, AccessToken: testToken}, nil
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password, name, redirectTo string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.accounts[email]; taken {
		return identity.ErrEmailTaken
	}
	f.accounts[email] = password
	return nil
}

func (f *fakeIdentity) ExchangeCodeForSession(ctx context.Context, code string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.codes[code]
	if !ok {
		return nil, identity.ErrInvalidCode
	}
	delete(f.codes, code)
	return &identity.Session{UserID: testUserID, Email: email, AccessToken: testToken}, nil
}

// fakeProfileRepo is an in-memory profile.Repository.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: map[string]profile.Profile{
			testUserID: {ID: testUserID, Email: testEmail, Name: "Alice", Introduce: "Hello."},
		},
	}
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, id string, fields profile.UpdateFields) (*profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, profile.ErrNotFound
	}
	p.Name = fields.Name
	p.Introduce = fields.Introduce
	if fields.AvatarURL != nil {
		p.AvatarURL = *fields.AvatarURL
	}
	f.profiles[id] = p
	return &p, nil
}

// fakeObjectStore is an in-memory storage.StorageService.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Upload(ctx context.Context, key string, body io.Reader, mimeType string, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.objects[key] = data
	f.mu.Unlock()
	return key, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	delete(f.objects, key)
	f.mu.Unlock()
	return nil
}

func (f *fakeObjectStore) PublicURL(path string) string {
	return "https://cdn.example.com/" + path
}

func (f *fakeObjectStore) KeyFromURL(url string) (string, bool) {
	key, found := strings.CutPrefix(url, "https://cdn.example.com/")
	return key, found
}

type testEnv struct {
	handler  http.Handler
	provider *fakeIdentity
	repo     *fakeProfileRepo
	objects  *fakeObjectStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	provider := newFakeIdentity()
	repo := newFakeProfileRepo()
	objects := newFakeObjectStore()

	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment:    "test",
			Port:           8080,
			SiteURL:        "http://localhost:8080",
			AllowedOrigins: []string{"http://localhost:8080"},
		},
		Provider:     provider,
		Resolver:     session.NewResolver(provider),
		Storage:      objects,
		Profiles:     repo,
		Avatars:      avatar.NewManager(objects),
		Coordinators: profile.NewCoordinatorRegistry(repo),
	}

	return &testEnv{
		handler:  Router(deps),
		provider: provider,
		repo:     repo,
		objects:  objects,
	}
}

func (e *testEnv) do(t *testing.T, r *http.Request, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	if authenticated {
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: testToken})
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, string, map[string]any) {
	t.Helper()
	var envelope struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Code, envelope.Message, envelope.Data
}

// multipartForm builds a profile submission body. avatarMIME == "" means no
// avatar part is included at all.
func multipartForm(t *testing.T, fields map[string]string, avatarName, avatarMIME string, avatarBytes []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if avatarMIME != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="avatar"; filename="`+avatarName+`"`)
		header.Set("Content-Type", avatarMIME)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(avatarBytes)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}
