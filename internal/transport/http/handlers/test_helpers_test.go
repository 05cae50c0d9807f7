package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/user-management/internal/application/auth"
	"github.com/baechuer/user-management/internal/application/users"
	"github.com/baechuer/user-management/internal/domain"
	"github.com/baechuer/user-management/internal/infrastructure/memory"
	"github.com/baechuer/user-management/internal/infrastructure/security"
	"github.com/baechuer/user-management/internal/transport/http/middleware"
)

type testApp struct {
	repo   *memory.UserRepo
	hasher *security.BcryptHasher
	signer *security.JWTSigner

	authH  *AuthHandler
	usersH *UsersHandler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithRepo(t, memory.NewUserRepo())
}

// newTestAppWithRepo lets a test swap the auth repository while the users
// service keeps the in-memory store.
func newTestAppWithRepo(t *testing.T, authRepo auth.UserRepo) *testApp {
	t.Helper()

	repo, _ := authRepo.(*memory.UserRepo)
	if repo == nil {
		repo = memory.NewUserRepo()
	}
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	signer := security.NewJWTSigner("test-secret", "user-management")

	authSvc := auth.NewService(authRepo, hasher, signer, memory.NewNoopPublisher(), auth.Config{AccessTTL: time.Hour})
	usersSvc := users.NewService(repo)

	return &testApp{
		repo:   repo,
		hasher: hasher,
		signer: signer,
		authH:  NewAuthHandler(authSvc),
		usersH: NewUsersHandler(usersSvc),
	}
}

// seedUser inserts a user with a real bcrypt hash of password.
func (a *testApp) seedUser(t *testing.T, name, email, password string, status domain.UserStatus) domain.User {
	t.Helper()

	hash, err := a.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := a.repo.Create(context.Background(), domain.User{
		Name: name, Email: email, PasswordHash: hash, Status: status,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return u
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes the recorder body into out.
func mustReadJSON(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode json failed: %v; body=%s", err, rr.Body.String())
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, mustJSONBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func postRaw(h http.HandlerFunc, path, body string, actor *domain.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req = withUserCtx(req, *actor)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// withUserCtx injects the authenticated user the way the auth middleware does.
func withUserCtx(req *http.Request, u domain.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), u))
}

type errorBody struct {
	Message         string `json:"message"`
	Code            string `json:"code"`
	RedirectToLogin bool   `json:"redirectToLogin"`
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code, message string) {
	t.Helper()

	if rr.Code != status {
		t.Fatalf("expected status %d, got %d body=%s", status, rr.Code, rr.Body.String())
	}
	var body errorBody
	mustReadJSON(t, rr, &body)
	if code != "" && body.Code != code {
		t.Fatalf("expected code %q, got %q", code, body.Code)
	}
	if message != "" && body.Message != message {
		t.Fatalf("expected message %q, got %q", message, body.Message)
	}
}

// failingAuthRepo wraps the in-memory repo and fails selected calls.
type failingAuthRepo struct {
	*memory.UserRepo
	createErr error
	getErr    error
	verifyErr error
}

func (f *failingAuthRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	return f.UserRepo.Create(ctx, u)
}

func (f *failingAuthRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	return f.UserRepo.GetByEmail(ctx, email)
}

func (f *failingAuthRepo) ActivateUnverified(ctx context.Context, email string) (int64, error) {
	if f.verifyErr != nil {
		return 0, f.verifyErr
	}
	return f.UserRepo.ActivateUnverified(ctx, email)
}
