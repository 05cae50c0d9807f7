package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/user-management/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditSink struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditSink) record(_ context.Context, action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditSink) last(t *testing.T) auditEntry {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		t.Fatalf("expected audit entry")
	}
	return a.entries[len(a.entries)-1]
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	nextID int64
	byID   map[int64]domain.User

	// injected errors (if set, method returns error)
	createErr     error
	getByEmailErr error
	getByIDErr    error
	touchErr      error
	activateErr   error

	touched []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]domain.User{}}
}

func (f *fakeUserRepo) put(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	} else if u.ID > f.nextID {
		f.nextID = u.ID
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	if f.createErr != nil {
		f.mu.Unlock()
		return domain.User{}, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			f.mu.Unlock()
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	f.mu.Unlock()

	now := time.Now()
	u.RegistrationTime = now
	u.CreatedAt = now
	return f.put(u), nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.touchErr != nil {
		return f.touchErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	now := time.Now()
	u.LastLoginTime = &now
	f.byID[id] = u
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeUserRepo) ActivateUnverified(ctx context.Context, email string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.activateErr != nil {
		return 0, f.activateErr
	}
	for id, u := range f.byID {
		if u.Email == email && u.Status == domain.StatusUnverified {
			u.Status = domain.StatusActive
			f.byID[id] = u
			return id, nil
		}
	}
	return 0, domain.ErrUserNotFound()
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return "hash:" + pw, nil
}

func (h *fakeHasher) Compare(hash, pw string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, pw)
	}
	if hash != "hash:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

// fakeSigner issues "tok:<id>:<email>" tokens.
type fakeSigner struct {
	signErr   error
	verifyErr error
	lastTTL   time.Duration
}

func (s *fakeSigner) SignAccessToken(userID int64, email string, ttl time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	s.lastTTL = ttl
	return "tok:" + strconv.FormatInt(userID, 10) + ":" + email, nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	if s.verifyErr != nil {
		return TokenClaims{}, s.verifyErr
	}
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "tok" {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: id, Email: parts[2], Exp: time.Now().Add(time.Hour)}, nil
}

type fakePublisher struct {
	mu         sync.Mutex
	err        error
	registered []UserRegisteredEvent
	verified   []UserVerifiedEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, evt)
	return p.err
}

func (p *fakePublisher) PublishUserVerified(ctx context.Context, evt UserVerifiedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verified = append(p.verified, evt)
	return p.err
}

type testEnv struct {
	svc    *Service
	users  *fakeUserRepo
	hasher *fakeHasher
	signer *fakeSigner
	pub    *fakePublisher
	audit  *auditSink
}

func newSvcForTest(t *testing.T) testEnv {
	t.Helper()

	env := testEnv{
		users:  newFakeUserRepo(),
		hasher: &fakeHasher{},
		signer: &fakeSigner{},
		pub:    &fakePublisher{},
		audit:  &auditSink{},
	}
	env.svc = NewService(env.users, env.hasher, env.signer, env.pub, Config{}).WithAudit(env.audit.record)
	return env
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
