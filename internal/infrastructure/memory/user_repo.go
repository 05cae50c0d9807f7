package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/user-management/internal/domain"
)

// UserRepo is a mutex-guarded stand-in for the users table. It honors the
// same contract as the postgres repository: unique email, generated ids,
// list ordering, single-call bulk updates.
type UserRepo struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.User
	byEmail map[string]int64 // email -> id

	now func() time.Time
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[int64]domain.User),
		byEmail: make(map[string]int64),
		now:     time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}
	if u.Status == "" {
		u.Status = domain.StatusUnverified
	}
	if !u.Status.Valid() {
		return domain.User{}, domain.ErrInvalidField("status", "unknown")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	r.nextID++
	now := r.now()
	u.ID = r.nextID
	u.LastLoginTime = nil
	u.RegistrationTime = now
	u.CreatedAt = now

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	now := r.now()
	u.LastLoginTime = &now
	r.byID[id] = u
	return nil
}

func (r *UserRepo) ActivateUnverified(ctx context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return 0, domain.ErrUserNotFound()
	}
	u := r.byID[id]
	if u.Status != domain.StatusUnverified {
		return 0, domain.ErrUserNotFound()
	}
	u.Status = domain.StatusActive
	r.byID[id] = u
	return id, nil
}

// List orders by last login (newest first, never-logged-in last), then id.
// Password hashes are not returned.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		u.PasswordHash = ""
		out = append(out, u)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.User) int {
		x, y := a.LastLoginTime, b.LastLoginTime
		switch {
		case x != nil && y != nil && !x.Equal(*y):
			return y.Compare(*x)
		case x != nil && y == nil:
			return -1
		case x == nil && y != nil:
			return 1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *UserRepo) SetStatus(ctx context.Context, ids []int64, status domain.UserStatus) (int64, error) {
	if !status.Valid() {
		return 0, domain.ErrInvalidField("status", "unknown")
	}
	if len(ids) == 0 {
		return 0, domain.ErrMissingUserIDs()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		u, ok := r.byID[id]
		if !ok {
			continue
		}
		u.Status = status
		r.byID[id] = u
		n++
	}
	return n, nil
}

func (r *UserRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrMissingUserIDs()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		if r.deleteLocked(id) {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) DeleteByStatus(ctx context.Context, status domain.UserStatus) (int64, error) {
	if !status.Valid() {
		return 0, domain.ErrInvalidField("status", "unknown")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, u := range r.byID {
		if u.Status == status && r.deleteLocked(id) {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) deleteLocked(id int64) bool {
	u, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return true
}
