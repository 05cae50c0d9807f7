package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/baechuer/user-management/internal/domain"
)

const (
	userColumns   = `id, name, email, password, status, last_login_time, registration_time, created_at`
	publicColumns = `id, name, email, status, last_login_time, registration_time, created_at`

	uniqueViolation = "23505"
	emailConstraint = "users_email_key"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return pgErr.ConstraintName == "" || pgErr.ConstraintName == emailConstraint
}

// ---------- auth.UserRepo ----------

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

	const q = `
INSERT INTO users (name, email, password, status)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns + `;
`
	ur, err := scanUser(r.db.QueryRowContext(ctx, q, u.Name, u.Email, u.PasswordHash, string(u.Status)))
	if err != nil {
		if isEmailConflict(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, domain.ErrUserNotFound()
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id int64) error {
	const q = `UPDATE users SET last_login_time = NOW() WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) ActivateUnverified(ctx context.Context, email string) (int64, error) {
	email = normalizeEmail(email)
	if email == "" {
		return 0, domain.ErrMissingField("email")
	}

	const q = `
UPDATE users
SET status = 'active'
WHERE email = $1 AND status = 'unverified'
RETURNING id;
`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrUserNotFound()
		}
		return 0, domain.ErrDBUnavailable(err)
	}
	return id, nil
}

// ---------- users.UserRepo ----------

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	const q = `
SELECT ` + publicColumns + `
FROM users
ORDER BY last_login_time DESC NULLS LAST, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		ur, err := scanPublicUser(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *UserRepo) SetStatus(ctx context.Context, ids []int64, status domain.UserStatus) (int64, error) {
	if !status.Valid() {
		return 0, domain.ErrInvalidField("status", "unknown")
	}
	if len(ids) == 0 {
		return 0, domain.ErrMissingUserIDs()
	}

	const q = `UPDATE users SET status = $1 WHERE id = ANY($2);`
	return r.exec(ctx, q, string(status), pq.Array(ids))
}

func (r *UserRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrMissingUserIDs()
	}

	const q = `DELETE FROM users WHERE id = ANY($1);`
	return r.exec(ctx, q, pq.Array(ids))
}

func (r *UserRepo) DeleteByStatus(ctx context.Context, status domain.UserStatus) (int64, error) {
	if !status.Valid() {
		return 0, domain.ErrInvalidField("status", "unknown")
	}

	const q = `DELETE FROM users WHERE status = $1;`
	return r.exec(ctx, q, string(status))
}

func (r *UserRepo) exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}
