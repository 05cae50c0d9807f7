package users

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/baechuer/user-management/internal/domain"
)

type Service struct {
	users UserRepo
	audit func(ctx context.Context, action string, fields map[string]string)
}

func NewService(users UserRepo) *Service {
	return &Service{
		users: users,
		audit: func(context.Context, string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(ctx context.Context, action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// List returns all users, most recent login first, never-logged-in last.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.User{}
	}
	return list, nil
}

// Block sets status=blocked on every listed id. Blocking yourself is allowed.
func (s *Service) Block(ctx context.Context, actorID int64, ids []int64) error {
	return s.setStatus(ctx, "users.block", actorID, ids, domain.StatusBlocked)
}

// Unblock sets status=active on every listed id, whatever its prior status.
func (s *Service) Unblock(ctx context.Context, actorID int64, ids []int64) error {
	return s.setStatus(ctx, "users.unblock", actorID, ids, domain.StatusActive)
}

// Delete removes every listed id. Deleting yourself is allowed; the client logs out.
func (s *Service) Delete(ctx context.Context, actorID int64, ids []int64) error {
	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return domain.ErrMissingUserIDs()
	}

	n, err := s.users.Delete(ctx, ids)
	s.record(ctx, "users.delete", actorID, ids, n, err)
	return err
}

// DeleteUnverified removes every unverified row and reports how many went.
func (s *Service) DeleteUnverified(ctx context.Context, actorID int64) (int64, error) {
	n, err := s.users.DeleteByStatus(ctx, domain.StatusUnverified)
	s.record(ctx, "users.delete_unverified", actorID, nil, n, err)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Service) setStatus(ctx context.Context, action string, actorID int64, ids []int64, status domain.UserStatus) error {
	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return domain.ErrMissingUserIDs()
	}

	n, err := s.users.SetStatus(ctx, ids, status)
	s.record(ctx, action, actorID, ids, n, err)
	return err
}

func (s *Service) record(ctx context.Context, action string, actorID int64, ids []int64, affected int64, err error) {
	fields := map[string]string{
		"actor_id": strconv.FormatInt(actorID, 10),
		"affected": strconv.FormatInt(affected, 10),
		"result":   "success",
	}
	if ids != nil {
		fields["target_ids"] = joinIDs(ids)
	}
	if err != nil {
		fields["result"] = "error"
		var de *domain.Error
		if errors.As(err, &de) {
			fields["error_code"] = de.Code
		}
	}
	s.audit(ctx, action, fields)
}

// normalizeIDs drops non-positive ids and duplicates and sorts the rest.
func normalizeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
