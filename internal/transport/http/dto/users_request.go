package dto

import "github.com/baechuer/user-management/internal/domain"

// BulkUsersRequest is the body of block, unblock and delete.
type BulkUsersRequest struct {
	UserIDs []int64 `json:"userIds" validate:"required,min=1"`
}

func (r *BulkUsersRequest) Validate() error {
	if _, ok := firstFieldError(r); ok {
		return domain.ErrMissingUserIDs()
	}
	return nil
}
