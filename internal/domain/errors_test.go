package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_String(t *testing.T) {
	assert.Equal(t, "validation/invalid_credentials: Invalid credentials.", ErrInvalidCredentials().Error())

	err := ErrDBUnavailable(errors.New("conn refused"))
	assert.Equal(t, "internal/db_unavailable: Something went wrong!: conn refused", err.Error())
}

func TestError_UnwrapsCause(t *testing.T) {
	root := errors.New("root")
	err := ErrHashFailed(root)

	assert.ErrorIs(t, err, root)
	assert.Same(t, root, errors.Unwrap(err))
}

func TestIs(t *testing.T) {
	wrapped := fmt.Errorf("repo: %w", ErrUserNotFound())

	assert.True(t, Is(wrapped, "user_not_found"))
	assert.False(t, Is(wrapped, "token_invalid"))
	assert.False(t, Is(errors.New("plain"), "user_not_found"))
	assert.False(t, Is(nil, "user_not_found"))
}

func TestMeta(t *testing.T) {
	assert.Equal(t, map[string]string{"field": "email"}, ErrMissingField("email").Meta)
	assert.Equal(t, map[string]string{"field": "userIds"}, ErrMissingUserIDs().Meta)
	assert.Equal(t, map[string]string{"field": "email", "reason": "format"}, ErrInvalidField("email", "format").Meta)
	assert.Equal(t, map[string]string{"scope": "login"}, ErrRateLimited("login").Meta)
	assert.Nil(t, ErrInvalidCredentials().Meta)
}

func TestKinds(t *testing.T) {
	cases := map[ErrKind][]*Error{
		KindValidation: {
			ErrInvalidJSON(nil), ErrMissingField("x"), ErrInvalidField("x", "y"),
			ErrInvalidCredentials(), ErrAccountBlocked(), ErrEmailAlreadyExists(), ErrVerificationFailed(),
		},
		KindAuth:        {ErrTokenMissing(), ErrTokenInvalid(), ErrTokenExpired(), ErrUserNotFound(), ErrSessionBlocked()},
		KindRateLimited: {ErrRateLimited("x")},
		KindInternal:    {ErrDBUnavailable(nil), ErrHashFailed(nil), ErrTokenSignFailed(nil), ErrInternal(nil)},
	}
	for kind, errs := range cases {
		for _, err := range errs {
			assert.Equal(t, kind, err.Kind, err.Code)
		}
	}
}

func TestOnlyBlockedSessionRedirects(t *testing.T) {
	assert.True(t, ErrSessionBlocked().RedirectToLogin)
	for _, err := range []*Error{ErrTokenMissing(), ErrTokenInvalid(), ErrTokenExpired(), ErrUserNotFound(), ErrAccountBlocked()} {
		assert.False(t, err.RedirectToLogin, err.Code)
	}
}

func TestExpiredTokenLooksInvalid(t *testing.T) {
	assert.Equal(t, ErrTokenInvalid().Message, ErrTokenExpired().Message)
}

func TestWithMessage(t *testing.T) {
	orig := ErrDBUnavailable(errors.New("down"))
	got := WithMessage(orig, "Login failed.")

	require.NotSame(t, orig, got)
	assert.Equal(t, "Login failed.", got.Message)
	assert.Equal(t, genericFailure, orig.Message)
	assert.Equal(t, orig.Code, got.Code)
	assert.Same(t, orig.Cause, got.Cause)
}
