package domain

import (
	"errors"
	"fmt"
)

// ErrKind selects the HTTP status family an Error is reported with.
type ErrKind string

const (
	KindValidation  ErrKind = "validation"   // 400
	KindAuth        ErrKind = "auth"         // 401
	KindRateLimited ErrKind = "rate_limited" // 429
	KindInternal    ErrKind = "internal"     // 500
)

const genericFailure = "Something went wrong!"

// Error is what every layer returns for failures a client may see.
// Code is stable and machine-readable; Message is shown to users as-is.
// Cause never leaves the process.
type Error struct {
	Kind            ErrKind
	Code            string
	Message         string
	Meta            map[string]string
	RedirectToLogin bool
	Cause           error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s/%s: %s", e.Kind, e.Code, e.Message)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// with returns e after setting meta key k.
func (e *Error) with(k, v string) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]string, 2)
	}
	e.Meta[k] = v
	return e
}

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

// Is reports whether any *Error in err's chain has the given code.
func Is(err error, code string) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// WithMessage copies err with a different client message. Handlers use it to
// put a route-specific text ("Login failed.") on internal failures.
func WithMessage(err *Error, msg string) *Error {
	cp := *err
	cp.Message = msg
	return &cp
}

// 400

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "Invalid request body.", cause)
}

func ErrMissingField(field string) *Error {
	return New(KindValidation, "missing_field", "All fields are required.").with("field", field)
}

func ErrMissingUserIDs() *Error {
	return New(KindValidation, "missing_field", "User IDs are required.").with("field", "userIds")
}

func ErrInvalidField(field, reason string) *Error {
	return New(KindValidation, "invalid_field", "Invalid "+field+".").
		with("field", field).
		with("reason", reason)
}

// ErrInvalidCredentials covers unknown email and wrong password alike.
func ErrInvalidCredentials() *Error {
	return New(KindValidation, "invalid_credentials", "Invalid credentials.")
}

func ErrAccountBlocked() *Error {
	return New(KindValidation, "account_blocked", "Account is blocked.")
}

func ErrEmailAlreadyExists() *Error {
	return New(KindValidation, "email_already_exists", "Email already exists.")
}

func ErrVerificationFailed() *Error {
	return New(KindValidation, "verification_failed", "Verification failed or already verified.")
}

// 401

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "Access denied. No token provided.")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "Invalid token.")
}

// ErrTokenExpired is reported to clients exactly like ErrTokenInvalid.
func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "Invalid token.")
}

func ErrUserNotFound() *Error {
	return New(KindAuth, "user_not_found", "User not found.")
}

// ErrSessionBlocked tells an authenticated but blocked caller to drop its session.
func ErrSessionBlocked() *Error {
	e := New(KindAuth, "account_blocked", "Account is blocked. Please contact administrator.")
	e.RedirectToLogin = true
	return e
}

// 429

func ErrRateLimited(scope string) *Error {
	return New(KindRateLimited, "rate_limited", "Too many requests.").with("scope", scope)
}

// 500

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInternal, "db_unavailable", genericFailure, cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", genericFailure, cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", genericFailure, cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", genericFailure, cause)
}
