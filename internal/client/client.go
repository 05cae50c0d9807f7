package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/user-management/internal/logger"
	"github.com/baechuer/user-management/internal/transport/http/dto"
)

const DefaultBaseURL = "http://localhost:5000"

// Config holds per-method timeouts for calls against the API.
type Config struct {
	// ReadTimeout is used for GET requests
	ReadTimeout time.Duration
	// WriteTimeout is used for POST requests
	WriteTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Client talks to the user-management REST API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	config  Config

	mu    sync.RWMutex
	token string
}

func New(baseURL string, hc *http.Client, cfg Config) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		config:  cfg,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &out)
	return out, err
}

// Login stores the returned token on the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

func (c *Client) VerifyEmail(ctx context.Context, email string) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/verify-email", dto.VerifyEmailRequest{Email: email}, &out)
	return out.Message, err
}

func (c *Client) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var out []dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []dto.UserResponse{}
	}
	return out, nil
}

func (c *Client) Block(ctx context.Context, ids []int64) (string, error) {
	return c.bulk(ctx, "/api/users/block", ids)
}

func (c *Client) Unblock(ctx context.Context, ids []int64) (string, error) {
	return c.bulk(ctx, "/api/users/unblock", ids)
}

func (c *Client) Delete(ctx context.Context, ids []int64) (string, error) {
	return c.bulk(ctx, "/api/users/delete", ids)
}

func (c *Client) DeleteUnverified(ctx context.Context) (dto.DeleteUnverifiedResponse, error) {
	var out dto.DeleteUnverifiedResponse
	err := c.do(ctx, http.MethodPost, "/api/users/delete-unverified", nil, &out)
	return out, err
}

func (c *Client) bulk(ctx context.Context, path string, ids []int64) (string, error) {
	var out messageResponse
	err := c.do(ctx, http.MethodPost, path, dto.BulkUsersRequest{UserIDs: ids}, &out)
	return out.Message, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	timeout := c.config.ReadTimeout
	if method != http.MethodGet {
		timeout = c.config.WriteTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rid := uuid.NewString()
	req.Header.Set("X-Request-Id", rid)
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	log := logger.Logger.With().
		Str("method", method).
		Str("path", path).
		Str("request_id", rid).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("duration", time.Since(start)).Msg("api request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx reply from the API.
type APIError struct {
	Status          int
	Message         string
	Code            string
	RedirectToLogin bool
	RequestID       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Message         string `json:"message"`
		Code            string `json:"code"`
		RedirectToLogin bool   `json:"redirectToLogin"`
		RequestID       string `json:"requestId"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
		apiErr.RedirectToLogin = body.RedirectToLogin
		apiErr.RequestID = body.RequestID
	}
	return apiErr
}

// ShouldRedirectToLogin reports whether err tells the client to drop its session.
func ShouldRedirectToLogin(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RedirectToLogin
}

// ErrorMessage returns the server message carried by err, or fallback when
// the API gave none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
