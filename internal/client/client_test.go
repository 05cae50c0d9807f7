package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	auth   string
	rid    string
	ctype  string
	body   map[string]any
}

func newServer(t *testing.T, status int, reply string, got *captured) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.method = r.Method
			got.path = r.URL.Path
			got.auth = r.Header.Get("Authorization")
			got.rid = r.Header.Get("X-Request-Id")
			got.ctype = r.Header.Get("Content-Type")
			got.body = nil
			_ = json.NewDecoder(r.Body).Decode(&got.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client(), DefaultConfig())
}

func TestNew_Defaults(t *testing.T) {
	c := New("", nil, Config{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = New("http://api.local:5000///", nil, Config{})
	assert.Equal(t, "http://api.local:5000", c.BaseURL())
}

func TestLogin_StoresToken(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK,
		`{"token":"tok-1","user":{"id":7,"name":"Ann","email":"ann@x.io","status":"active"}}`, &got)

	res, err := c.Login(context.Background(), "ann@x.io", "pw")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/auth/login", got.path)
	assert.Equal(t, "application/json", got.ctype)
	assert.Empty(t, got.auth)
	assert.NotEmpty(t, got.rid)
	assert.Equal(t, "ann@x.io", got.body["email"])
	assert.Equal(t, "pw", got.body["password"])

	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, int64(7), res.User.ID)
	assert.Equal(t, "tok-1", c.Token())
}

func TestLogin_FailureKeepsOldToken(t *testing.T) {
	c := newServer(t, http.StatusBadRequest,
		`{"message":"Invalid email or password.","code":"invalid_credentials"}`, nil)
	c.SetToken("old")

	_, err := c.Login(context.Background(), "a@b.c", "bad")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid_credentials", apiErr.Code)
	assert.Equal(t, "Invalid email or password.", ErrorMessage(err, "Login failed."))
	assert.False(t, ShouldRedirectToLogin(err))
	assert.Equal(t, "old", c.Token())
}

func TestRegister(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusCreated, `{"message":"Registration successful!","userId":3}`, &got)

	res, err := c.Register(context.Background(), "Bob", "bob@x.io", "secret")
	require.NoError(t, err)

	assert.Equal(t, "/api/auth/register", got.path)
	assert.Equal(t, "Bob", got.body["name"])
	assert.Equal(t, "Registration successful!", res.Message)
	assert.Equal(t, int64(3), res.UserID)
}

func TestVerifyEmail(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, `{"message":"Email verified successfully!"}`, &got)

	msg, err := c.VerifyEmail(context.Background(), "bob@x.io")
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/verify-email", got.path)
	assert.Equal(t, "bob@x.io", got.body["email"])
	assert.Equal(t, "Email verified successfully!", msg)
}

func TestListUsers_SendsBearer(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, `[
		{"id":1,"name":"A","email":"a@x.io","status":"active","last_login_time":null,
		 "registration_time":"2024-01-01T00:00:00Z","created_at":"2024-01-01T00:00:00Z"}
	]`, &got)
	c.SetToken("tok")

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/users", got.path)
	assert.Equal(t, "Bearer tok", got.auth)
	assert.Empty(t, got.ctype)
	require.Len(t, users, 1)
	assert.Nil(t, users[0].LastLoginTime)
	assert.Equal(t, "active", users[0].Status)
}

func TestListUsers_NullBodyIsEmpty(t *testing.T) {
	c := newServer(t, http.StatusOK, `null`, nil)
	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestBulkActions(t *testing.T) {
	cases := []struct {
		name string
		path string
		call func(*Client) (string, error)
	}{
		{"block", "/api/users/block", func(c *Client) (string, error) { return c.Block(context.Background(), []int64{1, 2}) }},
		{"unblock", "/api/users/unblock", func(c *Client) (string, error) { return c.Unblock(context.Background(), []int64{1, 2}) }},
		{"delete", "/api/users/delete", func(c *Client) (string, error) { return c.Delete(context.Background(), []int64{1, 2}) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got captured
			c := newServer(t, http.StatusOK, `{"message":"done"}`, &got)
			c.SetToken("tok")

			msg, err := tc.call(c)
			require.NoError(t, err)
			assert.Equal(t, "done", msg)
			assert.Equal(t, tc.path, got.path)
			assert.Equal(t, []any{float64(1), float64(2)}, got.body["userIds"])
		})
	}
}

func TestDeleteUnverified(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, `{"message":"Unverified users deleted successfully.","deletedCount":4}`, &got)

	res, err := c.DeleteUnverified(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/users/delete-unverified", got.path)
	assert.Nil(t, got.body)
	assert.Equal(t, int64(4), res.DeletedCount)
}

func TestAPIError_RedirectFlag(t *testing.T) {
	c := newServer(t, http.StatusUnauthorized,
		`{"message":"Your account has been blocked.","code":"account_blocked","redirectToLogin":true,"requestId":"r-1"}`, nil)

	_, err := c.ListUsers(context.Background())
	require.Error(t, err)
	assert.True(t, ShouldRedirectToLogin(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "r-1", apiErr.RequestID)
	assert.Contains(t, apiErr.Error(), "account_blocked")
}

func TestAPIError_NonJSONBody(t *testing.T) {
	c := newServer(t, http.StatusBadGateway, `upstream down`, nil)

	_, err := c.ListUsers(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "Failed to fetch users.", ErrorMessage(err, "Failed to fetch users."))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil, DefaultConfig())
	_, err := c.ListUsers(context.Background())
	require.Error(t, err)
	assert.False(t, ShouldRedirectToLogin(err))
	assert.Equal(t, "Login failed.", ErrorMessage(err, "Login failed."))
	assert.Equal(t, "Login failed.", ErrorMessage(nil, "Login failed."))
}

func TestReadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, srv.Client(), Config{ReadTimeout: 50 * time.Millisecond, WriteTimeout: time.Second})
	_, err := c.ListUsers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
