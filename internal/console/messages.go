package console

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/baechuer/user-management/internal/client"
	"github.com/baechuer/user-management/internal/transport/http/dto"
)

// API is the subset of *client.Client the console drives.
type API interface {
	SetToken(token string)
	Register(ctx context.Context, name, email, password string) (dto.RegisterResponse, error)
	Login(ctx context.Context, email, password string) (dto.LoginResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	Block(ctx context.Context, ids []int64) (string, error)
	Unblock(ctx context.Context, ids []int64) (string, error)
	Delete(ctx context.Context, ids []int64) (string, error)
	DeleteUnverified(ctx context.Context) (dto.DeleteUnverifiedResponse, error)
}

type SessionStore interface {
	Load() (client.Session, bool, error)
	Save(client.Session) error
	Clear() error
}

type view int

const (
	viewLogin view = iota
	viewRegister
	viewDashboard
)

func (v view) String() string {
	switch v {
	case viewLogin:
		return "login"
	case viewRegister:
		return "register"
	case viewDashboard:
		return "dashboard"
	}
	return "unknown"
}

// noticeMsg asks the root model to show a transient notification.
type noticeMsg struct {
	text  string
	isErr bool
}

type noticeExpiredMsg struct {
	seq int
}

type switchViewMsg struct {
	to view
}

type loginResultMsg struct {
	resp dto.LoginResponse
	err  error
}

type registerResultMsg struct {
	resp dto.RegisterResponse
	err  error
}

type usersLoadedMsg struct {
	users []dto.UserResponse
	err   error
}

type actionResultMsg struct {
	action      action
	message     string
	err         error
	selfDeleted bool
}

type logoutMsg struct{}

func notify(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{text: text, isErr: isErr}
	}
}
