package console

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/baechuer/user-management/internal/client"
	"github.com/baechuer/user-management/internal/transport/http/dto"
)

type fakeAPI struct {
	mu sync.Mutex

	token string
	users []dto.UserResponse

	loginResp   dto.LoginResponse
	loginErr    error
	registerErr error
	listErr     error
	actionErr   error

	calls   []string
	lastIDs []int64
	args    []string
}

func (f *fakeAPI) record(call string, ids []int64, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if ids != nil {
		f.lastIDs = ids
	}
	if args != nil {
		f.args = args
	}
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) Register(_ context.Context, name, email, password string) (dto.RegisterResponse, error) {
	f.record("register", nil, name, email, password)
	if f.registerErr != nil {
		return dto.RegisterResponse{}, f.registerErr
	}
	return dto.RegisterResponse{Message: "Registration successful!", UserID: 10}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (dto.LoginResponse, error) {
	f.record("login", nil, email, password)
	if f.loginErr != nil {
		return dto.LoginResponse{}, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]dto.UserResponse, error) {
	f.record("list", nil)
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.UserResponse(nil), f.users...), nil
}

func (f *fakeAPI) bulk(call string, ids []int64, msg string) (string, error) {
	f.record(call, ids)
	if f.actionErr != nil {
		return "", f.actionErr
	}
	return msg, nil
}

func (f *fakeAPI) Block(_ context.Context, ids []int64) (string, error) {
	return f.bulk("block", ids, "Users blocked successfully.")
}

func (f *fakeAPI) Unblock(_ context.Context, ids []int64) (string, error) {
	return f.bulk("unblock", ids, "Users unblocked successfully.")
}

func (f *fakeAPI) Delete(_ context.Context, ids []int64) (string, error) {
	return f.bulk("delete", ids, "Users deleted successfully.")
}

func (f *fakeAPI) DeleteUnverified(context.Context) (dto.DeleteUnverifiedResponse, error) {
	f.record("delete-unverified", nil)
	if f.actionErr != nil {
		return dto.DeleteUnverifiedResponse{}, f.actionErr
	}
	return dto.DeleteUnverifiedResponse{Message: "Unverified users deleted successfully.", DeletedCount: 1}, nil
}

type fakeStore struct {
	sess    client.Session
	ok      bool
	loadErr error

	saved   *client.Session
	cleared bool
}

func (s *fakeStore) Load() (client.Session, bool, error) { return s.sess, s.ok, s.loadErr }

func (s *fakeStore) Save(sess client.Session) error {
	s.saved = &sess
	s.sess, s.ok = sess, true
	return nil
}

func (s *fakeStore) Clear() error {
	s.cleared = true
	s.sess, s.ok = client.Session{}, false
	return nil
}

var (
	self = dto.LoginUser{ID: 1, Name: "Ann", Email: "ann@x.io", Status: "active"}

	lastLogin = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
)

func sampleUsers() []dto.UserResponse {
	return []dto.UserResponse{
		{ID: 1, Name: "Ann", Email: "ann@x.io", Status: "active", LastLoginTime: &lastLogin},
		{ID: 2, Name: "Bob", Email: "bob@x.io", Status: "blocked"},
		{ID: 3, Name: "Cid", Email: "cid@x.io", Status: "unverified"},
	}
}

func newTestModel(api *fakeAPI, store *fakeStore) Model {
	m := New(api, store)
	m.noticeTTL = 0
	return m
}

// loggedInModel returns a model on the dashboard with sampleUsers loaded.
func loggedInModel(t *testing.T) (Model, *fakeAPI, *fakeStore) {
	t.Helper()
	api := &fakeAPI{users: sampleUsers()}
	store := &fakeStore{sess: client.Session{Token: "tok", User: self}, ok: true}
	m := newTestModel(api, store)
	msgs := collect(m.Init())
	for _, msg := range msgs {
		m, _ = send(m, msg)
	}
	if len(m.Dashboard.Users) != 3 {
		t.Fatalf("expected 3 users loaded, got %d", len(m.Dashboard.Users))
	}
	return m, api, store
}

// collect runs cmd and everything it batches, returning the messages that
// arrive promptly. Cursor blink ticks never do and are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func send(m Model, msg tea.Msg) (Model, []tea.Msg) {
	next, cmd := m.Update(msg)
	return next.(Model), collect(cmd)
}

// sendAll feeds msg and then every message it produces that belongs to the
// request/response flow, stopping at notices and blink ticks.
func sendAll(m Model, msg tea.Msg) (Model, []tea.Msg) {
	var seen []tea.Msg
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		var out []tea.Msg
		m, out = send(m, cur)
		for _, o := range out {
			seen = append(seen, o)
			switch o.(type) {
			case loginResultMsg, registerResultMsg, usersLoadedMsg, actionResultMsg,
				switchViewMsg, logoutMsg, noticeMsg:
				queue = append(queue, o)
			}
		}
	}
	return m, seen
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)
