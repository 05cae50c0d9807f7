package console

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/baechuer/user-management/internal/client"
	"github.com/baechuer/user-management/internal/logger"
	"github.com/baechuer/user-management/internal/transport/http/dto"
)

const noticeTTL = 3 * time.Second

type notice struct {
	text  string
	isErr bool
	seq   int
}

type Model struct {
	api   API
	store SessionStore

	view      view
	user      dto.LoginUser
	Login     LoginModel
	Register  RegisterModel
	Dashboard DashboardModel

	notice    notice
	noticeTTL time.Duration
	quitting  bool
	height    int
}

// New builds the root model. A stored session opens straight on the dashboard.
func New(api API, store SessionStore) Model {
	m := Model{
		api:       api,
		store:     store,
		view:      viewLogin,
		Login:     NewLoginModel(api),
		Register:  NewRegisterModel(api),
		noticeTTL: noticeTTL,
	}

	sess, ok, err := store.Load()
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("ignoring unreadable session")
	}
	if ok {
		api.SetToken(sess.Token)
		m.user = sess.User
		m.view = viewDashboard
		m.Dashboard = NewDashboardModel(api, sess.User, m.height)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.view == viewDashboard {
		return m.Dashboard.Init()
	}
	return m.Login.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		if m.view == viewDashboard {
			m.Dashboard.SetHeight(msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}

	case noticeMsg:
		return m.showNotice(msg.text, msg.isErr)

	case noticeExpiredMsg:
		if msg.seq == m.notice.seq {
			m.notice = notice{seq: m.notice.seq}
		}
		return m, nil

	case switchViewMsg:
		m.view = msg.to
		if msg.to == viewLogin {
			return m, m.Login.Init()
		}
		return m, m.Register.Init()

	case loginResultMsg:
		m.Login.Loading = false
		if msg.err != nil {
			return m.showNotice(client.ErrorMessage(msg.err, "Login failed."), true)
		}
		return m.loggedIn(msg.resp)

	case registerResultMsg:
		m.Register.Loading = false
		if msg.err != nil {
			return m.showNotice(client.ErrorMessage(msg.err, "Registration failed."), true)
		}
		m.Register.form.reset()
		m.view = viewLogin
		return m.showNotice("Registration successful! Please check your email for verification.", false)

	case usersLoadedMsg:
		if m.view != viewDashboard {
			return m, nil
		}
		if msg.err != nil {
			m.Dashboard.Loading = false
			if client.ShouldRedirectToLogin(msg.err) {
				return m.sessionExpired(msg.err)
			}
			return m.showNotice("Failed to fetch users.", true)
		}
		m.Dashboard = m.Dashboard.SetUsers(msg.users)
		return m, nil

	case actionResultMsg:
		if m.view != viewDashboard {
			return m, nil
		}
		if msg.err != nil {
			if client.ShouldRedirectToLogin(msg.err) {
				return m.sessionExpired(msg.err)
			}
			return m.showNotice(client.ErrorMessage(msg.err, msg.action.failureMessage()), true)
		}
		text := msg.message
		if text == "" {
			text = msg.action.successMessage()
		}
		if msg.selfDeleted {
			m.logout()
			return m.showNotice(text, false)
		}
		var cmd tea.Cmd
		m, cmd = m.showNotice(text, false)
		m.Dashboard.Loading = true
		return m, tea.Batch(cmd, m.Dashboard.fetchUsers())

	case logoutMsg:
		m.logout()
		return m.showNotice("Logged out successfully.", false)
	}

	var cmd tea.Cmd
	switch m.view {
	case viewLogin:
		m.Login, cmd = m.Login.Update(msg)
	case viewRegister:
		m.Register, cmd = m.Register.Update(msg)
	case viewDashboard:
		m.Dashboard, cmd = m.Dashboard.Update(msg)
	}
	return m, cmd
}

func (m Model) loggedIn(resp dto.LoginResponse) (Model, tea.Cmd) {
	sess := client.Session{Token: resp.Token, User: resp.User}
	if err := m.store.Save(sess); err != nil {
		logger.Logger.Warn().Err(err).Msg("session not persisted")
	}
	m.api.SetToken(resp.Token)
	m.user = resp.User
	m.Login.form.reset()
	m.view = viewDashboard
	m.Dashboard = NewDashboardModel(m.api, resp.User, m.height)

	var cmd tea.Cmd
	m, cmd = m.showNotice("Login successful!", false)
	return m, tea.Batch(cmd, m.Dashboard.Init())
}

// sessionExpired handles a redirect-to-login reply from any protected call.
func (m Model) sessionExpired(err error) (Model, tea.Cmd) {
	m.logout()
	return m.showNotice(client.ErrorMessage(err, "Please log in again."), true)
}

func (m *Model) logout() {
	if err := m.store.Clear(); err != nil {
		logger.Logger.Warn().Err(err).Msg("session not cleared")
	}
	m.api.SetToken("")
	m.user = dto.LoginUser{}
	m.Dashboard = DashboardModel{}
	m.view = viewLogin
}

func (m Model) showNotice(text string, isErr bool) (Model, tea.Cmd) {
	seq := m.notice.seq + 1
	m.notice = notice{text: text, isErr: isErr, seq: seq}
	return m, tea.Tick(m.noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m Model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var b strings.Builder
	if m.notice.text != "" {
		style := noticeStyle
		if m.notice.isErr {
			style = errorNoticeStyle
		}
		b.WriteString(style.Render(m.notice.text) + "\n\n")
	}

	switch m.view {
	case viewLogin:
		b.WriteString(m.Login.View())
	case viewRegister:
		b.WriteString(m.Register.View())
	case viewDashboard:
		b.WriteString(m.Dashboard.View())
	}
	return docStyle.Render(b.String())
}
