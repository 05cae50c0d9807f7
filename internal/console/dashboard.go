package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/baechuer/user-management/internal/transport/http/dto"
)

type action int

const (
	actionBlock action = iota
	actionUnblock
	actionDelete
	actionDeleteUnverified
)

func (a action) verb() string {
	switch a {
	case actionBlock:
		return "block"
	case actionUnblock:
		return "unblock"
	case actionDelete:
		return "delete"
	case actionDeleteUnverified:
		return "delete unverified"
	}
	return "update"
}

func (a action) successMessage() string {
	switch a {
	case actionBlock:
		return "Users blocked successfully."
	case actionUnblock:
		return "Users unblocked successfully."
	case actionDelete:
		return "Users deleted successfully."
	case actionDeleteUnverified:
		return "Unverified users deleted successfully."
	}
	return "Done."
}

func (a action) failureMessage() string {
	switch a {
	case actionBlock:
		return "Failed to block users."
	case actionUnblock:
		return "Failed to unblock users."
	case actionDelete:
		return "Failed to delete users."
	case actionDeleteUnverified:
		return "Failed to delete unverified users."
	}
	return "Request failed."
}

func (a action) needsSelection() bool { return a != actionDeleteUnverified }

const (
	confirmSelfDelete = "You are about to delete your own account. Continue? (y/n)"
	tableChrome       = 12
	minTableHeight    = 5
)

type DashboardModel struct {
	api  API
	user dto.LoginUser

	Table     table.Model
	Users     []dto.UserResponse
	Selection Selection
	Loading   bool
	Loaded    bool
	// Confirming is set while a delete that includes the current user waits for y/n.
	Confirming bool
}

func NewDashboardModel(api API, user dto.LoginUser, height int) DashboardModel {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 28},
		{Title: "Last Login", Width: 19},
		{Title: "Status", Width: 11},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DashboardModel{
		api:       api,
		user:      user,
		Table:     t,
		Selection: NewSelection(),
		Loading:   true,
	}
}

func tableHeight(height int) int {
	if h := height - tableChrome; h > minTableHeight {
		return h
	}
	return minTableHeight
}

func (m DashboardModel) Init() tea.Cmd {
	return m.fetchUsers()
}

func (m DashboardModel) fetchUsers() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		users, err := api.ListUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m *DashboardModel) SetHeight(height int) {
	m.Table.SetHeight(tableHeight(height))
}

// SetUsers replaces the table contents and drops selected ids that are gone.
func (m DashboardModel) SetUsers(users []dto.UserResponse) DashboardModel {
	m.Users = users
	m.Loading = false
	m.Loaded = true
	m.Selection = m.Selection.Retain(m.ids())
	m.refreshRows()
	return m
}

func (m DashboardModel) ids() []int64 {
	ids := make([]int64, len(m.Users))
	for i, u := range m.Users {
		ids[i] = u.ID
	}
	return ids
}

func (m *DashboardModel) refreshRows() {
	rows := make([]table.Row, 0, len(m.Users))
	for _, u := range m.Users {
		mark := "[ ]"
		if m.Selection.Has(u.ID) {
			mark = "[x]"
		}
		rows = append(rows, table.Row{mark, u.Name, u.Email, formatLastLogin(u.LastLoginTime), u.Status})
	}
	m.Table.SetRows(rows)
}

// current returns the user under the table cursor.
func (m DashboardModel) current() (dto.UserResponse, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Users) {
		return dto.UserResponse{}, false
	}
	return m.Users[i], true
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.Confirming {
		switch key.String() {
		case "y", "Y":
			m.Confirming = false
			return m, m.run(actionDelete)
		case "n", "N", "esc":
			m.Confirming = false
		}
		return m, nil
	}

	switch key.String() {
	case " ", "x":
		if u, ok := m.current(); ok {
			m.Selection = m.Selection.Toggle(u.ID)
			m.refreshRows()
		}
		return m, nil
	case "a":
		ids := m.ids()
		if m.Selection.AllOf(ids) {
			m.Selection = m.Selection.Clear()
		} else {
			m.Selection = m.Selection.SelectAll(ids)
		}
		m.refreshRows()
		return m, nil
	case "b":
		return m.dispatch(actionBlock)
	case "u":
		return m.dispatch(actionUnblock)
	case "d":
		return m.dispatch(actionDelete)
	case "D":
		return m.dispatch(actionDeleteUnverified)
	case "r":
		m.Loading = true
		return m, m.fetchUsers()
	case "l":
		return m, func() tea.Msg { return logoutMsg{} }
	case "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m DashboardModel) dispatch(a action) (DashboardModel, tea.Cmd) {
	if a.needsSelection() && m.Selection.Len() == 0 {
		return m, notify(fmt.Sprintf("Please select users to %s.", a.verb()), false)
	}
	if a == actionDelete && m.Selection.Has(m.user.ID) {
		m.Confirming = true
		return m, nil
	}
	return m, m.run(a)
}

func (m DashboardModel) run(a action) tea.Cmd {
	api := m.api
	ids := m.Selection.IDs()
	selfDeleted := a == actionDelete && m.Selection.Has(m.user.ID)
	return func() tea.Msg {
		ctx := context.Background()
		var (
			message string
			err     error
		)
		switch a {
		case actionBlock:
			message, err = api.Block(ctx, ids)
		case actionUnblock:
			message, err = api.Unblock(ctx, ids)
		case actionDelete:
			message, err = api.Delete(ctx, ids)
		case actionDeleteUnverified:
			var res dto.DeleteUnverifiedResponse
			res, err = api.DeleteUnverified(ctx)
			message = res.Message
		}
		return actionResultMsg{action: a, message: message, err: err, selfDeleted: selfDeleted && err == nil}
	}
}

func formatLastLogin(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "Never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("THE APP"))
	b.WriteString("  Welcome, " + m.user.Name + "\n\n")
	b.WriteString(helpStyle.Render("[b] Block  [u] Unblock  [d] Delete  [D] Delete Unverified") + "\n\n")

	switch {
	case !m.Loaded:
		b.WriteString("Loading...")
	case len(m.Users) == 0:
		b.WriteString("No users found.")
	default:
		b.WriteString(m.Table.View())
		if u, ok := m.current(); ok {
			b.WriteString("\n" + u.Name + " " + statusBadge(u.Status))
		}
	}
	b.WriteString("\n\n")

	if m.Confirming {
		b.WriteString(confirmStyle.Render(confirmSelfDelete) + "\n")
	}

	b.WriteString(fmt.Sprintf("%d user(s) selected", m.Selection.Len()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space select  a select all  r refresh  l logout  q quit"))
	return b.String()
}
