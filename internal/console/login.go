package console

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	loginEmail = iota
	loginPassword
)

type LoginModel struct {
	api     API
	form    form
	Loading bool
}

func NewLoginModel(api API) LoginModel {
	return LoginModel{
		api: api,
		form: newForm(
			field{prompt: "E-mail:   ", placeholder: "text@example.com"},
			field{prompt: "Password: ", placeholder: "password", secret: true},
		),
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.Type == tea.KeyCtrlR {
			return m, func() tea.Msg { return switchViewMsg{to: viewRegister} }
		}
		if m.form.navigate(key) {
			if m.Loading {
				return m, nil
			}
			m.Loading = true
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.updateInputs(msg)
	return m, cmd
}

func (m LoginModel) submit() tea.Cmd {
	api := m.api
	email := m.form.value(loginEmail)
	password := m.form.raw(loginPassword)
	return func() tea.Msg {
		resp, err := api.Login(context.Background(), email, password)
		return loginResultMsg{resp: resp, err: err}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("THE APP") + "\n")
	b.WriteString(subtitleStyle.Render("Start your journey") + "\n\n")
	b.WriteString("Sign In to The App\n\n")

	m.form.view(&b)

	b.WriteString("\n\n")
	if m.Loading {
		b.WriteString(focusedStyle.Render("Signing In..."))
	} else {
		b.WriteString(helpStyle.Render("Tab to change fields, Enter to sign in, Ctrl+R: Don't have an account? Sign up"))
	}
	return b.String()
}
