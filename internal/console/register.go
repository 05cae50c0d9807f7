package console

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	registerName = iota
	registerEmail
	registerPassword
)

type RegisterModel struct {
	api     API
	form    form
	Loading bool
}

func NewRegisterModel(api API) RegisterModel {
	return RegisterModel{
		api: api,
		form: newForm(
			field{prompt: "Name:     ", placeholder: "Your name"},
			field{prompt: "E-mail:   ", placeholder: "text@example.com"},
			field{prompt: "Password: ", placeholder: "password", secret: true},
		),
	}
}

func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.Type == tea.KeyEsc {
			return m, func() tea.Msg { return switchViewMsg{to: viewLogin} }
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

func (m RegisterModel) submit() tea.Cmd {
	api := m.api
	name := m.form.value(registerName)
	email := m.form.value(registerEmail)
	password := m.form.raw(registerPassword)
	return func() tea.Msg {
		resp, err := api.Register(context.Background(), name, email, password)
		return registerResultMsg{resp: resp, err: err}
	}
}

func (m RegisterModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("THE APP") + "\n")
	b.WriteString(subtitleStyle.Render("Start your journey") + "\n\n")
	b.WriteString("Sign Up for The App\n\n")

	m.form.view(&b)

	b.WriteString("\n\n")
	if m.Loading {
		b.WriteString(focusedStyle.Render("Signing Up..."))
	} else {
		b.WriteString(helpStyle.Render("Tab to change fields, Enter to sign up, Esc: Already have an account? Sign in"))
	}
	return b.String()
}
