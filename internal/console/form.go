package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	prompt      string
	placeholder string
	secret      bool
}

// form is a vertical list of text inputs with tab focus cycling.
type form struct {
	Inputs   []textinput.Model
	FocusIdx int
}

func newForm(fields ...field) form {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = f.prompt
		in.Placeholder = f.placeholder
		in.CharLimit = 255
		if f.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		inputs[i] = in
	}
	fm := form{Inputs: inputs}
	fm.focus(0)
	return fm
}

func (f *form) focus(idx int) {
	for i := range f.Inputs {
		if i == idx {
			f.Inputs[i].Focus()
			f.Inputs[i].PromptStyle = focusedStyle
			f.Inputs[i].TextStyle = focusedStyle
			continue
		}
		f.Inputs[i].Blur()
		f.Inputs[i].PromptStyle = blurredStyle
		f.Inputs[i].TextStyle = blurredStyle
	}
	f.FocusIdx = idx
}

func (f *form) nextInput() {
	idx := f.FocusIdx + 1
	if idx >= len(f.Inputs) {
		idx = 0
	}
	f.focus(idx)
}

func (f *form) prevInput() {
	idx := f.FocusIdx - 1
	if idx < 0 {
		idx = len(f.Inputs) - 1
	}
	f.focus(idx)
}

func (f form) onLast() bool { return f.FocusIdx == len(f.Inputs)-1 }

func (f form) value(i int) string { return strings.TrimSpace(f.Inputs[i].Value()) }

// raw returns the input untouched; passwords are not trimmed.
func (f form) raw(i int) string { return f.Inputs[i].Value() }

func (f *form) reset() {
	for i := range f.Inputs {
		f.Inputs[i].Reset()
	}
	f.focus(0)
}

// navigate handles focus keys. submit is true when enter was pressed on the last input.
func (f *form) navigate(msg tea.KeyMsg) (submit bool) {
	switch msg.Type {
	case tea.KeyEnter:
		if f.onLast() {
			return true
		}
		f.nextInput()
	case tea.KeyTab, tea.KeyDown:
		f.nextInput()
	case tea.KeyShiftTab, tea.KeyUp:
		f.prevInput()
	}
	return false
}

func (f form) updateInputs(msg tea.Msg) (form, tea.Cmd) {
	cmds := make([]tea.Cmd, len(f.Inputs))
	for i := range f.Inputs {
		f.Inputs[i], cmds[i] = f.Inputs[i].Update(msg)
	}
	return f, tea.Batch(cmds...)
}

func (f form) view(b *strings.Builder) {
	for i := range f.Inputs {
		b.WriteString(f.Inputs[i].View())
		if i < len(f.Inputs)-1 {
			b.WriteRune('\n')
		}
	}
}
