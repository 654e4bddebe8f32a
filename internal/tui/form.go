package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lapdeck/lapdeck/internal/api"
)

// form is a small stack of text inputs with one focused field. The views
// only read values out of it; submission and outcome handling live in the
// model's update loop.
type form struct {
	inputs []textinput.Model
	labels []string
	focus  int
}

func newLoginForm() form {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	return form{
		inputs: []textinput.Model{email, password},
		labels: []string{"Email", "Password"},
	}
}

func newRegisterForm() form {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	first := textinput.New()
	first.Placeholder = "optional"
	first.CharLimit = 64

	last := textinput.New()
	last.Placeholder = "optional"
	last.CharLimit = 64

	return form{
		inputs: []textinput.Model{email, password, first, last},
		labels: []string{"Email", "Password", "First name", "Last name"},
	}
}

func newProfileForm() form {
	email := textinput.New()
	email.CharLimit = 128
	email.Focus()

	first := textinput.New()
	first.CharLimit = 64

	last := textinput.New()
	last.CharLimit = 64

	return form{
		inputs: []textinput.Model{email, first, last},
		labels: []string{"Email", "First name", "Last name"},
	}
}

// prefill loads the current user record into the profile fields.
func (f *form) prefill(user *api.User) {
	if user == nil || len(f.inputs) < 3 {
		return
	}
	f.inputs[0].SetValue(user.Email)
	f.inputs[1].SetValue(user.FirstName)
	f.inputs[2].SetValue(user.LastName)
}

func (f *form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.setFocus(0)
}

func (f *form) cycleFocus(key string) {
	next := f.focus
	switch key {
	case "tab", "down":
		next = (f.focus + 1) % len(f.inputs)
	case "shift+tab", "up":
		next = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	}
	f.setFocus(next)
}

func (f *form) setFocus(i int) {
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focus = i
}

// update forwards a key to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}
