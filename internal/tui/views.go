package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lapdeck/lapdeck/internal/api"
)

// Run starts the interactive browse mode and blocks until the user quits.
func Run(m *Model) error {
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newCatalogTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Brand", Width: 16},
		{Title: "Model", Width: 22},
		{Title: "Price", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return t
}

func catalogRows(laptops []api.Laptop) []table.Row {
	rows := make([]table.Row, 0, len(laptops))
	for _, l := range laptops {
		rows = append(rows, table.Row{l.ID, l.Brand, l.Model, fmt.Sprintf("%.2f", l.Price)})
	}
	return rows
}

// View renders the TUI (required by Bubble Tea)
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.quitting {
		return ""
	}

	switch m.currentView {
	case ViewLogin:
		return m.renderLogin()
	case ViewRegister:
		return m.renderRegister()
	case ViewCatalog:
		return m.renderCatalog()
	case ViewDetail:
		return m.renderDetail()
	case ViewProfile:
		return m.renderProfile()
	default:
		return "Unknown view"
	}
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("lapdeck: sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.renderForm(&m.loginForm))
	if m.submitting {
		b.WriteString("\n" + m.spin.View() + " signing in...")
	}
	b.WriteString(m.renderMessages())
	b.WriteString(m.renderKeys([][2]string{
		{"enter", "sign in"},
		{"ctrl+r", "register"},
		{"tab", "next field"},
		{"ctrl+c", "quit"},
	}))
	return b.String()
}

func (m *Model) renderRegister() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("lapdeck: create account"))
	b.WriteString("\n\n")
	b.WriteString(m.renderForm(&m.registerForm))
	if m.submitting {
		b.WriteString("\n" + m.spin.View() + " registering...")
	}
	b.WriteString(m.renderMessages())
	b.WriteString(m.renderKeys([][2]string{
		{"enter", "register"},
		{"esc", "back to sign in"},
		{"tab", "next field"},
	}))
	return b.String()
}

func (m *Model) renderCatalog() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Laptop catalog"))
	b.WriteString("\n")
	b.WriteString(m.renderSessionBar())
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spin.View() + " loading catalog...\n")
	} else {
		b.WriteString(m.catalog.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderMessages())
	b.WriteString(m.renderKeys([][2]string{
		{"enter", "details"},
		{"x", "delete"},
		{"r", "reload"},
		{"p", "profile"},
		{"o", "log out"},
		{"q", "quit"},
	}))
	return b.String()
}

func (m *Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Laptop"))
	b.WriteString("\n")

	if m.selected == nil {
		b.WriteString(m.styles.Muted.Render("nothing selected"))
	} else {
		l := m.selected
		detail := fmt.Sprintf("Brand:  %s\nModel:  %s\nPrice:  %.2f\n", l.Brand, l.Model, l.Price)
		if l.Description != "" {
			detail += fmt.Sprintf("\n%s\n", l.Description)
		}
		b.WriteString(m.styles.Border.Render(detail))
	}

	b.WriteString(m.renderMessages())
	b.WriteString(m.renderKeys([][2]string{{"esc", "back"}}))
	return b.String()
}

func (m *Model) renderProfile() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Profile"))
	b.WriteString("\n")
	b.WriteString(m.renderSessionBar())
	b.WriteString("\n")
	b.WriteString(m.renderForm(&m.profileForm))

	if m.state.User != nil && m.state.User.ProfilePictureRef != "" {
		b.WriteString("\n" + m.styles.Muted.Render("Picture: "+m.client.PictureURL(m.state.User.ProfilePictureRef)))
		b.WriteString("\n")
	}

	if m.submitting {
		b.WriteString("\n" + m.spin.View() + " saving...")
	}
	b.WriteString(m.renderMessages())
	b.WriteString(m.renderKeys([][2]string{
		{"enter", "save"},
		{"esc", "back"},
		{"tab", "next field"},
	}))
	return b.String()
}

func (m *Model) renderForm(f *form) string {
	var b strings.Builder
	for i := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			b.WriteString(m.styles.Key.Render("> " + label))
		} else {
			b.WriteString(m.styles.Muted.Render("  " + label))
		}
		b.WriteString("\n  " + f.inputs[i].View() + "\n")
	}
	return b.String()
}

func (m *Model) renderSessionBar() string {
	if m.state.Authenticated && m.state.User != nil {
		return m.styles.Subtitle.Render("signed in as " + m.state.User.DisplayName())
	}
	return m.styles.Subtitle.Render("not signed in")
}

func (m *Model) renderMessages() string {
	var b strings.Builder
	if m.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.errMsg) + "\n")
	}
	if m.infoMsg != "" {
		b.WriteString("\n" + m.styles.Success.Render(m.infoMsg) + "\n")
	}
	return b.String()
}

func (m *Model) renderKeys(keys [][2]string) string {
	var parts []string
	for _, k := range keys {
		parts = append(parts, m.styles.Key.Render(k[0])+" "+m.styles.KeyDesc.Render(k[1]))
	}
	return "\n" + strings.Join(parts, "  ") + "\n"
}
