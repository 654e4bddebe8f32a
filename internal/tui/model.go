// Package tui implements the interactive browse mode: a single terminal
// "page" whose views render from the session store's snapshots. Views hold
// no authentication state of their own; every surface re-derives what it
// shows from the latest notification.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lapdeck/lapdeck/internal/api"
	"github.com/lapdeck/lapdeck/internal/session"
)

// ViewType represents the current view being displayed
type ViewType int

// View type constants
const (
	// ViewLogin is the credentials form
	ViewLogin ViewType = iota
	// ViewRegister is the account creation form
	ViewRegister
	// ViewCatalog is the protected laptop list
	ViewCatalog
	// ViewDetail is a single protected catalog entry
	ViewDetail
	// ViewProfile is the protected profile editor
	ViewProfile
)

// protected reports whether entering the view requires authentication.
func (v ViewType) protected() bool {
	switch v {
	case ViewCatalog, ViewDetail, ViewProfile:
		return true
	default:
		return false
	}
}

// reLoginRedirectDelay is how long the profile view shows the "please log in
// again" message before switching to the login form.
const reLoginRedirectDelay = 3 * time.Second

// Model represents the TUI application state
type Model struct {
	store  *session.Store
	guard  *session.Guard
	client *api.Client

	// Latest observed session snapshot, fed by the store subscription.
	state   session.State
	stateCh chan session.State
	sub     *session.Subscription

	// Catalog state
	laptops  []api.Laptop
	catalog  table.Model
	selected *api.Laptop

	// Forms
	loginForm    form
	registerForm form
	profileForm  form

	// UI state
	currentView ViewType
	spin        spinner.Model
	loading     bool
	submitting  bool
	errMsg      string
	infoMsg     string
	width       int
	height      int
	ready       bool
	quitting    bool

	styles Styles
}

// NewModel creates the TUI model and wires it to the session store. The
// subscription is bridged into Bubble Tea messages so views re-render on
// every notification.
func NewModel(store *session.Store, guard *session.Guard, client *api.Client) *Model {
	m := &Model{
		store:        store,
		guard:        guard,
		client:       client,
		stateCh:      make(chan session.State, 1),
		currentView:  ViewLogin,
		spin:         spinner.New(spinner.WithSpinner(spinner.Dot)),
		catalog:      newCatalogTable(),
		loginForm:    newLoginForm(),
		registerForm: newRegisterForm(),
		profileForm:  newProfileForm(),
		styles:       DefaultStyles(),
	}

	// The listener must never block the store. Views only render the latest
	// snapshot, so a pending older value is dropped in favor of the new one.
	m.sub = store.Subscribe(func(s session.State) {
		for {
			select {
			case m.stateCh <- s:
				return
			default:
			}
			select {
			case <-m.stateCh:
			default:
			}
		}
	})
	return m
}

// Close cancels the store subscription.
func (m *Model) Close() {
	if m.sub != nil {
		m.sub.Cancel()
	}
}

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Key      lipgloss.Style
	KeyDesc  lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginBottom(1),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")). // Purple
			Padding(1, 2),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		KeyDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
	}
}

// Messages

// stateMsg carries a session snapshot delivered by the store subscription
type stateMsg session.State

// navigatedMsg is the guard's verdict for a requested view
type navigatedMsg struct {
	target   ViewType
	decision session.Decision
}

// loginDoneMsg reports the outcome of a login submission
type loginDoneMsg struct{ err error }

// registerDoneMsg reports the outcome of a registration submission
type registerDoneMsg struct{ err error }

// logoutDoneMsg reports that logout completed (it always does)
type logoutDoneMsg struct{}

// laptopsMsg carries a freshly loaded catalog
type laptopsMsg struct {
	laptops []api.Laptop
	err     error
}

// laptopMsg carries a single loaded catalog entry
type laptopMsg struct {
	laptop *api.Laptop
	err    error
}

// laptopDeletedMsg reports the outcome of a delete
type laptopDeletedMsg struct{ err error }

// profileSavedMsg reports the outcome of a profile update
type profileSavedMsg struct {
	result *api.ProfileUpdateResult
	err    error
}

// redirectLoginMsg fires after the re-login delay
type redirectLoginMsg struct{}

// Commands

// waitForState re-arms after every delivery so the subscription keeps
// flowing into the update loop.
func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.stateCh)
	}
}

// navigate asks the guard whether the target view may be entered. For
// unprotected targets the answer is always yes.
func (m *Model) navigate(target ViewType) tea.Cmd {
	return func() tea.Msg {
		if !target.protected() {
			return navigatedMsg{target: target, decision: session.Allow}
		}
		return navigatedMsg{target: target, decision: m.guard.Check(context.Background())}
	}
}

func (m *Model) submitLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: m.store.Login(context.Background(), email, password)}
	}
}

func (m *Model) submitRegister(req api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		return registerDoneMsg{err: m.store.Register(context.Background(), req)}
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		m.store.Logout(context.Background())
		return logoutDoneMsg{}
	}
}

func (m *Model) loadLaptops() tea.Cmd {
	return func() tea.Msg {
		laptops, err := m.client.ListLaptops(context.Background())
		return laptopsMsg{laptops: laptops, err: err}
	}
}

func (m *Model) loadLaptop(id string) tea.Cmd {
	return func() tea.Msg {
		laptop, err := m.client.GetLaptop(context.Background(), id)
		return laptopMsg{laptop: laptop, err: err}
	}
}

func (m *Model) deleteLaptop(id string) tea.Cmd {
	return func() tea.Msg {
		return laptopDeletedMsg{err: m.client.DeleteLaptop(context.Background(), id)}
	}
}

func (m *Model) saveProfile(upd api.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		result, err := m.client.UpdateProfile(context.Background(), upd)
		return profileSavedMsg{result: result, err: err}
	}
}

// Init initializes the TUI model (required by Bubble Tea)
func (m *Model) Init() tea.Cmd {
	// The initial navigation goes through the guard, which waits for the
	// startup probe instead of bouncing a valid session to the login form.
	return tea.Batch(m.spin.Tick, m.waitForState(), m.navigate(ViewCatalog))
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.catalog.SetHeight(max(4, m.height-10))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case stateMsg:
		m.state = session.State(msg)
		if !m.state.Authenticated && m.currentView.protected() {
			// The session ended underneath a protected view; render the
			// login form on the next frame.
			m.currentView = ViewLogin
		}
		return m, m.waitForState()

	case navigatedMsg:
		if msg.decision == session.RedirectToLogin {
			// Routine, not an error: no message shown.
			m.currentView = ViewLogin
			return m, nil
		}
		m.currentView = msg.target
		m.errMsg = ""
		if msg.target == ViewCatalog {
			m.loading = true
			return m, m.loadLaptops()
		}
		if msg.target == ViewProfile {
			m.profileForm.prefill(m.state.User)
		}
		return m, nil

	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.infoMsg = ""
		m.loginForm.reset()
		return m, m.navigate(ViewCatalog)

	case registerDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.infoMsg = "Account created. Log in with your new credentials."
		m.registerForm.reset()
		m.currentView = ViewLogin
		return m, nil

	case logoutDoneMsg:
		m.infoMsg = "Logged out."
		m.currentView = ViewLogin
		return m, nil

	case laptopsMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.laptops = msg.laptops
		m.catalog.SetRows(catalogRows(msg.laptops))
		return m, nil

	case laptopMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.currentView = ViewCatalog
			return m, nil
		}
		m.selected = msg.laptop
		m.currentView = ViewDetail
		return m, nil

	case laptopDeletedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.loading = true
		return m, m.loadLaptops()

	case profileSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		if msg.result.RequireReLogin {
			// The change invalidated the session. Show the notice, then
			// send the user back to the login form after a fixed delay.
			m.store.Clear()
			m.infoMsg = msg.result.Message
			return m, tea.Tick(reLoginRedirectDelay, func(time.Time) tea.Msg {
				return redirectLoginMsg{}
			})
		}
		if msg.result.User != nil {
			m.store.UpdateUserData(*msg.result.User)
		}
		m.infoMsg = "Profile saved."
		return m, nil

	case redirectLoginMsg:
		m.currentView = ViewLogin
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.currentView {
	case ViewLogin:
		return m.handleLoginKeys(msg)
	case ViewRegister:
		return m.handleRegisterKeys(msg)
	case ViewCatalog:
		return m.handleCatalogKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewProfile:
		return m.handleProfileKeys(msg)
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		email := m.loginForm.value(0)
		password := m.loginForm.value(1)
		if email == "" || password == "" {
			m.errMsg = "email and password are required"
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, m.submitLogin(email, password)
	case "tab", "shift+tab", "up", "down":
		m.loginForm.cycleFocus(msg.String())
		return m, nil
	case "ctrl+r":
		m.currentView = ViewRegister
		m.errMsg = ""
		m.infoMsg = ""
		return m, nil
	}
	return m, m.loginForm.update(msg)
}

func (m *Model) handleRegisterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		req := api.RegisterRequest{
			Email:     m.registerForm.value(0),
			Password:  m.registerForm.value(1),
			FirstName: m.registerForm.value(2),
			LastName:  m.registerForm.value(3),
		}
		if req.Email == "" || req.Password == "" {
			m.errMsg = "email and password are required"
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, m.submitRegister(req)
	case "tab", "shift+tab", "up", "down":
		m.registerForm.cycleFocus(msg.String())
		return m, nil
	case "esc":
		m.currentView = ViewLogin
		m.errMsg = ""
		return m, nil
	}
	return m, m.registerForm.update(msg)
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.loading = true
		return m, m.loadLaptops()
	case "enter":
		if row := m.catalog.SelectedRow(); row != nil {
			m.loading = true
			return m, m.loadLaptop(row[0])
		}
		return m, nil
	case "x":
		if row := m.catalog.SelectedRow(); row != nil {
			return m, m.deleteLaptop(row[0])
		}
		return m, nil
	case "p":
		return m, m.navigate(ViewProfile)
	case "o":
		return m, m.logout()
	}
	var cmd tea.Cmd
	m.catalog, cmd = m.catalog.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.selected = nil
		return m, m.navigate(ViewCatalog)
	}
	return m, nil
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		upd := api.ProfileUpdate{
			Email:     m.profileForm.value(0),
			FirstName: m.profileForm.value(1),
			LastName:  m.profileForm.value(2),
		}
		if upd.Email == "" {
			m.errMsg = "email is required"
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, m.saveProfile(upd)
	case "tab", "shift+tab", "up", "down":
		m.profileForm.cycleFocus(msg.String())
		return m, nil
	case "esc":
		return m, m.navigate(ViewCatalog)
	}
	return m, m.profileForm.update(msg)
}
