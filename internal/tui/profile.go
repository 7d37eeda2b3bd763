package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/flow"
	"github.com/newsroomhq/newsroom/internal/validate"
)

// profile field indexes
const (
	profUsername = iota
	profEmail
	profPhone
	profFieldCount
)

// profileSavedMsg reports a profile update round-trip
type profileSavedMsg struct {
	user *api.User
	err  error
}

// profileScreen edits the username, email and phone of the current user
type profileScreen struct {
	*shared

	inputs [profFieldCount]textinput.Model
	focus  int
	busy   bool
	errMsg string
}

func newProfileScreen(s *shared) *profileScreen {
	m := &profileScreen{shared: s}

	labels := [profFieldCount]string{"Username", "Email", "Phone"}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 100
		m.inputs[i] = in
	}

	if user := s.session.User(); user != nil {
		m.inputs[profUsername].SetValue(user.Username)
		m.inputs[profEmail].SetValue(user.Email)
		m.inputs[profPhone].SetValue(user.Phone)
	}

	m.inputs[profUsername].Focus()
	return m
}

func (m *profileScreen) init() tea.Cmd {
	return textinput.Blink
}

func (m *profileScreen) update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.busy = false
		if msg.err != nil {
			switch {
			case errors.IsConflict(msg.err):
				m.errMsg = "That email is already in use."
			case errors.IsSessionExpired(msg.err):
			default:
				m.log.WithError(msg.err).Warn("profile update failed")
				m.errMsg = "Failed to save profile."
			}
			return m, nil
		}
		m.session.SetUser(msg.user)
		return m, navigateFlash(flow.RouteHome, "Profile saved.", false)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, navigate(flow.RouteHome)

		case "tab", "down":
			m.cycleFocus(1)
			return m, nil

		case "shift+tab", "up":
			m.cycleFocus(-1)
			return m, nil

		case "enter":
			return m, m.save()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *profileScreen) cycleFocus(dir int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + dir + profFieldCount) % profFieldCount
	m.inputs[m.focus].Focus()
}

func (m *profileScreen) save() tea.Cmd {
	username := strings.TrimSpace(m.inputs[profUsername].Value())
	email := strings.TrimSpace(m.inputs[profEmail].Value())
	phone := strings.TrimSpace(m.inputs[profPhone].Value())

	switch {
	case username == "" || email == "":
		m.errMsg = "Username and email are required."
	case validate.Email(email) != nil:
		m.errMsg = "Invalid email format."
	case validate.Phone(phone) != nil:
		m.errMsg = "Phone must start with + and be 7-15 digits."
	case validate.Username(username) != nil:
		m.errMsg = "Username must be 3+ chars and start with a letter."
	default:
		m.errMsg = ""
		m.busy = true
		upd := api.ProfileUpdate{Username: username, Email: email, Phone: phone}
		return func() tea.Msg {
			user, err := m.api.UpdateProfile(context.Background(), upd)
			return profileSavedMsg{user: user, err: err}
		}
	}
	return nil
}

func (m *profileScreen) view(width int) string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Edit Profile") + "\n")

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg) + "\n")
	}
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}
	if m.busy {
		b.WriteString("\n" + m.styles.Muted.Render("Saving..."))
	}
	return m.styles.Border.Render(b.String())
}

func (m *profileScreen) help() string {
	return "tab next field • enter save • esc cancel"
}
