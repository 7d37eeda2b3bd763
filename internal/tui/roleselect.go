package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/flow"
)

// roleDoneMsg carries the outcome of the role submission
type roleDoneMsg struct {
	route flow.Route
	err   error
}

// roleSelectScreen asks a fresh account to pick between reading with comments
// and publishing. The server answers with a new token plus follow-up flags,
// handled by the same directive rule as a login.
type roleSelectScreen struct {
	*shared

	form   *huh.Form
	role   api.Role
	busy   bool
	errMsg string
}

func newRoleSelectScreen(s *shared) *roleSelectScreen {
	m := &roleSelectScreen{shared: s, role: api.RoleSubscriber}
	m.form = m.newForm()
	return m
}

func (m *roleSelectScreen) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[api.Role]().
				Key("role").
				Title("Select your role").
				Options(
					huh.NewOption("Subscriber - read and comment", api.RoleSubscriber),
					huh.NewOption("Journalist - publish articles", api.RoleJournalist),
				).
				Value(&m.role),
		),
	)
}

func (m *roleSelectScreen) init() tea.Cmd {
	return m.form.Init()
}

func (m *roleSelectScreen) update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case roleDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("role selection failed")
			m.errMsg = "Could not save your role. Please try again."
			m.form = m.newForm()
			return m, m.form.Init()
		}
		return m, navigate(msg.route)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		if m.form.State == huh.StateCompleted && !m.busy {
			m.busy = true
			role := m.role
			return m, func() tea.Msg {
				route, err := m.flow.SelectRole(context.Background(), role)
				return roleDoneMsg{route: route, err: err}
			}
		}
	}
	return m, cmd
}

func (m *roleSelectScreen) view(width int) string {
	var b strings.Builder
	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg) + "\n\n")
	}
	if m.busy {
		b.WriteString(m.styles.Muted.Render("Saving role..."))
	} else {
		b.WriteString(m.form.View())
	}
	return m.styles.Border.Render(b.String())
}

func (m *roleSelectScreen) help() string {
	return "arrows choose • enter save"
}
