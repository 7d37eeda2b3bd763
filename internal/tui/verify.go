package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/flow"
)

const codeLength = 6

// verifyDoneMsg carries the outcome of a 2FA code submission
type verifyDoneMsg struct {
	route flow.Route
	err   error
}

// verifyScreen is the 2FA code entry: six single-digit cells, focus advances
// on every digit, and the assembled code submits itself the moment the sixth
// cell fills. Reachable without a full session.
type verifyScreen struct {
	*shared

	cells  [codeLength]string
	focus  int
	errMsg string
	busy   bool
}

func newVerifyScreen(s *shared) *verifyScreen {
	return &verifyScreen{shared: s}
}

func (m *verifyScreen) init() tea.Cmd {
	return nil
}

func (m *verifyScreen) update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case verifyDoneMsg:
		m.busy = false
		if msg.err != nil {
			// Rejection clears every cell and focus returns to the first.
			m.cells = [codeLength]string{}
			m.focus = 0
			if errors.IsCredential(msg.err) {
				m.errMsg = "Invalid code. Please try again."
			} else {
				m.log.WithError(msg.err).Warn("2fa verification failed")
				m.errMsg = "Something went wrong. Please try again."
			}
			return m, nil
		}
		return m, navigate(msg.route)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *verifyScreen) handleKey(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch msg.String() {
	case "backspace":
		if m.cells[m.focus] == "" && m.focus > 0 {
			m.focus--
		}
		m.cells[m.focus] = ""
		return m, nil

	case "left":
		if m.focus > 0 {
			m.focus--
		}
		return m, nil

	case "right":
		if m.focus < codeLength-1 {
			m.focus++
		}
		return m, nil
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return m, nil
	}
	r := msg.Runes[0]
	if r < '0' || r > '9' {
		return m, nil
	}

	m.cells[m.focus] = string(r)
	if m.focus < codeLength-1 {
		m.focus++
	}

	if code, full := m.assembled(); full {
		return m, m.submit(code)
	}
	return m, nil
}

// assembled joins the cells; full is true only when every cell holds a digit
func (m *verifyScreen) assembled() (string, bool) {
	var b strings.Builder
	for _, c := range m.cells {
		if c == "" {
			return "", false
		}
		b.WriteString(c)
	}
	return b.String(), true
}

// submit sends the code exactly once; busy blocks re-entry until the answer
func (m *verifyScreen) submit(code string) tea.Cmd {
	m.errMsg = ""
	m.busy = true
	return func() tea.Msg {
		route, err := m.flow.VerifyCode(context.Background(), code)
		return verifyDoneMsg{route: route, err: err}
	}
}

func (m *verifyScreen) view(width int) string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Enter your 2FA code"))
	b.WriteString("\n\n")

	rendered := make([]string, codeLength)
	for i, c := range m.cells {
		display := c
		if display == "" {
			display = " "
		}
		if i == m.focus && !m.busy {
			rendered[i] = m.styles.CellFocused.Render(display)
		} else {
			rendered[i] = m.styles.Cell.Render(display)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, rendered...))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.errMsg) + "\n")
	}
	if m.busy {
		b.WriteString("\n" + m.styles.Muted.Render("Verifying..."))
	}

	return m.styles.Border.Render(b.String())
}

func (m *verifyScreen) help() string {
	return "type the 6 digits • backspace to correct"
}
