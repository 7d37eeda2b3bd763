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

// authMode selects between the login and signup forms
type authMode int

const (
	modeLogin authMode = iota
	modeSignup
	modeCallback
)

// field indexes for the signup form; login uses email and password only
const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldPhone
	fieldCount
)

// authDoneMsg carries the outcome of a credential exchange
type authDoneMsg struct {
	route flow.Route
	err   error
}

// authScreen is the login/signup entry screen. It also accepts a pasted OAuth
// callback URL, the terminal counterpart of the provider redirect landing on
// the auth route with token and directive flags in the query string.
type authScreen struct {
	*shared

	mode   authMode
	inputs [fieldCount]textinput.Model

	callback textinput.Model

	focus     int
	fieldErrs [fieldCount]string
	errMsg    string
	busy      bool
}

func newAuthScreen(s *shared) *authScreen {
	m := &authScreen{shared: s, mode: modeLogin}

	labels := [fieldCount]string{"Username", "Email", "Password", "Phone (e.g. +1234567890)"}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 100
		m.inputs[i] = in
	}
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword

	m.callback = textinput.New()
	m.callback.Placeholder = "Paste the callback URL here"
	m.callback.CharLimit = 2048

	m.focus = fieldEmail
	m.inputs[fieldEmail].Focus()
	return m
}

func (m *authScreen) init() tea.Cmd {
	return textinput.Blink
}

// visibleFields returns the field order for the current mode
func (m *authScreen) visibleFields() []int {
	if m.mode == modeSignup {
		return []int{fieldUsername, fieldEmail, fieldPassword, fieldPhone}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m *authScreen) update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = m.messageFor(msg.err)
			return m, nil
		}
		return m, navigate(msg.route)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+t":
			m.toggleMode()
			return m, nil

		case "ctrl+o":
			if m.mode == modeCallback {
				m.mode = modeLogin
				m.callback.Blur()
				m.focusField(fieldEmail)
			} else {
				m.mode = modeCallback
				m.blurAll()
				m.callback.Focus()
			}
			m.errMsg = ""
			return m, nil

		case "tab", "down":
			if m.mode != modeCallback {
				m.cycleFocus(1)
				return m, nil
			}

		case "shift+tab", "up":
			if m.mode != modeCallback {
				m.cycleFocus(-1)
				return m, nil
			}

		case "enter":
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	if m.mode == modeCallback {
		m.callback, cmd = m.callback.Update(msg)
	} else {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *authScreen) toggleMode() {
	if m.mode == modeSignup {
		m.mode = modeLogin
		if m.focus == fieldUsername || m.focus == fieldPhone {
			m.focusField(fieldEmail)
		}
	} else {
		m.mode = modeSignup
	}
	m.errMsg = ""
	m.fieldErrs = [fieldCount]string{}
}

func (m *authScreen) cycleFocus(dir int) {
	fields := m.visibleFields()
	pos := 0
	for i, f := range fields {
		if f == m.focus {
			pos = i
		}
	}
	pos = (pos + dir + len(fields)) % len(fields)
	m.focusField(fields[pos])
}

func (m *authScreen) focusField(f int) {
	m.blurAll()
	m.focus = f
	m.inputs[f].Focus()
}

func (m *authScreen) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// submit validates locally first; nothing malformed ever reaches the network
func (m *authScreen) submit() tea.Cmd {
	m.errMsg = ""
	m.fieldErrs = [fieldCount]string{}

	if m.mode == modeCallback {
		raw := strings.TrimSpace(m.callback.Value())
		if raw == "" {
			m.errMsg = "Paste the full callback URL first."
			return nil
		}
		m.busy = true
		return func() tea.Msg {
			route, err := m.flow.CompleteOAuth(context.Background(), raw)
			return authDoneMsg{route: route, err: err}
		}
	}

	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	ok := true
	if err := validate.Email(email); err != nil {
		m.fieldErrs[fieldEmail] = "Invalid email"
		ok = false
	}
	if err := validate.Password(password); err != nil {
		m.fieldErrs[fieldPassword] = "Min 8 chars, upper, lower & digit"
		ok = false
	}

	if m.mode == modeSignup {
		username := strings.TrimSpace(m.inputs[fieldUsername].Value())
		phone := strings.TrimSpace(m.inputs[fieldPhone].Value())
		if err := validate.Username(username); err != nil {
			m.fieldErrs[fieldUsername] = "3+ chars, start with letter"
			ok = false
		}
		if err := validate.Phone(phone); err != nil {
			m.fieldErrs[fieldPhone] = "Phone must start with + and have 7-15 digits"
			ok = false
		}
		if !ok {
			return nil
		}

		req := api.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
			Phone:    phone,
		}
		m.busy = true
		return func() tea.Msg {
			route, err := m.flow.SignUp(context.Background(), req)
			return authDoneMsg{route: route, err: err}
		}
	}

	if !ok {
		return nil
	}

	m.busy = true
	return func() tea.Msg {
		route, err := m.flow.LogIn(context.Background(), email, password)
		return authDoneMsg{route: route, err: err}
	}
}

// messageFor maps an auth failure to its inline message
func (m *authScreen) messageFor(err error) string {
	switch {
	case errors.Is(err, errors.ErrCodeDuplicateAccount):
		return "An account with this email already exists. Log in instead."
	case errors.Is(err, errors.ErrCodeRegisteredNoSession):
		return "Account created, but logging in failed. Please log in directly."
	case errors.IsCredential(err):
		return "Invalid email or password."
	case errors.Is(err, errors.ErrCodeCallbackInvalid):
		return "That does not look like a valid callback URL."
	case m.mode == modeSignup:
		m.log.WithError(err).Warn("signup failed")
		return "Sign up failed. Please check your data."
	default:
		m.log.WithError(err).Warn("login failed")
		return "Something went wrong. Please try again."
	}
}

func (m *authScreen) view(width int) string {
	var b strings.Builder

	if m.mode == modeCallback {
		b.WriteString(m.styles.Subtitle.Render("Finish signing in with Google"))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Open this URL in your browser:"))
		b.WriteString("\n  " + m.cfg.APIBaseURL + "/oauth2/authorization/google\n\n")
		b.WriteString(m.callback.View())
		b.WriteString("\n")
	} else {
		login, signup := "Log In", "Sign Up"
		if m.mode == modeLogin {
			login = m.styles.Highlighted.Render(login)
			signup = m.styles.Muted.Render(signup)
		} else {
			login = m.styles.Muted.Render(login)
			signup = m.styles.Highlighted.Render(signup)
		}
		b.WriteString(login + "  " + signup + "\n\n")

		for _, f := range m.visibleFields() {
			b.WriteString(m.inputs[f].View())
			b.WriteString("\n")
			if m.fieldErrs[f] != "" {
				b.WriteString(m.styles.Error.Render(m.fieldErrs[f]))
				b.WriteString("\n")
			}
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.errMsg) + "\n")
	}
	if m.busy {
		b.WriteString("\n" + m.styles.Muted.Render("Signing in..."))
	}

	return m.styles.Border.Render(b.String())
}

func (m *authScreen) help() string {
	if m.mode == modeCallback {
		return "enter submit • ctrl+o back to login"
	}
	return "tab next field • enter submit • ctrl+t login/signup • ctrl+o google"
}
