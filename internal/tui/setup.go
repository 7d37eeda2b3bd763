package tui

import (
	"context"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/newsroomhq/newsroom/internal/flow"
)

// setupReadyMsg carries the 2FA provisioning outcome
type setupReadyMsg struct {
	qrPNG        []byte
	skipToVerify bool
	err          error
}

// qrSavedMsg reports the QR image landing on disk
type qrSavedMsg struct {
	path string
	err  error
}

// setupScreen provisions the second factor. Setup is a one-time step, so a
// profile that already carries one skips straight to verification. The QR
// image arrives as base64 PNG and is written to the state dir for scanning.
type setupScreen struct {
	*shared

	loading bool
	qrPath  string
}

func newSetupScreen(s *shared) *setupScreen {
	return &setupScreen{shared: s, loading: true}
}

func (m *setupScreen) init() tea.Cmd {
	return func() tea.Msg {
		png, skip, err := m.flow.BeginTwoFASetup(context.Background())
		return setupReadyMsg{qrPNG: png, skipToVerify: skip, err: err}
	}
}

func (m *setupScreen) update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case setupReadyMsg:
		m.loading = false
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("2fa setup aborted")
			return m, navigateFlash(flow.RouteHome, "Failed to fetch 2FA setup.", true)
		}
		if msg.skipToVerify {
			return m, navigate(flow.RouteTwoFAVerify)
		}
		return m, m.saveQR(msg.qrPNG)

	case qrSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("writing 2fa qr failed")
			return m, navigateFlash(flow.RouteHome, "Failed to fetch 2FA setup.", true)
		}
		m.qrPath = msg.path
		return m, nil

	case tea.KeyMsg:
		if m.qrPath == "" {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			return m, navigate(flow.RouteTwoFAVerify)
		case "esc":
			return m, navigate(flow.RouteHome)
		}
	}

	return m, nil
}

func (m *setupScreen) saveQR(png []byte) tea.Cmd {
	path := m.cfg.QRCodePath()
	return func() tea.Msg {
		if err := m.cfg.EnsureStateDir(); err != nil {
			return qrSavedMsg{err: err}
		}
		if err := os.WriteFile(path, png, 0o600); err != nil {
			return qrSavedMsg{err: err}
		}
		return qrSavedMsg{path: path}
	}
}

func (m *setupScreen) view(width int) string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Two-Factor Authentication"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.styles.Muted.Render("Loading 2FA setup..."))
	} else if m.qrPath != "" {
		b.WriteString("Scan this QR code with an Authenticator app:\n\n")
		b.WriteString("  " + m.styles.Highlighted.Render(m.qrPath) + "\n\n")
		b.WriteString(m.styles.Muted.Render("Then press enter to verify a code."))
	}

	return m.styles.Border.Render(b.String())
}

func (m *setupScreen) help() string {
	return "enter verify code • esc home"
}
