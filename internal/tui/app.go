// Package tui is the interactive newsroom client. One screen per route,
// driven by the Bubble Tea event loop; navigation always passes through the
// flow controller's route guard.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/config"
	"github.com/newsroomhq/newsroom/internal/flow"
	"github.com/newsroomhq/newsroom/internal/log"
	"github.com/newsroomhq/newsroom/internal/session"
)

// shared holds the collaborators every screen needs
type shared struct {
	cfg     *config.Config
	api     *api.Client
	session *session.Store
	flow    *flow.Controller
	log     *log.Logger
	styles  Styles
}

// screenModel is implemented by every screen
type screenModel interface {
	init() tea.Cmd
	update(msg tea.Msg) (screenModel, tea.Cmd)
	view(width int) string
	help() string
}

// navMsg asks the app to change route; flash is an optional banner shown on
// the destination screen
type navMsg struct {
	to    flow.Route
	flash string
	isErr bool
}

// sessionExpiredMsg is sent by the gateway's forced-redirect hook after a 401
// on a protected call: the equivalent of a hard navigation to the login page.
type sessionExpiredMsg struct {
	path string
}

// navigate builds the command screens use to request a route change
func navigate(to flow.Route) tea.Cmd {
	return func() tea.Msg { return navMsg{to: to} }
}

// navigateFlash is navigate with a banner on arrival
func navigateFlash(to flow.Route, flash string, isErr bool) tea.Cmd {
	return func() tea.Msg { return navMsg{to: to, flash: flash, isErr: isErr} }
}

// App is the root TUI model
type App struct {
	*shared

	route  flow.Route
	screen screenModel

	width    int
	height   int
	ready    bool
	quitting bool

	flash    string
	flashErr bool
}

// NewApp creates the root model. The starting route goes through the guard,
// so an anonymous user lands on the auth screen with home remembered.
func NewApp(cfg *config.Config, client *api.Client, store *session.Store, controller *flow.Controller, logger *log.Logger) *App {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	s := &shared{
		cfg:     cfg,
		api:     client,
		session: store,
		flow:    controller,
		log:     logger.With("component", "tui"),
		styles:  DefaultStyles(),
	}

	a := &App{shared: s}
	a.route = controller.Resolve(flow.RouteHome)
	a.screen = a.newScreen(a.route)
	return a
}

// newScreen constructs the screen model for a route
func (a *App) newScreen(r flow.Route) screenModel {
	switch r {
	case flow.RouteAuth:
		return newAuthScreen(a.shared)
	case flow.RouteSetRole:
		return newRoleSelectScreen(a.shared)
	case flow.RouteTwoFASetup:
		return newSetupScreen(a.shared)
	case flow.RouteTwoFAVerify:
		return newVerifyScreen(a.shared)
	case flow.RouteNewsCreate:
		return newEditorScreen(a.shared, 0)
	case flow.RouteProfile:
		return newProfileScreen(a.shared)
	case flow.RouteHome:
		return newNewsListScreen(a.shared)
	default:
		if id, ok := flow.NewsID(r); ok {
			if r == flow.NewsEditRoute(id) {
				return newEditorScreen(a.shared, id)
			}
			return newDetailScreen(a.shared, id)
		}
		return newNewsListScreen(a.shared)
	}
}

// Init initializes the root model (required by Bubble Tea)
func (a *App) Init() tea.Cmd {
	return a.screen.init()
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}

	case navMsg:
		return a, a.goTo(msg.to, msg.flash, msg.isErr)

	case sessionExpiredMsg:
		// Hard redirect: in-flight screen state is discarded, the screen
		// stack resets to the login form.
		a.log.Warn("session expired, returning to login", "path", msg.path)
		a.route = flow.RouteAuth
		a.screen = a.newScreen(flow.RouteAuth)
		a.flash = "Your session has expired. Please log in again."
		a.flashErr = true
		return a, a.screen.init()
	}

	screen, cmd := a.screen.update(msg)
	a.screen = screen
	return a, cmd
}

// goTo routes through the guard and swaps the active screen
func (a *App) goTo(to flow.Route, flash string, isErr bool) tea.Cmd {
	resolved := a.flow.Resolve(to)
	a.route = resolved
	a.screen = a.newScreen(resolved)
	a.flash = flash
	a.flashErr = isErr
	return a.screen.init()
}

// View renders the TUI (required by Bubble Tea)
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}
	if a.quitting {
		return "Goodbye.\n"
	}

	header := a.styles.Title.Render("newsroom")
	if user := a.session.User(); user != nil {
		who := user.Username
		if user.Role != api.RoleUnassigned {
			who += " · " + string(user.Role)
		}
		header = lipgloss.JoinHorizontal(lipgloss.Bottom,
			header, "  ", a.styles.Muted.Render(who))
	}

	body := a.screen.view(a.width)

	var flash string
	if a.flash != "" {
		if a.flashErr {
			flash = a.styles.Error.Render(a.flash) + "\n"
		} else {
			flash = a.styles.Success.Render(a.flash) + "\n"
		}
	}

	helpLine := a.styles.Help.Render(a.screen.help() + " • ctrl+c quit")

	return header + "\n" + flash + body + "\n" + helpLine + "\n"
}

// Run wires the forced-redirect hook and runs the program to completion
func Run(cfg *config.Config, client *api.Client, store *session.Store, controller *flow.Controller, logger *log.Logger) error {
	app := NewApp(cfg, client, store, controller, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	client.OnAuthExpired(func(path string) {
		p.Send(sessionExpiredMsg{path: path})
	})

	_, err := p.Run()
	return err
}
