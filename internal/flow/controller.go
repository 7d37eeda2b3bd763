// Package flow decides which screen comes next after every
// authentication-affecting event, and gates routes behind session presence.
package flow

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/errors"
	"github.com/newsroomhq/newsroom/internal/log"
	"github.com/newsroomhq/newsroom/internal/session"
)

// State is the controller's position in the authentication flow
type State int

// Flow states
const (
	// StateAnonymous means no session exists
	StateAnonymous State = iota
	// StateAuthenticating means a credential exchange is in flight
	StateAuthenticating
	// StateRoleSelection means the server demanded a role choice
	StateRoleSelection
	// StateTwoFASetup means the server demanded 2FA provisioning
	StateTwoFASetup
	// StateTwoFAVerify means the server demanded a 2FA code
	StateTwoFAVerify
	// StateAuthenticated means the session is fully established
	StateAuthenticated
)

// Controller interprets auth responses and OAuth callbacks, installs tokens
// into the session store and resolves the next route. It also acts as the
// route guard, remembering the destination an anonymous user was denied.
type Controller struct {
	api     *api.Client
	session *session.Store

	mu      sync.Mutex
	state   State
	pending Route

	log *log.Logger
}

// NewController creates a flow controller over the gateway and the session
func NewController(client *api.Client, store *session.Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	state := StateAnonymous
	if store.Token() != "" {
		state = StateAuthenticated
	}
	return &Controller{
		api:     client,
		session: store,
		state:   state,
		log:     logger.With("component", "flow"),
	}
}

// State returns the current flow state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resolve applies the route guard: a guarded route without a session redirects
// to the auth screen and the attempted destination is remembered so a later
// successful authentication can return there. No network calls are made.
func (c *Controller) Resolve(r Route) Route {
	if !Guarded(r) || c.session.Token() != "" {
		return r
	}
	c.RememberDestination(r)
	return RouteAuth
}

// RememberDestination records where to land after authentication
func (c *Controller) RememberDestination(r Route) {
	c.mu.Lock()
	c.pending = r
	c.mu.Unlock()
}

// LogIn exchanges credentials for a token and resolves the next route
func (c *Controller) LogIn(ctx context.Context, email, password string) (Route, error) {
	c.setState(StateAuthenticating)

	auth, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.setState(StateAnonymous)
		return RouteAuth, err
	}
	return c.follow(ctx, auth)
}

// SignUp runs the register-then-login composite and resolves the next route.
// A duplicate account aborts before the login call; a post-registration login
// failure leaves the user on the auth screen with a distinct retry-login error.
func (c *Controller) SignUp(ctx context.Context, req api.RegisterRequest) (Route, error) {
	c.setState(StateAuthenticating)

	auth, err := c.api.SignUp(ctx, req)
	if err != nil {
		c.setState(StateAnonymous)
		return RouteAuth, err
	}
	return c.follow(ctx, auth)
}

// CompleteOAuth consumes an OAuth callback URL: the token and directive flags
// ride in as query parameters and follow the same decision rule as a login.
func (c *Controller) CompleteOAuth(ctx context.Context, rawURL string) (Route, error) {
	token, directive, err := ParseCallback(rawURL)
	if err != nil {
		return RouteAuth, err
	}

	c.setState(StateAuthenticating)
	return c.install(ctx, token, directive)
}

// SelectRole submits the chosen role and resolves the next route
func (c *Controller) SelectRole(ctx context.Context, role api.Role) (Route, error) {
	auth, err := c.api.SetRole(ctx, role)
	if err != nil {
		return RouteSetRole, err
	}
	return c.follow(ctx, auth)
}

// VerifyCode submits an assembled 2FA code. Acceptance installs the returned
// token and lands on the default landing route.
func (c *Controller) VerifyCode(ctx context.Context, code string) (Route, error) {
	auth, err := c.api.VerifyTwoFA(ctx, code)
	if err != nil {
		return RouteTwoFAVerify, err
	}

	if err := c.session.SetToken(ctx, auth.Token); err != nil {
		return RouteTwoFAVerify, err
	}
	c.setState(StateAuthenticated)
	return RouteHome, nil
}

// BeginTwoFASetup prepares the provisioning screen. Setup is a one-time step:
// when the profile already carries a second factor it skips straight to
// verification. Otherwise it returns the decoded provisioning QR PNG.
func (c *Controller) BeginTwoFASetup(ctx context.Context) (qrPNG []byte, skipToVerify bool, err error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeTwoFASetupFailed, "fetch profile for 2FA setup", err)
	}
	if user.TOTPEnabled {
		c.setState(StateTwoFAVerify)
		return nil, true, nil
	}

	setup, err := c.api.SetupTwoFA(ctx)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeTwoFASetupFailed, "request 2FA provisioning", err)
	}

	png, err := base64.StdEncoding.DecodeString(setup.QRCodeBase64)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeTwoFASetupFailed, "decode provisioning QR", err)
	}
	return png, false, nil
}

// Logout clears the session and returns to the anonymous state
func (c *Controller) Logout() {
	c.session.Logout()
	c.mu.Lock()
	c.state = StateAnonymous
	c.pending = ""
	c.mu.Unlock()
}

// follow installs the response token and applies the directive priority rule
func (c *Controller) follow(ctx context.Context, auth *api.AuthResponse) (Route, error) {
	return c.install(ctx, auth.Token, DirectiveFrom(auth))
}

func (c *Controller) install(ctx context.Context, token string, d Directive) (Route, error) {
	if err := c.session.SetToken(ctx, token); err != nil {
		c.setState(StateAnonymous)
		return RouteAuth, err
	}

	c.mu.Lock()
	pending := c.pending
	route := Next(d, pending)
	if d.None() {
		// The pending destination is consumed by the final hop only;
		// intermediate 2FA/role screens keep it for later.
		c.pending = ""
	}

	switch route {
	case RouteSetRole:
		c.state = StateRoleSelection
	case RouteTwoFASetup:
		c.state = StateTwoFASetup
	case RouteTwoFAVerify:
		c.state = StateTwoFAVerify
	default:
		c.state = StateAuthenticated
	}
	c.mu.Unlock()

	c.log.Info("auth flow advanced", "route", string(route))
	return route, nil
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
