package flow

import (
	"fmt"
	"strings"
)

// Route identifies a client screen by its path
type Route string

// Fixed routes
const (
	// RouteAuth is the unauthenticated entry screen
	RouteAuth Route = "/auth"
	// RouteHome is the default landing route (the news list)
	RouteHome Route = "/"
	// RouteSetRole is the role-selection screen
	RouteSetRole Route = "/set-role"
	// RouteTwoFASetup is the 2FA provisioning screen
	RouteTwoFASetup Route = "/2fa/setup"
	// RouteTwoFAVerify is the 2FA code-entry screen; it must stay reachable
	// mid-flow before a full session exists
	RouteTwoFAVerify Route = "/2fa/verify"
	// RouteNewsCreate is the article composer
	RouteNewsCreate Route = "/news/new"
	// RouteProfile is the profile editor
	RouteProfile Route = "/profile"
)

// NewsRoute returns the detail route for an article
func NewsRoute(id int64) Route {
	return Route(fmt.Sprintf("/news/%d", id))
}

// NewsEditRoute returns the edit route for an article
func NewsEditRoute(id int64) Route {
	return Route(fmt.Sprintf("/news/%d/edit", id))
}

// NewsID extracts the article id from a news detail or edit route
func NewsID(r Route) (int64, bool) {
	rest, found := strings.CutPrefix(string(r), "/news/")
	if !found {
		return 0, false
	}
	rest = strings.TrimSuffix(rest, "/edit")
	var id int64
	if _, err := fmt.Sscanf(rest, "%d", &id); err != nil {
		return 0, false
	}
	return id, true
}

// Guarded reports whether the route requires a session. Only the auth entry
// and the 2FA code entry are reachable without one.
func Guarded(r Route) bool {
	switch r {
	case RouteAuth, RouteTwoFAVerify:
		return false
	}
	return true
}
