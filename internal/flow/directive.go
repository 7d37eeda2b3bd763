package flow

import (
	"net/url"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/errors"
)

// Directive is the server-issued decision about which follow-up screen the
// client must show. It is consumed exactly once and never persisted.
type Directive struct {
	RoleMissing     bool
	NeedTwoFASetup  bool
	NeedTwoFAVerify bool
}

// None reports whether no follow-up screen is required
func (d Directive) None() bool {
	return !d.RoleMissing && !d.NeedTwoFASetup && !d.NeedTwoFAVerify
}

// DirectiveFrom extracts the directive flags from an auth response
func DirectiveFrom(auth *api.AuthResponse) Directive {
	return Directive{
		RoleMissing:     auth.RoleMissing,
		NeedTwoFASetup:  auth.NeedTwoFASetup,
		NeedTwoFAVerify: auth.NeedTwoFAVerify,
	}
}

// Next picks the next route for a directive. The priority order is strict
// and identical for every trigger (login, register, role-select, OAuth
// callback): role selection first, then 2FA setup, then 2FA verification,
// and only then the pending destination or the default landing route.
func Next(d Directive, pending Route) Route {
	switch {
	case d.RoleMissing:
		return RouteSetRole
	case d.NeedTwoFASetup:
		return RouteTwoFASetup
	case d.NeedTwoFAVerify:
		return RouteTwoFAVerify
	case pending != "":
		return pending
	default:
		return RouteHome
	}
}

// ParseCallback interprets an OAuth callback URL. The provider redirect lands
// on the auth route carrying the token and directive flags as query
// parameters. A URL without a token is not a callback.
func ParseCallback(raw string) (token string, d Directive, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", Directive{}, errors.Wrap(errors.ErrCodeCallbackInvalid, "parse callback URL", err)
	}

	q := u.Query()
	token = q.Get("token")
	if token == "" {
		return "", Directive{}, errors.New(errors.ErrCodeCallbackInvalid, "callback URL carries no token")
	}

	d = Directive{
		RoleMissing:     q.Get("roleMissing") == "true",
		NeedTwoFASetup:  q.Get("need2faSetup") == "true",
		NeedTwoFAVerify: q.Get("need2faVerify") == "true",
	}
	return token, d, nil
}
