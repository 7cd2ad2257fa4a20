package guard

import "github.com/shopkit-dev/shopkit/pkg/api"

// State is a guard's position in its lifecycle.
type State int

const (
	// StateRestoring is the initial state: the session restore has not
	// settled. Nothing renders and nothing redirects.
	StateRestoring State = iota

	// StateAllowed grants the view: a user is resolved and its role matches.
	StateAllowed

	// StateRedirectingToLogin denies the view for lack of a valid session.
	StateRedirectingToLogin

	// StateRedirectingToHome denies the view for insufficient role.
	StateRedirectingToHome
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAllowed:
		return "allowed"
	case StateRedirectingToLogin:
		return "redirecting-to-login"
	case StateRedirectingToHome:
		return "redirecting-to-home"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final for the current mount.
func (s State) Terminal() bool {
	return s != StateRestoring
}

// Decide is the pure transition function of the guard.
//
// While restoring, the decision is always StateRestoring. Once restore has
// settled: no token redirects to login; a token without a resolved user is
// the transient state and also redirects to login (the caller must record a
// logout for it, see Guard); a resolved user with the wrong role redirects
// home; a matching role is allowed.
func Decide(restoring bool, token string, user *api.User, required api.Role) State {
	switch {
	case restoring:
		return StateRestoring
	case token == "":
		return StateRedirectingToLogin
	case user == nil:
		return StateRedirectingToLogin
	case user.Role != required:
		return StateRedirectingToHome
	default:
		return StateAllowed
	}
}
