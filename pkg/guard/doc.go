// Package guard implements the access-control state machine that gates a
// protected view on session and role.
//
// A Guard starts in Restoring and settles, exactly once per mount, into one
// of three terminal states: Allowed, RedirectingToLogin, or
// RedirectingToHome. While Restoring it renders nothing and never redirects —
// the session store's Restore must settle first, so a storage-backed session
// never loses to a flash-redirect. The transition table itself is the pure
// function Decide, testable without any I/O.
//
//	g := guard.New(sessionStore, api.RoleAdmin, navigator)
//	g.Mount(ctx)
//	state, err := g.Wait(ctx)
//	if state == guard.StateAllowed { ... render ... }
//
// Redirects are fire-and-forget navigation side effects through the
// Navigator. A token without a resolved user is never treated as a valid
// session: the guard self-heals by forcing a logout before redirecting to
// login. If the view unmounts while the restore is still in flight, the
// pending completion is discarded and neither state nor navigation changes.
package guard
