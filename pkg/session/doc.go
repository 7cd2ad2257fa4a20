// Package session holds the client-side session: the bearer token and the
// resolved user profile.
//
// The Store is the single source of truth for "who is logged in." It keeps
// both fields in memory and mirrors them to persistent storage under fixed
// slot keys, so a session survives process restarts. Stores are explicitly
// constructed and passed by reference — there is no package-level singleton —
// which keeps tests isolated and teardown explicit:
//
//	store := session.NewStore(storageBackend, client)
//	store.Restore(ctx)
//	if user := store.User(); user != nil { ... }
//
// # State invariant
//
// A user without a token is an invalid state and is never observable. A
// token without a user is a valid transient state: the token is known but
// the profile has not resolved (or could not). Consumers — the route guard
// in particular — must treat the transient state as "not a valid session,"
// never as "still loading."
//
// # Persistence
//
// Persistence is best-effort. A storage write that fails is logged and
// swallowed; the in-memory state remains authoritative and only durability
// across restarts is lost. Storage may lag memory but never anticipates it:
// slots are written before or together with the in-memory update, and a
// crash between the two never leaves storage granting unearned access.
package session
