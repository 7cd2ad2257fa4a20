package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/shopkit-dev/shopkit/pkg/api"
	"github.com/shopkit-dev/shopkit/pkg/storage"
)

// API is the narrow backend surface the store needs.
// *api.Client satisfies it.
type API interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Register(ctx context.Context, name, email, password string) error
	Me(ctx context.Context) (*api.User, error)
}

// authBinder is implemented by clients exposing an auth-failure hook.
// The store registers its Logout there at construction, so a 401 anywhere
// tears the session down without the client importing this package.
type authBinder interface {
	OnAuthFailure(func())
}

// Store is the client-side session store.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	token string
	user  *api.User

	storage storage.Storage
	backend API
	logger  *slog.Logger
}

// StoreOption configures Store behavior.
type StoreOption func(*storeConfig)

type storeConfig struct {
	logger *slog.Logger
}

// WithLogger sets the structured logger.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// NewStore creates a session store over the given storage and backend.
// If the backend exposes an auth-failure hook, the store's Logout is
// registered with it here.
func NewStore(st storage.Storage, backend API, opts ...StoreOption) *Store {
	cfg := &storeConfig{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Store{
		storage: st,
		backend: backend,
		logger:  cfg.logger,
	}

	if binder, ok := backend.(authBinder); ok {
		binder.OnAuthFailure(s.Logout)
	}
	return s
}

// Token returns the current token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user profile, or nil.
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Snapshot returns a consistent (token, user) pair.
func (s *Store) Snapshot() (string, *api.User) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.user
}

// SetToken sets or clears the token. The storage slot is written (or
// removed) first, then the in-memory field; an empty token clears both.
// No network call is made.
func (s *Store) SetToken(token string) {
	if token == "" {
		s.tryRemove(storage.TokenKey)
	} else {
		s.tryPersist(storage.TokenKey, token)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// SetUser sets or clears the user profile. Serialization and storage
// failures are swallowed: the in-memory field still updates and only
// persistence across restarts degrades. Callers are responsible for the
// session invariant — a user must not be set while no token is held.
func (s *Store) SetUser(user *api.User) {
	if user == nil {
		s.tryRemove(storage.UserKey)
	} else if data, err := json.Marshal(user); err != nil {
		s.logger.Warn("session: serialize user failed, persistence skipped", "error", err)
	} else {
		s.tryPersist(storage.UserKey, string(data))
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Login exchanges credentials for a session. On success both storage slots
// are written and then both in-memory fields are set together. On failure
// the error propagates unchanged and the store is left untouched — no
// partial write.
func (s *Store) Login(ctx context.Context, email, password string) error {
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}

	user := result.User
	s.tryPersist(storage.TokenKey, result.Token)
	if data, err := json.Marshal(&user); err != nil {
		s.logger.Warn("session: serialize user failed, persistence skipped", "error", err)
	} else {
		s.tryPersist(storage.UserKey, string(data))
	}

	s.mu.Lock()
	s.token = result.Token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("logged in", "user_id", user.ID, "role", user.Role)
	return nil
}

// Register creates a new account. Registration is not auto-login: session
// state is not touched on success or failure. A failure carries the
// backend-supplied message when present.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	return s.backend.Register(ctx, name, email, password)
}

// Restore reconstructs the session from storage. It is idempotent and safe
// to call with no token present.
//
// With no token slot, Restore returns immediately and performs no network
// call. Otherwise the in-memory token is set eagerly — it is observable
// before the profile resolves — and the profile is fetched from the backend.
// On success the user is set and the serialized-user slot refreshed. On any
// fetch failure Restore falls back to the cached user slot; if that too is
// missing or unparseable the user is left absent, yielding the transient
// state (token present, user absent), which never authorizes access.
//
// A 401 during the profile fetch tears the whole session down through the
// client's auth-failure hook before Restore resumes, so the fallback finds
// no cached slot and resurrects nothing.
//
// Known hazard: Restore called after a logout intended to be final will
// re-populate the token if storage still holds one. Callers own that
// sequencing; the store arbitrates by call order, last write wins.
func (s *Store) Restore(ctx context.Context) {
	token, ok := s.storage.Get(storage.TokenKey)
	if !ok || token == "" {
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.backend.Me(ctx)
	if err != nil {
		s.logger.Debug("profile fetch failed, falling back to cached profile", "error", err)
		user = s.cachedUser()
		if user == nil {
			return
		}
	} else if data, merr := json.Marshal(user); merr != nil {
		s.logger.Warn("session: serialize user failed, persistence skipped", "error", merr)
	} else {
		s.tryPersist(storage.UserKey, string(data))
	}

	s.mu.Lock()
	// The token may have been torn down while the fetch was in flight; a
	// user without a token must never become observable.
	if s.token != "" {
		s.user = user
	}
	s.mu.Unlock()
}

// Logout clears the session. Both storage slots are removed and both
// in-memory fields cleared. Safe to call repeatedly and from any state.
func (s *Store) Logout() {
	s.tryRemove(storage.TokenKey)
	s.tryRemove(storage.UserKey)

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.logger.Info("logged out")
}

// cachedUser reads and parses the serialized-user slot, or returns nil.
func (s *Store) cachedUser() *api.User {
	raw, ok := s.storage.Get(storage.UserKey)
	if !ok || raw == "" {
		return nil
	}

	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("session: cached profile unparseable, ignoring", "error", err)
		return nil
	}
	if user.ID == 0 {
		return nil
	}
	return &user
}

// tryPersist writes a storage slot, logging (not surfacing) failure.
func (s *Store) tryPersist(key, value string) {
	if err := s.storage.Set(key, value); err != nil {
		s.logger.Warn("session: persist failed, in-memory state remains authoritative",
			"slot", key,
			"error", err,
		)
	}
}

// tryRemove removes a storage slot, logging (not surfacing) failure.
func (s *Store) tryRemove(key string) {
	if err := s.storage.Remove(key); err != nil {
		s.logger.Warn("session: remove failed, in-memory state remains authoritative",
			"slot", key,
			"error", err,
		)
	}
}
