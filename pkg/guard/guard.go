package guard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopkit-dev/shopkit/pkg/api"
)

// Default redirect targets.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Navigator performs fire-and-forget navigation side effects.
// Navigate must not block; it is called at most once per mount.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc is a function adapter for Navigator.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Session is the session surface the guard needs.
// *session.Store satisfies it.
type Session interface {
	// Restore reconstructs the session from storage; it blocks until the
	// restore has settled, success or failure.
	Restore(ctx context.Context)

	// Snapshot returns a consistent (token, user) pair.
	Snapshot() (string, *api.User)

	// Logout clears the session. The guard calls it to self-heal a stale
	// token that resolved no profile.
	Logout()
}

// Guard gates one protected view on session state and a required role.
type Guard struct {
	session  Session
	required api.Role
	nav      Navigator
	logger   *slog.Logger

	loginPath string
	homePath  string

	mu      sync.Mutex
	state   State
	mounted bool
	gen     uint64
	settled chan struct{}
}

// Option configures Guard behavior.
type Option func(*guardConfig)

type guardConfig struct {
	logger    *slog.Logger
	loginPath string
	homePath  string
}

// WithGuardLogger sets the structured logger.
// Default: slog.Default().
func WithGuardLogger(logger *slog.Logger) Option {
	return func(c *guardConfig) {
		c.logger = logger
	}
}

// WithLoginPath overrides the login redirect target.
func WithLoginPath(path string) Option {
	return func(c *guardConfig) {
		c.loginPath = path
	}
}

// WithHomePath overrides the home redirect target.
func WithHomePath(path string) Option {
	return func(c *guardConfig) {
		c.homePath = path
	}
}

// New creates a guard over the given session requiring the given role.
// nav may be nil when no navigation side effect is wanted; the decision is
// still observable through State and Wait.
func New(sess Session, required api.Role, nav Navigator, opts ...Option) *Guard {
	cfg := &guardConfig{
		logger:    slog.Default(),
		loginPath: LoginPath,
		homePath:  HomePath,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Guard{
		session:   sess,
		required:  required,
		nav:       nav,
		logger:    cfg.logger,
		loginPath: cfg.loginPath,
		homePath:  cfg.homePath,
		state:     StateRestoring,
		settled:   make(chan struct{}),
	}
}

// Mount enters Restoring and starts the session restore. The terminal
// transition fires asynchronously once the restore settles; observe it
// through Wait or State. Mounting an already-mounted guard restarts it: the
// older restore's completion is discarded.
func (g *Guard) Mount(ctx context.Context) {
	g.mu.Lock()
	g.mounted = true
	g.gen++
	gen := g.gen
	g.state = StateRestoring
	g.settled = make(chan struct{})
	settled := g.settled
	g.mu.Unlock()

	go func() {
		g.session.Restore(ctx)
		g.settle(gen, settled)
	}()
}

// Unmount discards any in-flight restore completion: the state no longer
// changes and no navigation fires. A later Mount starts fresh.
func (g *Guard) Unmount() {
	g.mu.Lock()
	g.mounted = false
	g.mu.Unlock()
}

// State returns the guard's current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Allowed reports whether the guard has settled on Allowed.
func (g *Guard) Allowed() bool {
	return g.State() == StateAllowed
}

// Wait blocks until the current mount's restore has settled or ctx is done,
// and returns the state at that point. A guard whose restore hangs stays in
// Restoring until the context expires; there is no internal timeout.
func (g *Guard) Wait(ctx context.Context) (State, error) {
	g.mu.Lock()
	settled := g.settled
	g.mu.Unlock()

	select {
	case <-settled:
		return g.State(), nil
	case <-ctx.Done():
		return g.State(), ctx.Err()
	}
}

// settle takes the single terminal transition for a mount generation.
func (g *Guard) settle(gen uint64, settled chan struct{}) {
	token, user := g.session.Snapshot()
	decision := Decide(false, token, user, g.required)

	// A token that resolved no profile is never a valid session; clear it
	// so the next restore doesn't retry a credential the backend won't
	// honor anyway.
	selfHeal := token != "" && user == nil

	g.mu.Lock()
	if !g.mounted || gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.state = decision
	g.mu.Unlock()

	if selfHeal {
		g.session.Logout()
	}

	g.logger.Debug("guard settled",
		"state", decision.String(),
		"required_role", string(g.required),
	)

	if g.nav != nil {
		switch decision {
		case StateRedirectingToLogin:
			g.nav.Navigate(g.loginPath)
		case StateRedirectingToHome:
			g.nav.Navigate(g.homePath)
		}
	}

	close(settled)
}
