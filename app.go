// Package shopkit wires the storefront client stack: persistent storage,
// the authenticated request client, and the session store, with route
// guards for role-gated areas.
//
// An App is created once per application root and threaded through by
// reference; there is no ambient global session. Construction also
// registers the session's teardown with the client's auth-failure hook, so
// a 401 anywhere clears the session without further wiring:
//
//	app, err := shopkit.New(shopkit.Config{BaseURL: "http://localhost:8080"})
//	if err != nil { ... }
//	defer app.Close()
//
//	app.Session.Restore(ctx)
//	g := app.Guard(api.RoleAdmin, nav)
package shopkit

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/shopkit-dev/shopkit/pkg/api"
	"github.com/shopkit-dev/shopkit/pkg/guard"
	"github.com/shopkit-dev/shopkit/pkg/session"
	"github.com/shopkit-dev/shopkit/pkg/storage"
)

// App is one wired client stack: storage, request client, session store.
type App struct {
	Storage storage.Storage
	Client  *api.Client
	Session *session.Store

	logger      *slog.Logger
	ownsStorage bool
}

// New creates and wires an App from cfg.
func New(cfg Config) (*App, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("shopkit: BaseURL is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := cfg.Storage
	ownsStorage := false
	if store == nil {
		path := cfg.StoragePath
		if path == "" {
			p, err := storage.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		fs, err := storage.NewFileStorage(path)
		if err != nil {
			return nil, err
		}
		store = fs
		ownsStorage = true
	}

	clientOpts := []api.ClientOption{api.WithLogger(logger)}
	if cfg.HTTPClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Metrics != nil {
		clientOpts = append(clientOpts, api.WithMetrics(cfg.Metrics))
	}
	client := api.NewClient(cfg.BaseURL, store, clientOpts...)

	sess := session.NewStore(store, client, session.WithLogger(logger))

	return &App{
		Storage:     store,
		Client:      client,
		Session:     sess,
		logger:      logger,
		ownsStorage: ownsStorage,
	}, nil
}

// Guard creates a route guard over the app's session for a role-gated area.
func (a *App) Guard(required api.Role, nav guard.Navigator, opts ...guard.Option) *guard.Guard {
	opts = append([]guard.Option{guard.WithGuardLogger(a.logger)}, opts...)
	return guard.New(a.Session, required, nav, opts...)
}

// Close releases resources the app owns. Storage supplied by the caller is
// the caller's to close.
func (a *App) Close() error {
	if a.ownsStorage {
		if closer, ok := a.Storage.(io.Closer); ok {
			return closer.Close()
		}
	}
	return nil
}
