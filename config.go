package shopkit

import (
	"log/slog"
	"net/http"

	"github.com/shopkit-dev/shopkit/pkg/api"
	"github.com/shopkit-dev/shopkit/pkg/storage"
)

// Config is the main application configuration.
// This is the user-friendly entry point for wiring a Shopkit client.
type Config struct {
	// BaseURL is the storefront backend base URL. Required.
	BaseURL string

	// Storage is the persistent key-value backend for the session.
	// If nil, a file-backed storage at storage.DefaultPath() is used.
	Storage storage.Storage

	// StoragePath overrides the file location used when Storage is nil.
	StoragePath string

	// HTTPClient is the underlying HTTP client.
	// If nil, the api package default is used.
	HTTPClient *http.Client

	// Metrics attaches Prometheus request metrics to the client.
	// If nil, no metrics are recorded.
	Metrics *api.Metrics

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}
