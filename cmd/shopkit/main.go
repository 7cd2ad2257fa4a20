package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopkit"
	"github.com/shopkit-dev/shopkit/pkg/storage"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// envConfig is the process configuration, read from the environment
// (after loading a .env file when one is present).
type envConfig struct {
	APIURL      string `env:"SHOPKIT_API_URL" envDefault:"http://localhost:8080"`
	StoragePath string `env:"SHOPKIT_STORAGE_PATH"`
	RedisAddr   string `env:"SHOPKIT_REDIS_ADDR"`
	RedisPrefix string `env:"SHOPKIT_REDIS_PREFIX" envDefault:"shopkit:storage:"`
	Debug       bool   `env:"SHOPKIT_DEBUG"`
}

func loadConfig() (envConfig, error) {
	// A missing .env is fine; explicit env vars always win.
	_ = godotenv.Load()

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// newApp wires the client stack from the environment. With a Redis address
// configured the session is shared through Redis; otherwise it lives in a
// local session file.
func newApp(cfg envConfig) (*shopkit.App, error) {
	appCfg := shopkit.Config{
		BaseURL:     cfg.APIURL,
		StoragePath: cfg.StoragePath,
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		appCfg.Storage = storage.NewRedisStorage(client, storage.WithRedisPrefix(cfg.RedisPrefix))
	}

	return shopkit.New(appCfg)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	rootCmd := &cobra.Command{
		Use:   "shopkit",
		Short: "Client for the storefront product catalog",
		Long: `Shopkit is a command-line client for the storefront/admin
product catalog.

The session (bearer token and user profile) persists across invocations in
a local session file, so you log in once and stay logged in until the
backend revokes the credential or you log out. Admin-only areas are gated
the same way the web client gates them: by role, after the persisted
session has been restored and verified.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		loginCmd(cfg),
		logoutCmd(cfg),
		registerCmd(cfg),
		whoamiCmd(cfg),
		productsCmd(cfg),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
