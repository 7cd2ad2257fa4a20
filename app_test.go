package shopkit

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopkit-dev/shopkit/internal/stubserver"
	"github.com/shopkit-dev/shopkit/pkg/api"
	"github.com/shopkit-dev/shopkit/pkg/storage"
)

// TestNewRequiresBaseURL tests config validation.
func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New without BaseURL did not fail")
	}
}

// TestNewWiresAuthFailureTeardown tests that construction registers the
// session teardown with the client: a 401 through the client clears the
// session without further wiring.
func TestNewWiresAuthFailureTeardown(t *testing.T) {
	srv := httptest.NewServer(stubserver.New())
	defer srv.Close()

	store := storage.NewMemoryStorage()
	app, err := New(Config{BaseURL: srv.URL, Storage: store})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Close()

	// A token the stub backend will reject.
	app.Session.SetToken("forged-token")

	if _, err := app.Client.Me(context.Background()); err == nil {
		t.Fatal("Me with forged token did not fail")
	}

	if token, user := app.Session.Snapshot(); token != "" || user != nil {
		t.Errorf("session survived 401: (%q, %+v)", token, user)
	}
	if _, ok := store.Get(storage.TokenKey); ok {
		t.Error("token slot survived 401")
	}
}

// TestAppLoginAndGuard tests the wired stack end to end against the stub
// backend: login as admin, then an admin guard allows.
func TestAppLoginAndGuard(t *testing.T) {
	srv := httptest.NewServer(stubserver.New())
	defer srv.Close()

	app, err := New(Config{
		BaseURL:     srv.URL,
		StoragePath: filepath.Join(t.TempDir(), "session.json"),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Close()

	if err := app.Session.Login(context.Background(), stubserver.SeedAdminEmail, stubserver.SeedAdminPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	g := app.Guard(api.RoleAdmin, nil)
	g.Mount(context.Background())
	state, err := g.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if !state.Terminal() || !g.Allowed() {
		t.Errorf("state = %v, want Allowed", state)
	}
}
