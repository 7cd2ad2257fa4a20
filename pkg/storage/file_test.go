package storage

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFileStorageRoundTrip tests set/get/remove with the file backend.
func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}

	if err := s.Set("auth_token", "tok-123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok := s.Get("auth_token")
	if !ok || v != "tok-123" {
		t.Errorf("Get = (%q, %v), want (\"tok-123\", true)", v, ok)
	}

	if err := s.Remove("auth_token"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := s.Get("auth_token"); ok {
		t.Error("value still present after Remove")
	}
}

// TestFileStorageSurvivesReopen tests that values persist across instances,
// the reload-survival property the session depends on.
func TestFileStorageSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s1, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	if err := s1.Set("auth_token", "tok-123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s1.Set("auth_user", `{"id":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	s2, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if v, ok := s2.Get("auth_token"); !ok || v != "tok-123" {
		t.Errorf("token after reopen = (%q, %v), want (\"tok-123\", true)", v, ok)
	}
	if v, ok := s2.Get("auth_user"); !ok || v != `{"id":1}` {
		t.Errorf("user after reopen = (%q, %v)", v, ok)
	}
}

// TestFileStorageMissingFile tests that a missing file is empty storage.
func TestFileStorageMissingFile(t *testing.T) {
	s, err := NewFileStorage(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	if _, ok := s.Get("auth_token"); ok {
		t.Error("missing file produced a value")
	}
}

// TestFileStorageCorruptFile tests that unparseable files fail at open.
func TestFileStorageCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := NewFileStorage(path); err == nil {
		t.Error("NewFileStorage on corrupt file did not fail")
	}
}

// TestFileStorageCreatesParentDir tests that nested paths are created.
func TestFileStorageCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	s, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("storage file not written: %v", err)
	}
}

// TestFileStorageFileMode tests the permission option.
func TestFileStorageFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewFileStorage(path, WithFileMode(0o644))
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("file mode = %v, want 0644", info.Mode().Perm())
	}
}
