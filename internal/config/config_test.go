package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := &AppConfig{
		ServerURL:       "http://localhost",
		Port:            5000,
		Username:        "user",
		Password:        "pass",
		RefreshInterval: 30,
	}
	if err := want.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := Load()
	if !os.IsNotExist(err) {
		t.Errorf("Load on missing file = %v, want os.IsNotExist", err)
	}
}

func TestSaveRestrictsPermissions(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &AppConfig{ServerURL: "http://nas", Port: 5001}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
	if filepath.Base(filepath.Dir(path)) != "dstui" {
		t.Errorf("config dir = %s, want dstui", filepath.Dir(path))
	}
}

func TestEndpoint(t *testing.T) {
	cfg := &AppConfig{ServerURL: "http://nas.local/", Port: 5000}
	if got := cfg.Endpoint(); got != "http://nas.local:5000" {
		t.Errorf("Endpoint = %q, want %q", got, "http://nas.local:5000")
	}
}
