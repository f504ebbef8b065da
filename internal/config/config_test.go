// ABOUTME: Tests for ShapeMentor configuration management.
// ABOUTME: Covers load, save, env overrides, defaults, factories, and path expansion.
package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/harperreed/shapementor/internal/lookup"
)

// isolate points XDG_CONFIG_HOME at a fresh directory and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "Postgres"}
	if got := cfg.GetBackend(); got != "postgres" {
		t.Errorf("GetBackend() = %q, want %q", got, "postgres")
	}
}

func TestGetDataDir(t *testing.T) {
	if got := (&Config{}).GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
	if got := (&Config{DataDir: "/tmp/shapementor-test"}).GetDataDir(); got != "/tmp/shapementor-test" {
		t.Errorf("GetDataDir() = %q", got)
	}

	home, _ := os.UserHomeDir()
	got := (&Config{DataDir: "~/sm-data"}).GetDataDir()
	if want := filepath.Join(home, "sm-data"); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/shapementor", filepath.Join(home, "data/shapementor")},
		{"data/shapementor", "data/shapementor"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetSessionTTL(t *testing.T) {
	ttl, err := (&Config{}).GetSessionTTL()
	if err != nil || ttl != 24*time.Hour {
		t.Errorf("default TTL = %v, %v", ttl, err)
	}

	ttl, err = (&Config{Session: SessionConfig{TTL: "90m"}}).GetSessionTTL()
	if err != nil || ttl != 90*time.Minute {
		t.Errorf("TTL = %v, %v", ttl, err)
	}

	for _, bad := range []string{"soon", "-1h", "0s"} {
		if _, err := (&Config{Session: SessionConfig{TTL: bad}}).GetSessionTTL(); err == nil {
			t.Errorf("expected error for ttl %q", bad)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := isolate(t)
	if got, want := GetConfigPath(), filepath.Join(dir, "shapementor", "config.json"); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}

	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.ListenAddr != ":8012" {
		t.Errorf("ListenAddr = %q, want :8012", cfg.ListenAddr)
	}
	if cfg.Session.Backend != "memory" || cfg.Session.TTL != "24h" || cfg.Session.CookieName != "shapementor_session" {
		t.Errorf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Reference.Backend != "memory" {
		t.Errorf("Reference.Backend = %q, want memory", cfg.Reference.Backend)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Backend:     "postgres",
		DatabaseURL: "postgres://localhost/shapementor",
		DataDir:     "/tmp/shapementor-data",
		Session:     SessionConfig{Backend: "redis", RedisAddr: "cache:6379", RedisDB: 2},
		Reference:   ReferenceConfig{Backend: "badger"},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Backend != "postgres" || loaded.DatabaseURL != cfg.DatabaseURL || loaded.DataDir != cfg.DataDir {
		t.Errorf("unexpected storage settings: %+v", loaded)
	}
	if loaded.Session.Backend != "redis" || loaded.Session.RedisAddr != "cache:6379" || loaded.Session.RedisDB != 2 {
		t.Errorf("unexpected session settings: %+v", loaded.Session)
	}
	// Unsaved keys keep their defaults.
	if loaded.Session.TTL != "24h" || loaded.ListenAddr != ":8012" {
		t.Errorf("defaults lost: ttl=%q listen=%q", loaded.Session.TTL, loaded.ListenAddr)
	}
	if loaded.Reference.Backend != "badger" {
		t.Errorf("Reference.Backend = %q", loaded.Reference.Backend)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	if err := (&Config{ListenAddr: ":9000"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv("SHAPEMENTOR_LISTEN_ADDR", ":9100")
	t.Setenv("SHAPEMENTOR_SESSION_BACKEND", "redis")
	t.Setenv("SHAPEMENTOR_SESSION_REDIS_DB", "3")
	t.Setenv("SHAPEMENTOR_LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ListenAddr != ":9100" {
		t.Errorf("ListenAddr = %q, want env override :9100", cfg.ListenAddr)
	}
	if cfg.Session.Backend != "redis" || cfg.Session.RedisDB != 3 {
		t.Errorf("unexpected session: %+v", cfg.Session)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "nonexistent"))

	if err := (&Config{Backend: "sqlite"}).Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nonexistent", "shapementor")); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "shapementor")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	dir := t.TempDir()
	repo, err := (&Config{DataDir: dir}).OpenStorage(context.Background())
	if err != nil {
		t.Fatalf("OpenStorage() failed: %v", err)
	}
	defer repo.Close()

	if repo.Backend() != "sqlite" {
		t.Errorf("Backend() = %q", repo.Backend())
	}
	if _, err := os.Stat(filepath.Join(dir, "shapementor.db")); os.IsNotExist(err) {
		t.Error("Expected shapementor.db to be created")
	}
}

func TestOpenStorageErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := (&Config{Backend: "invalid", DataDir: t.TempDir()}).OpenStorage(ctx); err == nil {
		t.Error("Expected error for invalid backend")
	}
	_, err := (&Config{Backend: "postgres"}).OpenStorage(ctx)
	if err == nil || !strings.Contains(err.Error(), "database_url") {
		t.Errorf("Expected database_url error, got %v", err)
	}
}

func TestOpenRates(t *testing.T) {
	svc, err := (&Config{}).OpenRates()
	if err != nil {
		t.Fatalf("OpenRates(memory) failed: %v", err)
	}
	if rate, ok, _ := svc.GetRate(lookup.Food, "apple"); !ok || rate != 0.37 {
		t.Errorf("apple = %v, %v", rate, ok)
	}

	cfg := &Config{DataDir: t.TempDir(), Reference: ReferenceConfig{Backend: "badger"}}
	svc, err = cfg.OpenRates()
	if err != nil {
		t.Fatalf("OpenRates(badger) failed: %v", err)
	}
	defer svc.Close()
	if _, err := os.Stat(cfg.GetReferenceDir()); err != nil {
		t.Errorf("reference dir missing: %v", err)
	}
	if rate, ok, _ := svc.GetRate(lookup.Exercise, "running"); !ok || rate != 606.0/60 {
		t.Errorf("running = %v, %v", rate, ok)
	}

	if _, err := (&Config{Reference: ReferenceConfig{Backend: "s3"}}).OpenRates(); err == nil {
		t.Error("Expected error for unknown reference backend")
	}
}

func TestOpenSessions(t *testing.T) {
	ctx := context.Background()

	store, err := (&Config{}).OpenSessions(ctx)
	if err != nil {
		t.Fatalf("OpenSessions(memory) failed: %v", err)
	}
	store.Close()

	mr := miniredis.RunT(t)
	cfg := &Config{Session: SessionConfig{Backend: "redis", RedisAddr: mr.Addr(), TTL: "1h"}}
	store, err = cfg.OpenSessions(ctx)
	if err != nil {
		t.Fatalf("OpenSessions(redis) failed: %v", err)
	}
	defer store.Close()

	token, err := store.Select(ctx, "", 4)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if id, err := store.UserID(ctx, token); err != nil || id != 4 {
		t.Errorf("UserID = %d, %v", id, err)
	}

	if _, err := (&Config{Session: SessionConfig{Backend: "memcached"}}).OpenSessions(ctx); err == nil {
		t.Error("Expected error for unknown session backend")
	}
	if _, err := (&Config{Session: SessionConfig{TTL: "later"}}).OpenSessions(ctx); err == nil {
		t.Error("Expected error for bad ttl")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&Config{LogLevel: "warn", LogFormat: "json"}).NewLogger(&buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected JSON warn line, got %s", out)
	}

	if _, err := (&Config{LogLevel: "loud"}).NewLogger(&buf); err == nil {
		t.Error("Expected error for bad log level")
	}
	if _, err := (&Config{LogFormat: "xml"}).NewLogger(&buf); err == nil {
		t.Error("Expected error for bad log format")
	}
}
