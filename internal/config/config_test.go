package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DSN", "file:test?mode=memory")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRE", "2h")
	t.Setenv("FRONTEND_URL", "https://idcard.example.com/")

	cfg, errLoad := Load("")
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Fatalf("jwt secret = %q", cfg.JWT.Secret)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.JWT.Expiry != 2*time.Hour {
		t.Fatalf("expiry = %v, want 2h", cfg.JWT.Expiry)
	}
	if cfg.FrontendURL != "https://idcard.example.com" {
		t.Fatalf("frontend url = %q, trailing slash should be stripped", cfg.FrontendURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DSN", "file:test?mode=memory")

	cfg, errLoad := Load("")
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Port != 5000 {
		t.Fatalf("default port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.JWT.Expiry != 8*time.Hour {
		t.Fatalf("default expiry = %v, want 8h", cfg.JWT.Expiry)
	}
	if cfg.SMTP.Port != 587 {
		t.Fatalf("default smtp port = %d, want 587", cfg.SMTP.Port)
	}
	if cfg.Storage.Region != "us-east-1" {
		t.Fatalf("default region = %q", cfg.Storage.Region)
	}
	if cfg.FrontendURL != "http://localhost:5173" {
		t.Fatalf("default frontend url = %q", cfg.FrontendURL)
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9000
database:
  dsn: "file:fromfile?mode=memory"
jwt:
  secret: "file-secret"
  expiry: 1h
`)
	if errWrite := os.WriteFile(path, content, 0o600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	t.Setenv("JWT_SECRET", "env-wins")

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port = %d, want 9000 from file", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "env-wins" {
		t.Fatalf("secret = %q, env must override file", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiry != time.Hour {
		t.Fatalf("expiry = %v, want 1h from file", cfg.JWT.Expiry)
	}
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DSN", "file:test?mode=memory")

	if _, errLoad := Load(filepath.Join(t.TempDir(), "absent.yaml")); errLoad != nil {
		t.Fatalf("missing file should not fail load: %v", errLoad)
	}
}

func TestLoad_RequiredFields(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_DSN", "file:test?mode=memory")
	if _, errLoad := Load(""); errLoad == nil {
		t.Fatalf("missing jwt secret should fail load")
	}

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DSN", "")
	if _, errLoad := Load(""); errLoad == nil {
		t.Fatalf("missing database dsn should fail load")
	}
}
