package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsAndFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "service_key: deadbeef\nrelay_urls:\n  - wss://relay.example.com\nslack_channel_id: C123\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("write fixture config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServiceKey != "deadbeef" {
		t.Errorf("ServiceKey = %q, want %q", cfg.ServiceKey, "deadbeef")
	}
	if len(cfg.RelayURLs) != 1 || cfg.RelayURLs[0] != "wss://relay.example.com" {
		t.Errorf("RelayURLs = %v, want [wss://relay.example.com]", cfg.RelayURLs)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want default :8080", cfg.HTTPAddr)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("service_key: fromfile\nrelay_urls:\n  - wss://a\n"), 0o600); err != nil {
		t.Fatalf("write fixture config: %v", err)
	}

	os.Setenv("SERVICE_KEY", "fromenv")
	os.Setenv("RELAY_URLS", "wss://b, wss://c")
	defer os.Unsetenv("SERVICE_KEY")
	defer os.Unsetenv("RELAY_URLS")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServiceKey != "fromenv" {
		t.Errorf("ServiceKey = %q, want env override %q", cfg.ServiceKey, "fromenv")
	}
	if len(cfg.RelayURLs) != 2 || cfg.RelayURLs[0] != "wss://b" || cfg.RelayURLs[1] != "wss://c" {
		t.Errorf("RelayURLs = %v, want [wss://b wss://c]", cfg.RelayURLs)
	}
}

func TestLoad_MissingServiceKeyErrors(t *testing.T) {
	os.Unsetenv("SERVICE_KEY")
	os.Unsetenv("RELAY_URLS")

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected error when no service_key is configured, got nil")
	}
}
