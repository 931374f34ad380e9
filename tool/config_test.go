package tool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chroma-ai/chroma-web/types"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default config to be written: %v", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9000\nbackendURL: http://file.example/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBackendURL, "http://env.example")
	t.Setenv(EnvMaxUploadMB, "10")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Port)
	}
	if cfg.BackendURL != "http://env.example" {
		t.Errorf("Expected env backend, got %q", cfg.BackendURL)
	}
	if cfg.MaxUploadMB != 10 {
		t.Errorf("Expected 10 MiB, got %d", cfg.MaxUploadMB)
	}
}

func TestLoadConfigBadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvPort, "eighty")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := DefaultConfig()
	ApplyFlags(&cfg, &types.Config{UsePort: 1234, UseAuthURL: "http://auth/", SkipNotify: true})
	if cfg.Port != 1234 || cfg.AuthURL != "http://auth" || cfg.NotifyWS {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestPreviewTTLCoversWorkspace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workspaceTTLMinutes: 90\npreviewTTLMinutes: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PreviewTTLMinutes != 90 {
		t.Errorf("Expected preview TTL raised to 90, got %d", cfg.PreviewTTLMinutes)
	}
	if def := DefaultConfig(); def.PreviewTTLMinutes < def.WorkspaceTTLMinutes {
		t.Errorf("default preview TTL %d is below the workspace TTL %d", def.PreviewTTLMinutes, def.WorkspaceTTLMinutes)
	}
}
