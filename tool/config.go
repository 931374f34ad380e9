package tool

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chroma-ai/chroma-web/types"
)

const (
	EnvBackendURL  = "CHROMA_BACKEND_URL"
	EnvAuthURL     = "CHROMA_AUTH_URL"
	EnvPort        = "CHROMA_PORT"
	EnvMaxUploadMB = "CHROMA_MAX_UPLOAD_MB"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig = DefaultConfig()
)

// DefaultConfig is what a fresh config.yaml is written with.
func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		Port:                  8080,
		BackendURL:            "http://127.0.0.1:5000",
		AuthURL:               "http://127.0.0.1:5000",
		MaxUploadMB:           50,
		RequestTimeoutSeconds: 60,
		WorkspaceTTLMinutes:   60,
		PreviewTTLMinutes:     60,
		RateLimitPerMinute:    30,
		SecureCookies:         false,
		NotifyWS:              true,
	}
}

// LoadConfig reads path (or ConfigPath), writing the defaults there when the file is missing.
// CHROMA_* environment variables are applied on top.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
			DefaultLogger.Warnf("[Config] config file not found, and failed to generate default config: %v", writeErr)
		} else {
			DefaultLogger.Infof("[Config] Created new config file at %s", path)
		}
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	case info.IsDir():
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	normalize(&cfg)
	CurrentConfig = cfg
	return cfg, nil
}

func applyEnv(cfg *types.AppConfig) error {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.BackendURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAuthURL)); v != "" {
		cfg.AuthURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %v", EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxUploadMB)); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %v", EnvMaxUploadMB, v, err)
		}
		cfg.MaxUploadMB = mb
	}
	return nil
}

// normalize replaces zero or negative values with defaults.
func normalize(cfg *types.AppConfig) {
	def := DefaultConfig()
	if cfg.Port <= 0 {
		cfg.Port = def.Port
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = def.MaxUploadMB
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	if cfg.WorkspaceTTLMinutes <= 0 {
		cfg.WorkspaceTTLMinutes = def.WorkspaceTTLMinutes
	}
	if cfg.PreviewTTLMinutes <= 0 {
		cfg.PreviewTTLMinutes = def.PreviewTTLMinutes
	}
	// a selected file must not lose its preview while its workspace is alive
	if cfg.PreviewTTLMinutes < cfg.WorkspaceTTLMinutes {
		cfg.PreviewTTLMinutes = cfg.WorkspaceTTLMinutes
	}
	if cfg.RateLimitPerMinute < 0 {
		cfg.RateLimitPerMinute = 0
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	cfg.AuthURL = strings.TrimRight(cfg.AuthURL, "/")
}

// ApplyFlags merges CLI overrides into cfg. Flags win over env and file.
func ApplyFlags(cfg *types.AppConfig, flags *types.Config) {
	if flags == nil {
		return
	}
	if flags.UsePort > 0 {
		cfg.Port = flags.UsePort
	}
	if flags.UseBackendURL != "" {
		cfg.BackendURL = strings.TrimRight(flags.UseBackendURL, "/")
	}
	if flags.UseAuthURL != "" {
		cfg.AuthURL = strings.TrimRight(flags.UseAuthURL, "/")
	}
	if flags.UseMaxUploadMB > 0 {
		cfg.MaxUploadMB = flags.UseMaxUploadMB
	}
	if flags.SkipNotify {
		cfg.NotifyWS = false
	}
	CurrentConfig = *cfg
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
