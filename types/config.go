package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Port                  int    `yaml:"port"`
	BackendURL            string `yaml:"backendURL"`            // colorization backend base URL
	AuthURL               string `yaml:"authURL"`               // login/signup backend base URL
	MaxUploadMB           int    `yaml:"maxUploadMB"`           // file intake size ceiling in MiB
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"` // per backend call
	WorkspaceTTLMinutes   int    `yaml:"workspaceTTLMinutes"`   // idle workspaces are torn down after this
	PreviewTTLMinutes     int    `yaml:"previewTTLMinutes"`     // upper bound on an unreleased preview
	RateLimitPerMinute    int    `yaml:"rateLimitPerMinute"`    // login/signup/submit per client, 0 disables
	SecureCookies         bool   `yaml:"secureCookies"`
	NotifyWS              bool   `yaml:"notifyWS"` // tab sync over websocket
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log            string
	UseConfigPath  string
	UsePort        int
	UseBackendURL  string
	UseAuthURL     string
	UseMaxUploadMB int
	SkipNotify     bool // if true, tab sync websocket is disabled.
}
