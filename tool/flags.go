package tool

import (
	"github.com/spf13/cobra"

	"github.com/chroma-ai/chroma-web/types"
)

// SetFlags binds the CLI overrides onto cmd's persistent flags.
func SetFlags(cmd *cobra.Command) *types.Config {
	cfg := &types.Config{}
	f := cmd.PersistentFlags()
	f.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	f.StringVar(&cfg.UseConfigPath, "config", "", "override config file path")
	f.IntVar(&cfg.UsePort, "port", 0, "override listen port")
	f.StringVar(&cfg.UseBackendURL, "backend", "", "override colorization backend base URL")
	f.StringVar(&cfg.UseAuthURL, "auth", "", "override auth backend base URL")
	f.IntVar(&cfg.UseMaxUploadMB, "max-upload-mb", 0, "override upload size limit in MiB")
	f.BoolVar(&cfg.SkipNotify, "no-notify", false, "disable tab sync websocket")
	return cfg
}
