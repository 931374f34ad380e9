package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

func NewRootCmd() *cobra.Command {
	var flags *types.Config
	cmd := &cobra.Command{
		Use:   "chroma",
		Short: "Web frontend for the image colorization service",
		Long: `Chroma serves the colorization web UI: account login and signup, image upload
with local previews, colorization settings, and side by side results.

Colorization and authentication are delegated to the configured backends.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()
			tool.InitLogger()
			tool.SetLogMode(flags.Log)

			appCfg, err := tool.LoadConfig(flags.UseConfigPath)
			if err != nil {
				return err
			}
			tool.ApplyFlags(&appCfg, flags)
			return nil
		},
	}
	flags = tool.SetFlags(cmd)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newColorizeCmd())

	return cmd
}
