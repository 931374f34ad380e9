package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/chroma-ai/chroma-web/api"
	"github.com/chroma-ai/chroma-web/tool"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web frontend",
		Example: `  # Serve on the configured port against a local backend
  chroma serve

  # Point at another backend
  chroma serve --backend http://gpu-box:5000 --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *tool.GetCurrentConfig()
			server := api.NewServer(cfg)

			sweepCtx, stopSweep := context.WithCancel(cmd.Context())
			defer stopSweep()
			go server.Registry().Run(sweepCtx, sweepInterval)

			serverErr := make(chan error, 1)
			go func() {
				serverErr <- server.Start()
			}()

			select {
			case <-cmd.Context().Done():
				tool.DefaultLogger.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					tool.DefaultLogger.Errorf("Server shutdown failed: %v", err)
					return err
				}
				tool.DefaultLogger.Info("Server stopped")
				return nil
			case err := <-serverErr:
				server.Registry().Close()
				return err
			}
		},
	}
}
