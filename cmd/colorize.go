package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/chroma-ai/chroma-web/intake"
	"github.com/chroma-ai/chroma-web/params"
	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/transfer"
	"github.com/chroma-ai/chroma-web/types"
	"github.com/chroma-ai/chroma-web/workspace"
)

func newColorizeCmd() *cobra.Command {
	var (
		model      string
		detail     float64
		intensity  float64
		hue        int
		saturation float64
		autoColor  bool
	)
	defaults := params.Defaults()

	cmd := &cobra.Command{
		Use:     "colorize <image>",
		Short:   "Colorize one image against the backend and print the result URLs",
		Example: `  chroma colorize grandma.jpg --model artistic --intensity 1.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := tool.GetCurrentConfig()
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			store := preview.NewStore(preview.DefaultTTL)
			ws := workspace.New("cli", store, cfg.MaxUploadMB)
			defer ws.Close()

			if _, err := ws.SelectFile(types.FileInput{
				FileName: filepath.Base(path),
				FileType: intake.ResolveType("", data),
				Size:     int64(len(data)),
				Data:     data,
			}); err != nil {
				var rej *intake.Rejection
				if errors.As(err, &rej) {
					return errors.New(rej.Reason)
				}
				return err
			}

			form := url.Values{}
			form.Set(types.FieldModelChoice, model)
			form.Set(params.DetailWidget.Field, strconv.FormatFloat(detail, 'f', -1, 64))
			form.Set(params.IntensityWidget.Field, strconv.FormatFloat(intensity, 'f', -1, 64))
			form.Set(params.HueWidget.Field, strconv.Itoa(hue))
			form.Set(params.SaturationWidget.Field, strconv.FormatFloat(saturation, 'f', -1, 64))
			form.Set(types.FieldAutoColorCorrect, strconv.FormatBool(autoColor))
			if err := ws.SetParams(params.ParseForm(form, ws.Params())); err != nil {
				return err
			}

			timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			client := transfer.NewColorizeClient(cfg.BackendURL, tool.NewHTTPClient(timeout))
			if err := ws.Submit(ctx, client); err != nil {
				return err
			}

			snap := ws.Snapshot()
			out := cmd.OutOrStdout()
			if snap.Error != "" {
				if snap.Warning != "" {
					fmt.Fprintf(out, "warning: %s\n", snap.Warning)
				}
				return errors.New(snap.Error)
			}
			if snap.Message != "" {
				fmt.Fprintln(out, snap.Message)
			}
			fmt.Fprintf(out, "original:  %s\n", tool.ResolveAgainst(cfg.BackendURL, snap.OriginalURL))
			fmt.Fprintf(out, "colorized: %s\n", tool.ResolveAgainst(cfg.BackendURL, snap.ColorizedURL))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&model, "model", string(defaults.ModelChoice), "colorization model: standard|artistic")
	f.Float64Var(&detail, "detail", defaults.DetailEnhancement, "detail enhancement")
	f.Float64Var(&intensity, "intensity", defaults.Intensity, "color intensity")
	f.IntVar(&hue, "hue", defaults.HueShift, "hue shift in degrees")
	f.Float64Var(&saturation, "saturation", defaults.SaturationScale, "saturation scale")
	f.BoolVar(&autoColor, "auto-color-correct", defaults.AutoColorCorrect, "apply automatic color correction")
	return cmd
}
