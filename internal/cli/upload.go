package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dgm-demo/internal/container"
	"dgm-demo/internal/content"
	"dgm-demo/internal/domain/entity"
	"dgm-demo/internal/infrastructure/storage"
)

// cliSession сессия одиночной загрузки из командной строки
const cliSession int64 = 0

func newUploadCommand(opts *rootOptions) *cobra.Command {
	var outputDir string

	uploadCmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload one image and print the visualization results",
		Long: `Upload one image to the inference endpoint and wait for the result.

Remote results are printed as URLs. Binary results are written to the output
directory. The command exits with an error when the upload fails.`,
		Example: `  # Upload an image and write binary results to ./results
  dgm-demo upload cat.png

  # Use another output directory
  dgm-demo upload cat.png --out /tmp/dgm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.Validate(); err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = cfg.OutputDir
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			app := container.Build(cfg)
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.SessionService.OpenDemo(ctx, cliSession, cliSession); err != nil {
				return err
			}

			file := entity.NewSelectedFile(filepath.Base(path), "", data)
			done, err := app.DemoService.Upload(ctx, cliSession, cliSession, file)
			if err != nil {
				return err
			}

			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}

			state := app.DemoService.State(cliSession)
			out := cmd.OutOrStdout()

			switch {
			case state.HasError():
				return errors.New(content.ErrorLabel(state.Message))
			case state.ShowsPlaceholder():
				fmt.Fprintln(out, "No visualizations returned.")
				return nil
			}

			fmt.Fprintln(out, content.ResultsHeader+":")
			for i, ref := range state.Images {
				label := content.ResultLabel(i)
				if !ref.IsBlob() {
					fmt.Fprintf(out, "  %s: %s\n", label, ref.URI)
					continue
				}

				saved, err := storage.SaveBlob(app.Blobs, ref, outputDir, fmt.Sprintf("result-%d", i+1))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s: %s\n", label, saved)
			}
			return nil
		},
	}

	uploadCmd.Flags().StringVar(&outputDir, "out", "", "directory for binary results (default from config output_dir)")

	return uploadCmd
}
