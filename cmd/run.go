package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"retrato/internal/app"
)

var (
	runNoTUI     bool
	runDebug     bool
	runConfigDir string
	runHeight    string
	runPhoto     string
	runCamera    bool
	runFormat    string
	runTest      bool
)

// runCmd starts a wizard session, interactive by default.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the portrait wizard",
	Long: `Starts the portrait wizard. It can run in two modes:

1. Interactive TUI Mode (default):
   - Walks the sitter through intro, height, photo and result screens.
   - Photos come from the camera (s) or from an image file (o).
   - Press n on the result screen to start the next portrait.

2. Non-TUI / CLI Mode (using --no-tui flag):
   - Runs one unattended session from the flags, printing each step.
   - Requires --height and one of --photo or --camera.

Configuration:
  retrato loads configuration from .retrato/config.yaml in the current directory
  or ~/.config/retrato/config.yaml. Use --config to read a single directory instead.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(runNoTUI, runDebug, runConfigDir)
	cfg.Version = rootCmd.Version
	cfg.Height = runHeight
	cfg.PhotoPath = runPhoto
	cfg.UseCamera = runCamera
	cfg.Format = runFormat
	cfg.TestPrint = runTest

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runNoTUI, "no-tui", false, "Run one unattended session instead of the TUI")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "Enable debug logging")
	runCmd.Flags().StringVar(&runConfigDir, "config", "", "Directory containing config.yaml")
	runCmd.Flags().StringVar(&runHeight, "height", "", "Sitter height in centimetres (CLI mode)")
	runCmd.Flags().StringVar(&runPhoto, "photo", "", "Image file to use as the photo (CLI mode)")
	runCmd.Flags().BoolVar(&runCamera, "camera", false, "Take the photo with the camera (CLI mode)")
	runCmd.Flags().StringVar(&runFormat, "format", "", "Print format name, overriding wizard.defaultFormat")
	runCmd.Flags().BoolVar(&runTest, "test", false, "Enable the test print step and request a test print (CLI mode)")
}
