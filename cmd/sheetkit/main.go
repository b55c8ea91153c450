// Command sheetkit runs the spreadsheet tools from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/seokit/internal/core"
	"github.com/JonMunkholm/seokit/internal/logging"
	"github.com/JonMunkholm/seokit/internal/pipeline"
)

func main() {
	// A .env file is optional; real env vars win.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:           "sheetkit",
		Short:         "Google Sheets tools: highlight rows by group and detect languages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), logLevel, logFormat)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", envOr("LOG_FORMAT", "text"), "Log format: text, json")

	root.AddCommand(newHighlightCmd(), newDetectCmd(), newPreviewCmd())
	return root
}

// stageLogger reports pipeline progress on the log.
func stageLogger() *core.Progress {
	return &core.Progress{
		Stage: func(e pipeline.Event) {
			switch e.Status {
			case pipeline.StatusRunning:
				slog.Info("stage started", "stage", e.Name)
			case pipeline.StatusDone:
				slog.Info("stage done", "stage", e.Name, "elapsed", e.Elapsed.String())
			case pipeline.StatusFailed:
				slog.Error("stage failed", "stage", e.Name, "error", e.Err)
			}
		},
	}
}

// readKey loads a service-account key file.
func readKey(path string) (core.Credentials, error) {
	if path == "" {
		path = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if path == "" {
		return core.Credentials{}, fmt.Errorf("%w: pass --key or set GOOGLE_APPLICATION_CREDENTIALS", core.ErrNoCredentials)
	}
	key, err := os.ReadFile(path)
	if err != nil {
		return core.Credentials{}, fmt.Errorf("read key: %w", err)
	}
	return core.Credentials{ServiceAccountKey: key}, nil
}

// describe prefers the mapped user message, with its support code, over
// the raw error.
func describe(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err) + " (" + err.Error() + ")"
	}
	return err.Error()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
