package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KATT/sanitize-csvs/internal/config"
	"github.com/KATT/sanitize-csvs/internal/logging"
	"github.com/KATT/sanitize-csvs/internal/progress"
	"github.com/KATT/sanitize-csvs/internal/tui"
	"github.com/KATT/sanitize-csvs/internal/ui"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// loadProjectConfig loads godotenv and the per-directory configuration.
// Returns nil config if sanitize.yaml does not exist (not an error).
func loadProjectConfig(inputDir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := config.Load(inputDir)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil // Config file not found is not an error
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// resolveSetting layers one string setting.
// Precedence: flag (when explicitly set, even to "") > environment
// variable > sanitize.yaml > built-in default.
func resolveSetting(cmd *cobra.Command, flagName, flagValue, envKey, fileValue, fallback string) string {
	if cmd.Flags().Changed(flagName) {
		return flagValue
	}
	return envOrFile(envKey, fileValue, fallback)
}

// envOrFile layers a setting that has no flag on the current command.
func envOrFile(envKey, fileValue, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return fallback
}

// resolveBatchSize layers the batch size the same way, parsing the
// environment variable when present.
func resolveBatchSize(cmd *cobra.Command, flagName string, flagValue int, envKey string, fileValue int) (int, error) {
	if cmd.Flags().Changed(flagName) {
		return flagValue, nil
	}
	if v := os.Getenv(envKey); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer, got %q", sanitize.ErrInvalidConfig, envKey, v)
		}
		return n, nil
	}
	if fileValue != 0 {
		return fileValue, nil
	}
	return sanitize.DefaultBatchSize, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM so a run
// stops between suspension points instead of dying mid-write.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupt received, cancelling run...")
		cancel()
	}()

	return ctx, cancel
}

// newRenderer picks the progress renderer for this run. The live display
// needs an interactive terminal and quiet logs, so --plain, --verbose
// and non-terminal output all fall back to plain line progress. The
// returned Display is nil in the plain case.
func newRenderer(plain, verbose bool, title string, cancel func()) (progress.Renderer, *tui.Display) {
	if plain || verbose || !tui.IsInteractive() {
		return ui.NewPlainRenderer(os.Stdout), nil
	}
	display := tui.NewDisplay(title, cancel)
	return display, display
}

// newRunLogger builds the logger for a run. While the live display owns
// the terminal, log lines would tear its frames, so they are dropped;
// the summary still itemizes every fault afterwards.
func newRunLogger(verbose, liveDisplay bool) sanitize.Logger {
	if liveDisplay {
		return logging.NewConsoleLoggerTo(io.Discard, false)
	}
	return logging.NewConsoleLogger(verbose)
}
