package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KATT/sanitize-csvs/internal/config"
	"github.com/KATT/sanitize-csvs/internal/files/scanner"
	"github.com/KATT/sanitize-csvs/internal/services"
	"github.com/KATT/sanitize-csvs/internal/ui"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

var loadCmd = &cobra.Command{
	Use:   "load <input_dir>",
	Short: "Load delimited files into a fresh SQLite store",
	Long: `Load scans the input directory recursively for delimited files, creates
one table per file in a fresh SQLite store, and streams the normalized
rows into it.

The load command:
1. Deletes any existing store at the target path and creates a new one
2. Scans the input directory for files matching the extension
3. Runs one pipeline per file, all sharing the store
4. Creates each table from the file's header line (all columns TEXT)
5. Inserts rows in fixed-size batches; a rejected batch is dropped whole

Rows whose field count differs from the header and batches the store
rejects never stop the run; they are counted and itemized in the
end-of-run summary.

Arguments:
  input_dir    Directory scanned (recursively) for delimited files

Examples:
  # Load ./exports into ./sanitized.db with the default *|* separator
  sanitize-csvs load ./exports

  # Custom separator and store location
  sanitize-csvs load ./exports --separator '~;~' --store /tmp/cleaned.db

  # Uppercase .TXT exports, bigger batches, plain progress for CI logs
  sanitize-csvs load ./exports --ext .txt --batch-size 500 --plain`,
	Args: RequireInputDir,
	RunE: runLoad,
}

type loadFlagValues struct {
	store     string
	separator string
	quote     string
	extension string
	batchSize int
	plain     bool
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadFlags.store, "store", "",
		"Path of the SQLite store to (re)create\n"+
			"Precedence: --store > $SANITIZE_STORE > sanitize.yaml load.store > "+sanitize.DefaultStorePath)
	loadCmd.Flags().StringVar(&loadFlags.separator, "separator", "",
		"Literal field separator token, may be several characters\n"+
			"It always splits, even inside quoted fields\n"+
			"Precedence: --separator > $SANITIZE_SEPARATOR > sanitize.yaml parse.separator > "+sanitize.DefaultSeparator)
	loadCmd.Flags().StringVar(&loadFlags.quote, "quote", "",
		"Quote character stripped once from each field boundary\n"+
			"Pass an empty string to disable quote stripping\n"+
			"Precedence: --quote > $SANITIZE_QUOTE > sanitize.yaml parse.quote > '\"'")
	loadCmd.Flags().StringVar(&loadFlags.extension, "ext", "",
		"File extension of the input files (matched case-insensitively)\n"+
			"Precedence: --ext > $SANITIZE_EXT > sanitize.yaml parse.extension > "+sanitize.DefaultExtension)
	loadCmd.Flags().IntVar(&loadFlags.batchSize, "batch-size", 0,
		"Accepted rows per multi-row INSERT\n"+
			"Precedence: --batch-size > $SANITIZE_BATCH_SIZE > sanitize.yaml load.batch_size > 100")
	loadCmd.Flags().BoolVar(&loadFlags.plain, "plain", false,
		"Force plain line progress instead of the live display")

	_ = loadCmd.MarkFlagFilename("store", "db", "sqlite", "sqlite3")
	_ = loadCmd.RegisterFlagCompletionFunc("ext", completeExtensions)
	loadCmd.ValidArgsFunction = completeSingleDir
}

// buildLoadConfig layers flags, environment, sanitize.yaml and defaults
// into the run configuration. Extracted for testability.
func buildLoadConfig(cmd *cobra.Command, inputDir string, verbose bool) (sanitize.LoadConfig, error) {
	projectCfg, err := loadProjectConfig(inputDir)
	if err != nil {
		return sanitize.LoadConfig{}, err
	}

	var parse config.ParseSettings
	var load config.LoadSettings
	if projectCfg != nil {
		parse = projectCfg.Parse
		load = projectCfg.Load
	}

	cfg := sanitize.LoadConfig{
		InputDir:      inputDir,
		StorePath:     resolveSetting(cmd, "store", loadFlags.store, "SANITIZE_STORE", load.Store, sanitize.DefaultStorePath),
		Separator:     resolveSetting(cmd, "separator", loadFlags.separator, "SANITIZE_SEPARATOR", parse.Separator, sanitize.DefaultSeparator),
		Quote:         resolveSetting(cmd, "quote", loadFlags.quote, "SANITIZE_QUOTE", parse.Quote, sanitize.DefaultQuote),
		Extension:     resolveSetting(cmd, "ext", loadFlags.extension, "SANITIZE_EXT", parse.Extension, sanitize.DefaultExtension),
		Verbose:       verbose,
		PlainProgress: loadFlags.plain,
	}

	cfg.BatchSize, err = resolveBatchSize(cmd, "batch-size", loadFlags.batchSize, "SANITIZE_BATCH_SIZE", load.BatchSize)
	if err != nil {
		return sanitize.LoadConfig{}, err
	}

	return cfg, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	verbose := getVerboseFlag(cmd)

	cfg, err := buildLoadConfig(cmd, inputDir, verbose)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	title := fmt.Sprintf("Loading %s into %s", cfg.InputDir, cfg.StorePath)
	renderer, display := newRenderer(cfg.PlainProgress, verbose, title, cancel)
	logger := newRunLogger(verbose, display != nil)

	ingestor := services.NewIngestService(scanner.NewScanner(cfg.Extension), renderer, logger)

	if display != nil {
		display.Start()
	}
	summary, err := ingestor.Run(ctx, cfg)
	if display != nil {
		display.Stop()
	}
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	ui.NewSummaryWriter(os.Stdout).Write(summary)

	if ctx.Err() != nil {
		return fmt.Errorf("run cancelled before all files finished")
	}
	return nil
}
