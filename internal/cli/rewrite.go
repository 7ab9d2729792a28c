package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KATT/sanitize-csvs/internal/config"
	"github.com/KATT/sanitize-csvs/internal/files/filesystem"
	"github.com/KATT/sanitize-csvs/internal/files/scanner"
	"github.com/KATT/sanitize-csvs/internal/services"
	"github.com/KATT/sanitize-csvs/internal/ui"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <input_dir> [output_dir]",
	Short: "Rewrite delimited files as canonical pipe-separated companions",
	Long: `Rewrite scans the input directory recursively and writes one companion
file per source file into the output directory, preserving the relative
layout.

Every line of a companion file has the same canonical shape: each field
wrapped in double quotes and joined with a single pipe.

  "first"|"second"|"third"

Fields are normalized the same way load normalizes them, and any double
quotes left inside a field are removed so the output needs no escaping.
Rows whose field count differs from the header are dropped with a
warning and counted in the end-of-run summary.

Arguments:
  input_dir     Directory scanned (recursively) for delimited files
  output_dir    Directory receiving the companions
                Falls back to $SANITIZE_OUTPUT, then rewrite.output
                in sanitize.yaml

Examples:
  # Rewrite ./exports into ./exports-clean
  sanitize-csvs rewrite ./exports ./exports-clean

  # Same, but the source files use a custom separator
  sanitize-csvs rewrite ./exports ./exports-clean --separator '~;~'

  # Output directory taken from sanitize.yaml rewrite.output
  sanitize-csvs rewrite ./exports`,
	Args: RequireRewriteDirs,
	RunE: runRewrite,
}

type rewriteFlagValues struct {
	separator string
	quote     string
	extension string
	plain     bool
}

var rewriteFlags rewriteFlagValues

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().StringVar(&rewriteFlags.separator, "separator", "",
		"Literal field separator token of the input files\n"+
			"Precedence: --separator > $SANITIZE_SEPARATOR > sanitize.yaml parse.separator > "+sanitize.DefaultSeparator)
	rewriteCmd.Flags().StringVar(&rewriteFlags.quote, "quote", "",
		"Quote character stripped once from each field boundary\n"+
			"Pass an empty string to disable quote stripping\n"+
			"Precedence: --quote > $SANITIZE_QUOTE > sanitize.yaml parse.quote > '\"'")
	rewriteCmd.Flags().StringVar(&rewriteFlags.extension, "ext", "",
		"File extension of the input files (matched case-insensitively)\n"+
			"Precedence: --ext > $SANITIZE_EXT > sanitize.yaml parse.extension > "+sanitize.DefaultExtension)
	rewriteCmd.Flags().BoolVar(&rewriteFlags.plain, "plain", false,
		"Force plain line progress instead of the live display")

	_ = rewriteCmd.RegisterFlagCompletionFunc("ext", completeExtensions)
	rewriteCmd.ValidArgsFunction = completeRewriteDirs
}

// buildRewriteConfig layers flags, environment, sanitize.yaml and
// defaults into the run configuration. The output directory comes from
// the second positional argument, falling back to rewrite.output in
// sanitize.yaml. Extracted for testability.
func buildRewriteConfig(cmd *cobra.Command, args []string, verbose bool) (sanitize.RewriteConfig, error) {
	inputDir := args[0]

	projectCfg, err := loadProjectConfig(inputDir)
	if err != nil {
		return sanitize.RewriteConfig{}, err
	}

	var parse config.ParseSettings
	var rewrite config.RewriteSettings
	if projectCfg != nil {
		parse = projectCfg.Parse
		rewrite = projectCfg.Rewrite
	}

	outputDir := envOrFile("SANITIZE_OUTPUT", rewrite.Output, "")
	if len(args) > 1 {
		outputDir = args[1]
	}
	if outputDir == "" {
		return sanitize.RewriteConfig{}, fmt.Errorf(
			"missing required argument: <output_dir>\n\n"+
				"Pass it on the command line, set $SANITIZE_OUTPUT, or set rewrite.output in %s\n\n"+
				"Usage: %s", config.ConfigFileName, cmd.UseLine())
	}

	return sanitize.RewriteConfig{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Separator: resolveSetting(cmd, "separator", rewriteFlags.separator, "SANITIZE_SEPARATOR", parse.Separator, sanitize.DefaultSeparator),
		Quote:     resolveSetting(cmd, "quote", rewriteFlags.quote, "SANITIZE_QUOTE", parse.Quote, sanitize.DefaultQuote),
		Extension: resolveSetting(cmd, "ext", rewriteFlags.extension, "SANITIZE_EXT", parse.Extension, sanitize.DefaultExtension),
		Verbose:   verbose,
	}, nil
}

func runRewrite(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildRewriteConfig(cmd, args, verbose)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	title := fmt.Sprintf("Rewriting %s into %s", cfg.InputDir, cfg.OutputDir)
	renderer, display := newRenderer(rewriteFlags.plain, verbose, title, cancel)
	logger := newRunLogger(verbose, display != nil)

	rewriter := services.NewRewriteService(
		scanner.NewScanner(cfg.Extension),
		filesystem.NewOSFileSystem(),
		renderer,
		logger,
	)

	if display != nil {
		display.Start()
	}
	summary, err := rewriter.Run(ctx, cfg)
	if display != nil {
		display.Stop()
	}
	if err != nil {
		return fmt.Errorf("rewrite failed: %w", err)
	}

	ui.NewSummaryWriter(os.Stdout).Write(summary)

	if ctx.Err() != nil {
		return fmt.Errorf("run cancelled before all files finished")
	}
	return nil
}
