package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KATT/sanitize-csvs/internal/config"
	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

var configCmd = &cobra.Command{
	Use:   "config [input_dir]",
	Short: "Show the effective configuration for a directory",
	Long: `Config resolves the settings a load or rewrite run would use for the
given directory and prints them as YAML.

Values come from the environment, then ` + config.ConfigFileName + ` in the
directory, then the built-in defaults. Flags passed to load or rewrite
would override all of these; this command shows the baseline beneath
them.

Examples:
  # Effective configuration for the current directory
  sanitize-csvs config

  # Effective configuration for a project directory
  sanitize-csvs config ./exports`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.ValidArgsFunction = completeSingleDir
}

func runConfig(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	projectCfg, err := loadProjectConfig(targetDir)
	if err != nil {
		return err
	}

	var fromFile config.ProjectConfig
	if projectCfg != nil {
		fromFile = *projectCfg
	}

	effective := config.ProjectConfig{
		Parse: config.ParseSettings{
			Separator: envOrFile("SANITIZE_SEPARATOR", fromFile.Parse.Separator, sanitize.DefaultSeparator),
			Quote:     envOrFile("SANITIZE_QUOTE", fromFile.Parse.Quote, sanitize.DefaultQuote),
			Extension: envOrFile("SANITIZE_EXT", fromFile.Parse.Extension, sanitize.DefaultExtension),
		},
		Load: config.LoadSettings{
			Store: envOrFile("SANITIZE_STORE", fromFile.Load.Store, sanitize.DefaultStorePath),
		},
		Rewrite: config.RewriteSettings{
			Output: envOrFile("SANITIZE_OUTPUT", fromFile.Rewrite.Output, ""),
		},
	}

	effective.Load.BatchSize, err = resolveBatchSize(cmd, "batch-size", 0, "SANITIZE_BATCH_SIZE", fromFile.Load.BatchSize)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(effective)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	fmt.Fprintf(os.Stdout, "# effective configuration for %s\n", targetDir)
	_, err = os.Stdout.Write(data)
	return err
}
