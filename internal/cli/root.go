package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// asciiLogo is printed by the root help and the version command.
const asciiLogo = `
┌──────────────────────────────────────┐
│ sanitize-csvs                        │
│ odd separators in, clean tables out  │
└──────────────────────────────────────┘`

var rootCmd = &cobra.Command{
	Use:   "sanitize-csvs",
	Short: "Streaming sanitizer and loader for oddly delimited text files",
	Long: asciiLogo + `

sanitize-csvs ingests delimited text files that standard CSV tooling
chokes on: multi-character separators such as *|* that split fields even
inside quotes. Each file is normalized line by line and loaded into its
own table of a throwaway SQLite store, or rewritten as a canonical
pipe-delimited companion file.

The first line of every file is its header and becomes the table schema.
Malformed rows and rejected batches are dropped, counted, and itemized
in the end-of-run summary instead of stopping the run.

Exit Codes:
  0  - Run completed (per-file faults are reported, not fatal)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Output store could not be opened or reset
  12 - Input directory could not be read`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for sanitize-csvs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
