package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// knownExtensions contains common input file extensions for shell completion.
var knownExtensions = []string{".csv", ".txt", ".dat", ".psv", ".tsv"}

// completeExtensions provides shell completion for the --ext flag.
func completeExtensions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, ext := range knownExtensions {
		if strings.HasPrefix(ext, toComplete) {
			matches = append(matches, ext)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeSingleDir provides directory completion for the first
// positional argument only.
func completeSingleDir(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Let the shell handle directory completion
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeRewriteDirs provides directory completion for both rewrite
// positional arguments.
func completeRewriteDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Let the shell handle directory completion
	return nil, cobra.ShellCompDirectiveFilterDirs
}
