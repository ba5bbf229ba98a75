// Package cli provides the command-line interface for robocop.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/robocop-go/robocop/internal/cli/commands"
	"github.com/robocop-go/robocop/internal/version"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "robocop",
		Short: "Robocop - static analysis for Robot Framework",
		Long: `Robocop lints and formats Robot Framework files.

Configuration is discovered per file: the nearest robocop.toml,
.robocop.toml, or pyproject.toml (with a [tool.robocop] table) above the
file governs it, with extends chains and CLI flags merged on top. Results
are cached so unchanged files are not reprocessed.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewFormatCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}

// Main is the entry point used by cmd/robocop.
func Main() {
	os.Exit(Execute())
}
