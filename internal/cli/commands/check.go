package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robocop-go/robocop/internal/config"
)

// CheckOptions holds the flags of the check command.
type CheckOptions struct {
	commonOptions
	Select        []string
	ExtendSelect  []string
	Ignore        []string
	Configure     []string
	Threshold     string
	Reports       []string
	ExitZero      bool
	TargetVersion string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Lint Robot Framework files",
		Long: `Analyze Robot Framework files for rule violations.

Each file is governed by the nearest config document above it; CLI flags
override config values. Unchanged files whose configuration has not changed
are restored from the result cache instead of being rechecked.`,
		Example: `  # Lint the current directory tree
  robocop check

  # Lint specific paths
  robocop check tests/ resources/common.resource

  # Select a rule family, drop one member
  robocop check --select 'LEN*' --ignore LEN03

  # Raise a rule's severity and tighten a parameter
  robocop check --configure LEN01.severity=E --configure LEN01.line_length=100

  # Only report errors
  robocop check --threshold error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}

	addCommonFlags(cmd, &opts.commonOptions)
	cmd.Flags().StringSliceVar(&opts.Select, "select", nil, "Rules or patterns to run")
	cmd.Flags().StringSliceVar(&opts.ExtendSelect, "extend-select", nil, "Rules to run in addition to the configured selection")
	cmd.Flags().StringSliceVar(&opts.Ignore, "ignore", nil, "Rules or patterns to skip")
	cmd.Flags().StringSliceVar(&opts.Configure, "configure", nil, "Rule parameter overrides (RULE.param=value)")
	cmd.Flags().StringVar(&opts.Threshold, "threshold", "", "Minimum severity: info, warning, error")
	cmd.Flags().StringSliceVar(&opts.Reports, "reports", nil, "Reports to produce after the run")
	cmd.Flags().BoolVar(&opts.ExitZero, "exit-zero", false, "Exit 0 even when issues are found")
	cmd.Flags().StringVar(&opts.TargetVersion, "target-version", "", "Robot Framework version to lint against")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions, args []string) error {
	frag := &config.Fragment{}
	applyCommonFlags(cmd, &opts.commonOptions, frag)
	if cmd.Flags().Changed("select") {
		frag.Lint.Select = opts.Select
	}
	if cmd.Flags().Changed("extend-select") {
		frag.Lint.ExtendSelect = opts.ExtendSelect
	}
	if cmd.Flags().Changed("ignore") {
		frag.Lint.Ignore = opts.Ignore
	}
	if cmd.Flags().Changed("configure") {
		frag.Lint.Configure = opts.Configure
	}
	if cmd.Flags().Changed("threshold") {
		frag.Lint.Threshold = &opts.Threshold
	}
	if cmd.Flags().Changed("reports") {
		frag.Lint.Reports = opts.Reports
	}
	if cmd.Flags().Changed("exit-zero") {
		frag.Lint.ExitZero = &opts.ExitZero
	}
	if cmd.Flags().Changed("target-version") {
		frag.TargetVersion = &opts.TargetVersion
	}

	registry := newRegistry()
	run, cwdConfig, err := buildRunner(&opts.commonOptions, frag, registry)
	if err != nil {
		return err
	}

	result, err := run.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, d := range result.Diagnostics {
		fmt.Fprintln(out, d.String())
	}
	fmt.Fprintf(out, "\nChecked %d file(s) (%d from cache, %d skipped): %d issue(s) found\n",
		result.FilesScanned+result.FilesCached, result.FilesCached, result.FilesSkipped,
		len(result.Diagnostics))

	// The resolved config already folds the --exit-zero flag in on top of
	// any exit_zero from config files.
	if len(result.Diagnostics) > 0 && !cwdConfig.Linter.ExitZero {
		return fmt.Errorf("found %d issue(s)", len(result.Diagnostics))
	}
	return nil
}
