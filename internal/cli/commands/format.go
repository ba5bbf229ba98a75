package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robocop-go/robocop/internal/config"
)

// FormatOptions holds the flags of the format command.
type FormatOptions struct {
	commonOptions
	Select     []string
	Configure  []string
	SpaceCount int
	LineLength int
	Separator  string
	LineEnding string
	Skip       []string
}

// NewFormatCommand creates the format command. It currently reports which
// files need formatting; the per-transform rewrites run downstream.
func NewFormatCommand() *cobra.Command {
	opts := &FormatOptions{}
	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Report Robot Framework files that need formatting",
		Example: `  # Check the whole tree
  robocop format

  # Enforce unix line endings
  robocop format --line-ending unix`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, opts, args)
		},
	}

	addCommonFlags(cmd, &opts.commonOptions)
	cmd.Flags().StringSliceVar(&opts.Select, "select", nil, "Transforms to run")
	cmd.Flags().StringSliceVar(&opts.Configure, "configure", nil, "Transform parameter overrides (TRANSFORM.param=value)")
	cmd.Flags().IntVar(&opts.SpaceCount, "space-count", 0, "Spaces between cells")
	cmd.Flags().IntVar(&opts.LineLength, "line-length", 0, "Maximum line length")
	cmd.Flags().StringVar(&opts.Separator, "separator", "", "Cell separator: space, tab")
	cmd.Flags().StringVar(&opts.LineEnding, "line-ending", "", "Line ending: native, unix, windows")
	cmd.Flags().StringSliceVar(&opts.Skip, "skip", nil, "Formatting steps to skip")

	return cmd
}

func runFormat(cmd *cobra.Command, opts *FormatOptions, args []string) error {
	frag := &config.Fragment{}
	applyCommonFlags(cmd, &opts.commonOptions, frag)
	if cmd.Flags().Changed("select") {
		frag.Format.Select = opts.Select
	}
	if cmd.Flags().Changed("configure") {
		frag.Format.Configure = opts.Configure
	}
	if cmd.Flags().Changed("space-count") {
		frag.Format.SpaceCount = &opts.SpaceCount
	}
	if cmd.Flags().Changed("line-length") {
		frag.Format.LineLength = &opts.LineLength
	}
	if cmd.Flags().Changed("separator") {
		frag.Format.Separator = &opts.Separator
	}
	if cmd.Flags().Changed("line-ending") {
		frag.Format.LineEnding = &opts.LineEnding
	}
	if cmd.Flags().Changed("skip") {
		frag.Format.Skip = opts.Skip
	}

	registry := newRegistry()
	run, _, err := buildRunner(&opts.commonOptions, frag, registry)
	if err != nil {
		return err
	}

	result, err := run.RunFormatCheck(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range result.NeedsFormatting {
		fmt.Fprintf(out, "would reformat %s\n", path)
	}
	fmt.Fprintf(out, "\nChecked %d file(s) (%d from cache, %d skipped): %d need formatting\n",
		result.FilesScanned+result.FilesCached, result.FilesCached, result.FilesSkipped,
		len(result.NeedsFormatting))

	if len(result.NeedsFormatting) > 0 {
		return fmt.Errorf("%d file(s) need formatting", len(result.NeedsFormatting))
	}
	return nil
}
