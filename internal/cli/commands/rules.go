package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewRulesCommand creates the rules listing command.
func NewRulesCommand() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := newRegistry()
			rules := registry.All()
			if group != "" {
				rules = registry.ByGroup(group)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSEVERITY\tDESCRIPTION")
			for _, rule := range rules {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					rule.ID(), rule.Name(), rule.DefaultSeverity(), rule.Description())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d rule(s)\n", len(rules))
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Only list rules in this group")
	return cmd
}
