package cli

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.datamatch.io/engine/pkg/matcher"
)

// Directives builds the directives command, listing the built-in directive
// set in registration order.
func Directives(_ *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "directives",
		Short: "List the registered directives",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			registry := matcher.DefaultRegistry()
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Directive"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, name := range registry.DirectiveNames() {
				table.Append([]string{name})
			}
			table.Render()
		},
	}
}
