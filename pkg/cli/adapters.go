package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

func newAdaptersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the database adapters compiled into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tNAME\tDESCRIPTION")
			for _, info := range datasource.RegisteredAdapters() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Type, info.DisplayName, info.Description)
			}
			return w.Flush()
		},
	}
}
