package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/report"
)

func newTablesCommand(a *app) *cobra.Command {
	var schemas []string
	var format string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables of one or more schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			list, err := a.schemas(schemas)
			if err != nil {
				return err
			}

			return a.withConnection(cmd.Context(), func(conn datasource.Connection) error {
				tables, err := conn.GetSchemaTables(cmd.Context(), list)
				if err != nil {
					return err
				}
				if format == "yaml" {
					return report.WriteYAML(cmd.OutOrStdout(), tables)
				}
				for _, t := range tables {
					fmt.Fprintln(cmd.OutOrStdout(), t.Key())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&schemas, "schema", nil, "Schema to inspect (repeatable or comma separated)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")

	return cmd
}
