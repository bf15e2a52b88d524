package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/report"
)

func newRowsCommand(a *app) *cobra.Command {
	var schemas []string
	var format string
	var skipViolations bool

	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Count the rows of every table in one or more schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			list, err := a.schemas(schemas)
			if err != nil {
				return err
			}

			opts := report.Options{SkipContractViolations: a.cfg.Report.SkipContractViolations}
			if cmd.Flags().Changed("skip-violations") {
				opts.SkipContractViolations = skipViolations
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Report.Format
			}
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q", format)
			}

			return a.withConnection(cmd.Context(), func(conn datasource.Connection) error {
				r, err := report.CountRows(cmd.Context(), conn, list, opts)
				if err != nil {
					return err
				}

				if format == "yaml" {
					return report.WriteYAML(cmd.OutOrStdout(), r)
				}
				return report.WriteText(cmd.OutOrStdout(), r)
			})
		},
	}

	cmd.Flags().StringSliceVar(&schemas, "schema", nil, "Schema to count (repeatable or comma separated)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	cmd.Flags().BoolVar(&skipViolations, "skip-violations", false, "Skip tables whose catalog response has an unexpected shape")

	return cmd
}
