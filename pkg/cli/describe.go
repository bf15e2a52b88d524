package cli

import (
	"github.com/spf13/cobra"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/report"
)

func newDescribeCommand(a *app) *cobra.Command {
	var schemas []string
	var skipViolations bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print columns, constraints and row counts as YAML",
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

			return a.withConnection(cmd.Context(), func(conn datasource.Connection) error {
				snap, err := report.Describe(cmd.Context(), conn, list, opts)
				if err != nil {
					return err
				}
				return report.WriteYAML(cmd.OutOrStdout(), snap)
			})
		},
	}

	cmd.Flags().StringSliceVar(&schemas, "schema", nil, "Schema to describe (repeatable or comma separated)")
	cmd.Flags().BoolVar(&skipViolations, "skip-violations", false, "Skip tables whose catalog response has an unexpected shape")

	return cmd
}
