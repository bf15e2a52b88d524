// Package cli implements the ekaya-dal command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/config"
	"github.com/ekaya-inc/ekaya-dal/pkg/logging"
)

// DefaultConfigFile is read when --config is not given and the file exists.
const DefaultConfigFile = "config.yaml"

// app carries the state shared by every subcommand.
type app struct {
	version    string
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the ekaya-dal root command with all subcommands.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	cmd := &cobra.Command{
		Use:           "ekaya-dal",
		Short:         "Inspect Oracle and PostgreSQL catalogs through one interface",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the YAML configuration file (default "+DefaultConfigFile+" when present)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	cmd.AddCommand(newAdaptersCommand())
	cmd.AddCommand(newTablesCommand(a))
	cmd.AddCommand(newRowsCommand(a))
	cmd.AddCommand(newDescribeCommand(a))
	cmd.AddCommand(newVersionCommand(a))

	return cmd
}

// load reads configuration and builds the logger once per process.
func (a *app) load() error {
	if a.cfg != nil {
		return nil
	}

	path := a.configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	cfg, err := config.Load(path, a.version)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// withConnection opens a connection from configuration, runs fn, and closes
// the connection on every exit path.
func (a *app) withConnection(ctx context.Context, fn func(conn datasource.Connection) error) (err error) {
	if err := a.load(); err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	src := a.cfg.Source
	conn, err := datasource.Open(ctx, src.Type, src.Settings(), src.Coordinates(), a.logger)
	if err != nil {
		return fmt.Errorf("open %s connection: %w", src.Type, err)
	}
	defer func() {
		if closeErr := conn.Close(context.WithoutCancel(ctx)); closeErr != nil {
			a.logger.Warn("Failed to close connection", zap.String("error", logging.SanitizeError(closeErr)))
			err = errors.Join(err, closeErr)
		}
	}()

	return fn(conn)
}

// schemas returns the --schema values, or the configured list.
func (a *app) schemas(flagValues []string) ([]string, error) {
	schemas := flagValues
	if len(schemas) == 0 {
		schemas = a.cfg.Report.Schemas
	}
	if datasource.NewSchemaList(schemas).Len() == 0 {
		return nil, fmt.Errorf("no schemas given: use --schema or report.schemas")
	}
	return schemas, nil
}
