package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/logging"
)

// connectFunc opens one session from a parsed connection config.
type connectFunc func(ctx context.Context, cfg *pgx.ConnConfig) (datasource.Querier, error)

func connectPgx(ctx context.Context, cfg *pgx.ConnConfig) (datasource.Querier, error) {
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &connQuerier{conn: conn}, nil
}

// DB opens PostgreSQL catalog connections.
type DB struct {
	config  *Config
	logger  *zap.Logger
	connect connectFunc
}

// NewDB creates a PostgreSQL DB. If logger is nil, a no-op logger is used.
func NewDB(cfg *Config, logger *zap.Logger) *DB {
	if cfg == nil {
		cfg = &Config{SSLMode: DefaultSSLMode(), ApplicationName: DefaultApplicationName}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		config:  cfg,
		logger:  logger.Named("postgres"),
		connect: connectPgx,
	}
}

// OpenConnection connects eagerly: the returned Connection already holds an
// authenticated session.
func (d *DB) OpenConnection(ctx context.Context, coords datasource.Coordinates) (datasource.Connection, error) {
	const op = "postgres.OpenConnection"

	connCfg, err := pgx.ParseConfig(buildConnectionString(d.config, coords))
	if err != nil {
		// The parse error can echo the URL, so keep it out of the message.
		return nil, datasource.NewConnectivityError(op, "invalid connection parameters for "+coords.String(),
			errors.New(logging.SanitizeError(err)))
	}

	q, err := d.connect(ctx, connCfg)
	if err != nil {
		d.logger.Warn("Failed to connect",
			zap.String("target", coords.String()),
			zap.String("error", logging.SanitizeError(err)))
		return nil, mapConnectError(op, coords, err)
	}

	conn := newConnection(q, uuid.NewString(), coords, d.logger)
	d.logger.Info("Connection opened",
		zap.String("connection_id", conn.id),
		zap.String("target", coords.String()))
	return conn, nil
}

// mapConnectError classifies every connect failure as connectivity, including
// server errors such as a missing database.
func mapConnectError(op string, coords datasource.Coordinates, err error) error {
	return datasource.NewConnectivityError(op, "connect to "+coords.String(), err)
}

var _ datasource.DB = (*DB)(nil)
