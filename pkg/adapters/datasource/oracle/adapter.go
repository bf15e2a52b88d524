package oracle

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/logging"
)

// DB opens Oracle catalog connections.
type DB struct {
	config  *Config
	logger  *zap.Logger
	connect func(ctx context.Context, dsn string) (datasource.Querier, error)
}

// NewDB creates an Oracle DB. If logger is nil, a no-op logger is used.
func NewDB(cfg *Config, logger *zap.Logger) *DB {
	if cfg == nil {
		cfg = &Config{ConnectMode: ConnectSID, CatalogScope: ScopeDBA}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		config:  cfg,
		logger:  logger.Named("oracle"),
		connect: openSession,
	}
}

// OpenConnection authenticates one session. Failures are never retried.
func (d *DB) OpenConnection(ctx context.Context, coords datasource.Coordinates) (datasource.Connection, error) {
	const op = "oracle.OpenConnection"

	q, err := d.connect(ctx, connectionURL(d.config, coords))
	if err != nil {
		d.logger.Warn("Failed to connect",
			zap.String("target", coords.String()),
			zap.String("connect_mode", string(d.config.ConnectMode)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, datasource.NewConnectivityError(op, "connect to "+coords.String(), err)
	}

	conn := newConnection(q, d.config, uuid.NewString(), coords, d.logger)
	d.logger.Info("Connection opened",
		zap.String("connection_id", conn.id),
		zap.String("target", coords.String()))
	return conn, nil
}

var _ datasource.DB = (*DB)(nil)
