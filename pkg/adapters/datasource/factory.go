package datasource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-dal/pkg/apperrors"
)

// NewDB builds the DB registered under dsType.
func NewDB(dsType string, settings map[string]any, logger *zap.Logger) (DB, error) {
	factory := GetFactory(dsType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s (not compiled in)", apperrors.ErrUnsupportedDatasource, dsType)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := factory(settings, logger)
	if err != nil {
		return nil, fmt.Errorf("configure %s adapter: %w", dsType, err)
	}
	return db, nil
}

// Open selects the adapter for dsType and opens a connection with coords.
func Open(ctx context.Context, dsType string, settings map[string]any, coords Coordinates, logger *zap.Logger) (Connection, error) {
	db, err := NewDB(dsType, settings, logger)
	if err != nil {
		return nil, err
	}
	return db.OpenConnection(ctx, coords)
}
