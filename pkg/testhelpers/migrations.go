package testhelpers

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed fixtures/*.sql
var fixtureFS embed.FS

// RunFixtureMigrations applies the embedded catalog fixture.
// It is idempotent: an up-to-date database is left untouched.
func RunFixtureMigrations(db *sql.DB, logger *zap.Logger) error {
	src, err := iofs.New(fixtureFS, "fixtures")
	if err != nil {
		return fmt.Errorf("failed to open fixture source: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Failed to close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("Failed to close migration database", zap.Error(dbErr))
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No fixture migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run fixture migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("Applied fixture migrations", zap.Uint("version", version))
	return nil
}
