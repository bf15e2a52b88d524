package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

// mapError translates a pgx error into a datasource.Error.
// Server errors are query failures unless their SQLSTATE is in class 08
// (connection exception) or 28 (invalid authorization). Anything that never
// reached the server, such as a dropped socket, is a connectivity failure.
func mapError(op, msg string, err error) error {
	if err == nil {
		return nil
	}

	var dalErr *datasource.Error
	if errors.As(err, &dalErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "28") {
			return datasource.NewConnectivityError(op, msg, err)
		}
		return datasource.NewQueryError(op, msg, err)
	}

	return datasource.NewConnectivityError(op, msg, err)
}
