package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

// connQuerier adapts a single *pgx.Conn to datasource.Querier.
type connQuerier struct {
	conn *pgx.Conn
}

func (q *connQuerier) Query(ctx context.Context, sql string, args ...any) (datasource.Rows, error) {
	rows, err := q.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return &pgxRows{rows: rows}, nil
}

func (q *connQuerier) Close(ctx context.Context) error {
	return q.conn.Close(ctx)
}

// pgxRows wraps pgx.Rows to implement datasource.Rows.
type pgxRows struct {
	rows pgx.Rows
}

// Columns reports a failed query's error instead of an empty column list,
// since pgx can defer a server error until the rows are read.
func (r *pgxRows) Columns() ([]string, error) {
	fields := r.rows.FieldDescriptions()
	if len(fields) == 0 {
		if err := r.rows.Err(); err != nil {
			return nil, err
		}
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names, nil
}

func (r *pgxRows) Next() bool {
	return r.rows.Next()
}

func (r *pgxRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *pgxRows) Err() error {
	return r.rows.Err()
}

func (r *pgxRows) Close() {
	r.rows.Close()
}
