package oracle

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/sijms/go-ora/v2" // registers the "oracle" database/sql driver

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

// sessionQuerier pins one *sql.Conn so every query runs on the same session.
type sessionQuerier struct {
	db   *sql.DB
	conn *sql.Conn
}

func openSession(ctx context.Context, dsn string) (datasource.Querier, error) {
	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, err
	}
	return &sessionQuerier{db: db, conn: conn}, nil
}

func (q *sessionQuerier) Query(ctx context.Context, query string, args ...any) (datasource.Rows, error) {
	rows, err := q.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows}, nil
}

func (q *sessionQuerier) Close(context.Context) error {
	return errors.Join(q.conn.Close(), q.db.Close())
}

// sqlRows wraps *sql.Rows to implement datasource.Rows.
type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *sqlRows) Next() bool                 { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *sqlRows) Err() error                 { return r.rows.Err() }
func (r *sqlRows) Close()                     { _ = r.rows.Close() }
