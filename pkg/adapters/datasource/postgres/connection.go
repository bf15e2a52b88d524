package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-dal/pkg/logging"
	"github.com/ekaya-inc/ekaya-dal/pkg/sqlguard"
)

// Physical partitions are catalog entries of their own. Only the partitioned
// parent (relkind 'p') and ordinary tables (relkind 'r') that are not
// themselves partitions are reported.
const schemaTablesQuery = `
	SELECT n.nspname::text, c.relname::text
	FROM pg_catalog.pg_class c
	JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
	WHERE c.relkind = 'p'
	  AND NOT c.relispartition
	  AND n.nspname = ANY($1)
	UNION
	SELECT n.nspname::text, c.relname::text
	FROM pg_catalog.pg_class c
	JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
	WHERE c.relkind = 'r'
	  AND NOT c.relispartition
	  AND n.nspname = ANY($1)
	ORDER BY 1, 2
`

const tableColumnsQuery = `
	SELECT
		column_name::text,
		data_type::text,
		is_nullable::text,
		character_maximum_length::int
	FROM information_schema.columns
	WHERE table_schema = $1 AND table_name = $2
	ORDER BY ordinal_position
`

const constraintsQuery = `
	SELECT con.conname::text, con.contype::text
	FROM pg_catalog.pg_constraint con
	JOIN pg_catalog.pg_class rel ON rel.oid = con.conrelid
	JOIN pg_catalog.pg_namespace nsp ON nsp.oid = rel.relnamespace
	WHERE nsp.nspname = $1
	  AND rel.relname = $2
	  AND con.contype IN ('u', 'p', 'f')
	ORDER BY con.oid
`

// Connection is one PostgreSQL session. Operations are serialized.
type Connection struct {
	mu     sync.Mutex
	q      datasource.Querier
	id     string
	coords datasource.Coordinates
	logger *zap.Logger
	closed bool
}

func newConnection(q datasource.Querier, id string, coords datasource.Coordinates, logger *zap.Logger) *Connection {
	return &Connection{
		q:      q,
		id:     id,
		coords: coords,
		logger: logger.With(zap.String("connection_id", id)),
	}
}

// query runs sql and maps a failure to a datasource.Error. The caller holds c.mu.
func (c *Connection) query(ctx context.Context, op, sql string, args ...any) (datasource.Rows, error) {
	if c.closed {
		return nil, datasource.NewConnectivityError(op, "connection is closed", apperrors.ErrConnectionClosed)
	}
	c.logger.Debug("Catalog query",
		zap.String("op", op),
		zap.String("sql", logging.SanitizeQuery(sql)))

	rows, err := c.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(op, "query failed", err)
	}
	return rows, nil
}

// GetSchemaTables lists partitioned parents and ordinary tables in schemas.
func (c *Connection) GetSchemaTables(ctx context.Context, schemas []string) ([]datasource.SchemaTableInfo, error) {
	const op = "postgres.GetSchemaTables"

	c.mu.Lock()
	defer c.mu.Unlock()

	list := datasource.NewSchemaList(schemas)
	if list.Len() == 0 {
		if c.closed {
			return nil, datasource.NewConnectivityError(op, "connection is closed", apperrors.ErrConnectionClosed)
		}
		return []datasource.SchemaTableInfo{}, nil
	}

	rows, err := c.query(ctx, op, schemaTablesQuery, list.Names())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := datasource.ExpectColumns(op, rows, 2); err != nil {
		return nil, mapError(op, "read result columns", err)
	}

	tables := []datasource.SchemaTableInfo{}
	for rows.Next() {
		var t datasource.SchemaTableInfo
		if err := rows.Scan(&t.Schema, &t.Table); err != nil {
			return nil, datasource.NewContractViolation(op, "decode table row: %v", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "iterate tables", err)
	}

	return datasource.SortSchemaTables(tables), nil
}

// GetTableColumns returns the columns of schema.table in ordinal order.
func (c *Connection) GetTableColumns(ctx context.Context, schema, table string) ([]datasource.TableColumnInfo, error) {
	const op = "postgres.GetTableColumns"

	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.query(ctx, op, tableColumnsQuery, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := datasource.ExpectColumns(op, rows, 4); err != nil {
		return nil, mapError(op, "read result columns", err)
	}

	columns := []datasource.TableColumnInfo{}
	for rows.Next() {
		var (
			col       datasource.TableColumnInfo
			isNull    string
			maxLength any // decoded and not used
		)
		if err := rows.Scan(&col.Name, &col.DataType, &isNull, &maxLength); err != nil {
			return nil, datasource.NewContractViolation(op, "decode column row: %v", err)
		}
		if col.IsNullable, err = nullable(op, isNull); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "iterate columns", err)
	}

	return columns, nil
}

// GetNumOfRows counts the rows of schema.table.
// Identifiers cannot be bound, so they are validated and quoted.
func (c *Connection) GetNumOfRows(ctx context.Context, schema, table string) (int64, error) {
	const op = "postgres.GetNumOfRows"

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := sqlguard.ValidateQualifiedName(schema, table); err != nil {
		return 0, datasource.NewInvalidInput(op, "refused table name", err)
	}

	sql := fmt.Sprintf("SELECT COUNT(*) AS n FROM %s", pgx.Identifier{schema, table}.Sanitize())
	rows, err := c.query(ctx, op, sql)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n, err := datasource.ReadRowCount(op, rows)
	if err != nil {
		return 0, mapError(op, "read row count", err)
	}
	return n, nil
}

// GetConstraints returns the primary key, unique and foreign key constraints
// of schema.table.
func (c *Connection) GetConstraints(ctx context.Context, schema, table string) ([]datasource.Constraint, error) {
	const op = "postgres.GetConstraints"

	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.query(ctx, op, constraintsQuery, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := datasource.ExpectColumns(op, rows, 2); err != nil {
		return nil, mapError(op, "read result columns", err)
	}

	constraints := []datasource.Constraint{}
	for rows.Next() {
		var (
			name string
			code string
		)
		if err := rows.Scan(&name, &code); err != nil {
			return nil, datasource.NewContractViolation(op, "decode constraint row: %v", err)
		}
		ctype, err := constraintType(op, code)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, datasource.Constraint{Name: name, Type: ctype})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "iterate constraints", err)
	}

	return constraints, nil
}

// Close ends the session. Calling Close again returns nil.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	err := c.q.Close(ctx)
	c.logger.Info("Connection closed", zap.String("target", c.coords.String()))
	if err != nil {
		return mapError("postgres.Close", "close session", err)
	}
	return nil
}

var _ datasource.Connection = (*Connection)(nil)
