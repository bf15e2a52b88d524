package oracle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-dal/pkg/logging"
	"github.com/ekaya-inc/ekaya-dal/pkg/sqlguard"
)

const tableColumnsQuery = `
	SELECT col.column_name, col.data_type, col.data_length, col.nullable
	FROM all_tab_columns col
	INNER JOIN all_tables tab
		ON col.owner = tab.owner AND col.table_name = tab.table_name
	WHERE col.owner = :1 AND col.table_name = :2
	ORDER BY col.column_id
`

const constraintsQuery = `
	SELECT constraint_name, constraint_type
	FROM all_constraints
	WHERE owner = :1
	  AND table_name = :2
	  AND constraint_type IN ('R', 'P', 'U')
`

func bindVar(n int) string {
	return ":" + strconv.Itoa(n)
}

// quoteIdent renders a quoted identifier, preserving case.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Connection is one Oracle session. Operations are serialized.
type Connection struct {
	mu     sync.Mutex
	q      datasource.Querier
	config *Config
	id     string
	coords datasource.Coordinates
	logger *zap.Logger
	closed bool
}

func newConnection(q datasource.Querier, cfg *Config, id string, coords datasource.Coordinates, logger *zap.Logger) *Connection {
	return &Connection{
		q:      q,
		config: cfg,
		id:     id,
		coords: coords,
		logger: logger.With(zap.String("connection_id", id)),
	}
}

func (c *Connection) closedError(op string) error {
	return datasource.NewConnectivityError(op, "connection is closed", apperrors.ErrConnectionClosed)
}

// query runs sql and maps a failure to a datasource.Error. The caller holds c.mu.
func (c *Connection) query(ctx context.Context, op, sql string, args ...any) (datasource.Rows, error) {
	if c.closed {
		return nil, c.closedError(op)
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

// GetSchemaTables lists the tables owned by schemas.
func (c *Connection) GetSchemaTables(ctx context.Context, schemas []string) ([]datasource.SchemaTableInfo, error) {
	const op = "oracle.GetSchemaTables"

	c.mu.Lock()
	defer c.mu.Unlock()

	list := datasource.NewSchemaList(schemas)
	if list.Len() == 0 {
		if c.closed {
			return nil, c.closedError(op)
		}
		return []datasource.SchemaTableInfo{}, nil
	}

	sql := fmt.Sprintf(`
	SELECT DISTINCT OWNER, OBJECT_NAME
	FROM %s
	WHERE OBJECT_TYPE = 'TABLE'
	  AND OWNER IN (%s)
	ORDER BY OWNER, OBJECT_NAME
`, c.config.objectsView(), list.Placeholders(bindVar))

	c.logger.Debug("Schema filter", zap.String("schemas", list.Literal()))

	rows, err := c.query(ctx, op, sql, list.Args()...)
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

// GetTableColumns returns the columns of schema.table ordered by COLUMN_ID.
func (c *Connection) GetTableColumns(ctx context.Context, schema, table string) ([]datasource.TableColumnInfo, error) {
	const op = "oracle.GetTableColumns"

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
			col    datasource.TableColumnInfo
			length any // DATA_LENGTH is not part of the model
			flag   string
		)
		if err := rows.Scan(&col.Name, &col.DataType, &length, &flag); err != nil {
			return nil, datasource.NewContractViolation(op, "decode column row: %v", err)
		}
		if col.IsNullable, err = nullable(op, flag); err != nil {
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
func (c *Connection) GetNumOfRows(ctx context.Context, schema, table string) (int64, error) {
	const op = "oracle.GetNumOfRows"

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := sqlguard.ValidateQualifiedName(schema, table); err != nil {
		return 0, datasource.NewInvalidInput(op, "refused table name", err)
	}

	sql := "SELECT COUNT(*) FROM " + quoteIdent(schema) + "." + quoteIdent(table)
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

// GetConstraints returns the primary key, unique and referential constraints
// of schema.table in dictionary order.
func (c *Connection) GetConstraints(ctx context.Context, schema, table string) ([]datasource.Constraint, error) {
	const op = "oracle.GetConstraints"

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
		var name, code string
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

// Close releases the session. Calling Close again returns nil.
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
		return mapError("oracle.Close", "close session", err)
	}
	return nil
}

var _ datasource.Connection = (*Connection)(nil)
