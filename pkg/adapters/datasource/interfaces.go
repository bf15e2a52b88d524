package datasource

import "context"

// DB opens catalog connections for one database engine.
// Each adapter package provides exactly one implementation and registers it
// with Register from its init function.
type DB interface {
	// OpenConnection authenticates against the engine described by coords and
	// returns a live Connection. Failures are KindConnectivity errors and are
	// never retried.
	OpenConnection(ctx context.Context, coords Coordinates) (Connection, error)
}

// Connection inspects the catalog of one database session.
//
// A Connection runs one query at a time; implementations serialize their own
// operations. Callers that need parallelism open more connections.
// The caller owns the Connection and must call Close on every exit path.
type Connection interface {
	// GetSchemaTables returns the tables owned by the given schemas, sorted by
	// (schema, table) with no duplicates. An empty schema set or a schema with no
	// tables yields an empty, non-nil slice.
	GetSchemaTables(ctx context.Context, schemas []string) ([]SchemaTableInfo, error)

	// GetTableColumns returns the columns of schema.table in physical ordinal order.
	GetTableColumns(ctx context.Context, schema, table string) ([]TableColumnInfo, error)

	// GetNumOfRows returns the exact row count of schema.table.
	GetNumOfRows(ctx context.Context, schema, table string) (int64, error)

	// GetConstraints returns the primary key, unique and foreign key constraints
	// of schema.table in catalog order.
	GetConstraints(ctx context.Context, schema, table string) ([]Constraint, error)

	// Close releases the underlying session. It is safe to call more than once
	// and after a failed operation; calls after the first return nil.
	Close(ctx context.Context) error
}

// Rows is the result set returned by a Querier.
// Callers must always call Close when done, even on error.
type Rows interface {
	// Columns returns the column names of the result set.
	Columns() ([]string, error)

	// Next advances to the next row. It returns false when no more rows exist
	// or on error.
	Next() bool

	// Scan copies the current row's columns into dest.
	Scan(dest ...any) error

	// Err returns any error encountered during iteration.
	Err() error

	// Close releases resources held by the result set.
	Close()
}

// Querier is the "execute SQL, get rows" primitive an adapter wraps around its
// driver session. Adapters talk to the engine only through this interface.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close(ctx context.Context) error
}
