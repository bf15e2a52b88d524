package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource/datasourcetest"
	"github.com/ekaya-inc/ekaya-dal/pkg/apperrors"
)

func newTestConnection(t *testing.T, cfg *Config, results ...datasourcetest.Result) (*Connection, *datasourcetest.Querier) {
	t.Helper()
	if cfg == nil {
		cfg = &Config{ConnectMode: ConnectSID, CatalogScope: ScopeDBA}
	}
	q := datasourcetest.NewQuerier(results...)
	coords := datasource.Coordinates{Host: "ora", Port: 1521, Database: "ORCL", User: "scott"}
	return newConnection(q, cfg, "test-conn", coords, zaptest.NewLogger(t)), q
}

func TestConnection_GetSchemaTables(t *testing.T) {
	conn, q := newTestConnection(t, nil, datasourcetest.Result{
		Columns: []string{"OWNER", "OBJECT_NAME"},
		Rows: [][]any{
			{"SALES", "ORDERS"},
			{"HR", "EMPLOYEES"},
			{"SALES", "CUSTOMERS"},
		},
	})

	tables, err := conn.GetSchemaTables(context.Background(), []string{"SALES", "HR"})
	require.NoError(t, err)
	assert.Equal(t, []datasource.SchemaTableInfo{
		{Schema: "HR", Table: "EMPLOYEES"},
		{Schema: "SALES", Table: "CUSTOMERS"},
		{Schema: "SALES", Table: "ORDERS"},
	}, tables)

	calls := q.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].SQL, "FROM DBA_OBJECTS")
	assert.Contains(t, calls[0].SQL, "OWNER IN (:1, :2)")
	assert.NotContains(t, calls[0].SQL, "SALES")
	assert.Equal(t, []any{"SALES", "HR"}, calls[0].Args)
}

func TestConnection_GetSchemaTables_AllObjectsScope(t *testing.T) {
	conn, q := newTestConnection(t, &Config{ConnectMode: ConnectService, CatalogScope: ScopeAll},
		datasourcetest.Result{Columns: []string{"OWNER", "OBJECT_NAME"}})

	tables, err := conn.GetSchemaTables(context.Background(), []string{"SALES"})
	require.NoError(t, err)
	assert.NotNil(t, tables)
	assert.Empty(t, tables)
	assert.Contains(t, q.Calls()[0].SQL, "FROM ALL_OBJECTS")
}

func TestConnection_GetSchemaTables_QuoteInSchemaNameIsBound(t *testing.T) {
	conn, q := newTestConnection(t, nil, datasourcetest.Result{Columns: []string{"OWNER", "OBJECT_NAME"}})

	_, err := conn.GetSchemaTables(context.Background(), []string{"O'BRIEN"})
	require.NoError(t, err)
	assert.NotContains(t, q.Calls()[0].SQL, "BRIEN")
	assert.Equal(t, []any{"O'BRIEN"}, q.Calls()[0].Args)
}

func TestConnection_GetSchemaTables_EmptySchemaSet(t *testing.T) {
	conn, q := newTestConnection(t, nil)

	tables, err := conn.GetSchemaTables(context.Background(), []string{"", "  "})
	require.NoError(t, err)
	assert.NotNil(t, tables)
	assert.Empty(t, tables)
	assert.Empty(t, q.Calls())
}

func TestConnection_GetTableColumns(t *testing.T) {
	conn, q := newTestConnection(t, nil, datasourcetest.Result{
		Columns: []string{"COLUMN_NAME", "DATA_TYPE", "DATA_LENGTH", "NULLABLE"},
		Rows: [][]any{
			{"ORDER_ID", "NUMBER", int64(22), "N"},
			{"CUSTOMER_ID", "NUMBER", int64(22), "N"},
			{"NOTE", "VARCHAR2", int64(400), "Y"},
		},
	})

	cols, err := conn.GetTableColumns(context.Background(), "SALES", "ORDERS")
	require.NoError(t, err)
	assert.Equal(t, []datasource.TableColumnInfo{
		{Name: "ORDER_ID", DataType: "NUMBER", IsNullable: false},
		{Name: "CUSTOMER_ID", DataType: "NUMBER", IsNullable: false},
		{Name: "NOTE", DataType: "VARCHAR2", IsNullable: true},
	}, cols)

	call := q.Calls()[0]
	assert.Contains(t, call.SQL, "ORDER BY col.column_id")
	assert.Equal(t, []any{"SALES", "ORDERS"}, call.Args)
}

func TestConnection_GetTableColumns_UnknownNullable(t *testing.T) {
	conn, _ := newTestConnection(t, nil, datasourcetest.Result{
		Columns: []string{"COLUMN_NAME", "DATA_TYPE", "DATA_LENGTH", "NULLABLE"},
		Rows:    [][]any{{"ORDER_ID", "NUMBER", int64(22), "?"}},
	})

	_, err := conn.GetTableColumns(context.Background(), "SALES", "ORDERS")
	require.Error(t, err)
	assert.True(t, datasource.IsContractViolation(err))
}

func TestConnection_GetTableColumns_WrongColumnCount(t *testing.T) {
	conn, _ := newTestConnection(t, nil, datasourcetest.Result{
		Columns: []string{"COLUMN_NAME", "DATA_TYPE", "NULLABLE"},
		Rows:    [][]any{{"ORDER_ID", "NUMBER", "N"}},
	})

	_, err := conn.GetTableColumns(context.Background(), "SALES", "ORDERS")
	require.Error(t, err)
	assert.True(t, datasource.IsContractViolation(err))
}

func TestConnection_GetConstraints_CatalogOrder(t *testing.T) {
	conn, _ := newTestConnection(t, nil, datasourcetest.Result{
		Columns: []string{"CONSTRAINT_NAME", "CONSTRAINT_TYPE"},
		Rows: [][]any{
			{"PK_ORDERS", "P"},
			{"FK_ORDERS_CUST", "R"},
		},
	})

	cons, err := conn.GetConstraints(context.Background(), "SALES", "ORDERS")
	require.NoError(t, err)
	assert.Equal(t, []datasource.Constraint{
		{Name: "PK_ORDERS", Type: datasource.ConstraintPrimary},
		{Name: "FK_ORDERS_CUST", Type: datasource.ConstraintForeignKey},
	}, cons)
}

func TestConnection_GetConstraints_UnsupportedCode(t *testing.T) {
	conn, _ := newTestConnection(t, nil, datasourcetest.Result{
		Columns: []string{"CONSTRAINT_NAME", "CONSTRAINT_TYPE"},
		Rows: [][]any{
			{"UK_ORDERS_NO", "U"},
			{"CK_ORDERS_AMOUNT", "C"},
		},
	})

	_, err := conn.GetConstraints(context.Background(), "SALES", "ORDERS")
	require.Error(t, err)
	assert.True(t, datasource.IsContractViolation(err))
	assert.Contains(t, err.Error(), `"C"`)
}

func TestConnection_GetNumOfRows(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
	}{
		{name: "integer", value: int64(17), want: 17},
		{name: "float number", value: float64(250), want: 250},
		{name: "text number", value: "9001", want: 9001},
		{name: "empty table", value: int64(0), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, q := newTestConnection(t, nil, datasourcetest.Result{
				Columns: []string{"COUNT(*)"},
				Rows:    [][]any{{tt.value}},
			})

			n, err := conn.GetNumOfRows(context.Background(), "SALES", "ORDERS")
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, `SELECT COUNT(*) FROM "SALES"."ORDERS"`, q.Calls()[0].SQL)
		})
	}
}

func TestConnection_GetNumOfRows_ShapeViolations(t *testing.T) {
	tests := []struct {
		name   string
		result datasourcetest.Result
	}{
		{name: "no rows", result: datasourcetest.Result{Columns: []string{"COUNT(*)"}}},
		{name: "two rows", result: datasourcetest.Result{Columns: []string{"COUNT(*)"}, Rows: [][]any{{int64(1)}, {int64(1)}}}},
		{name: "no columns", result: datasourcetest.Result{Columns: []string{}, Rows: [][]any{{}}}},
		{name: "fractional", result: datasourcetest.Result{Columns: []string{"COUNT(*)"}, Rows: [][]any{{1.5}}}},
		{name: "negative", result: datasourcetest.Result{Columns: []string{"COUNT(*)"}, Rows: [][]any{{int64(-1)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, _ := newTestConnection(t, nil, tt.result)

			_, err := conn.GetNumOfRows(context.Background(), "SALES", "ORDERS")
			require.Error(t, err)
			assert.True(t, datasource.IsContractViolation(err), "got %v", err)
		})
	}
}

func TestConnection_GetNumOfRows_RefusesInjection(t *testing.T) {
	conn, q := newTestConnection(t, nil)

	_, err := conn.GetNumOfRows(context.Background(), "SALES", "' OR '1'='1")
	require.Error(t, err)
	assert.True(t, datasource.IsInvalidInput(err))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidIdentifier))
	assert.Empty(t, q.Calls())
}

func TestConnection_ErrorMapping(t *testing.T) {
	t.Run("missing table is a query failure", func(t *testing.T) {
		conn, _ := newTestConnection(t, nil, datasourcetest.Result{
			Err: errors.New("ORA-00942: table or view does not exist"),
		})
		_, err := conn.GetNumOfRows(context.Background(), "SALES", "NOPE")
		require.Error(t, err)
		assert.True(t, datasource.IsQuery(err))
	})

	t.Run("lost session is connectivity", func(t *testing.T) {
		conn, _ := newTestConnection(t, nil, datasourcetest.Result{
			Err: errors.New("ORA-03113: end-of-file on communication channel"),
		})
		_, err := conn.GetConstraints(context.Background(), "SALES", "ORDERS")
		require.Error(t, err)
		assert.True(t, datasource.IsConnectivity(err))
	})
}

func TestConnection_Close(t *testing.T) {
	conn, q := newTestConnection(t, nil)
	ctx := context.Background()

	require.NoError(t, conn.Close(ctx))
	require.NoError(t, conn.Close(ctx))
	assert.Equal(t, 1, q.CloseCalls())

	_, err := conn.GetNumOfRows(ctx, "SALES", "ORDERS")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConnectionClosed))
}

func TestConnection_CloseError(t *testing.T) {
	conn, q := newTestConnection(t, nil)
	q.CloseErr = errors.New("ORA-03114: not connected to ORACLE")

	err := conn.Close(context.Background())
	require.Error(t, err)
	assert.True(t, datasource.IsConnectivity(err))

	assert.NoError(t, conn.Close(context.Background()))
}
