package datasource

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ExpectColumns fails with a contract violation unless rows has exactly n columns.
func ExpectColumns(op string, rows Rows, n int) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	if len(cols) != n {
		return NewContractViolation(op, "expected %d result columns, got %d (%s)", n, len(cols), strings.Join(cols, ", "))
	}
	return nil
}

// ReadRowCount reads the result of a COUNT(*) query. The result must be
// exactly one row with exactly one non-negative integer column; anything else
// is a contract violation, never a default of zero.
// Driver errors from Scan or Err are returned unchanged for the caller to map.
// ReadRowCount does not close rows.
func ReadRowCount(op string, rows Rows) (int64, error) {
	if err := ExpectColumns(op, rows, 1); err != nil {
		return 0, err
	}

	var (
		value any
		seen  int
	)
	for rows.Next() {
		seen++
		if seen > 1 {
			break
		}
		if err := rows.Scan(&value); err != nil {
			return 0, err
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	switch {
	case seen == 0:
		return 0, NewContractViolation(op, "count query returned no rows")
	case seen > 1:
		return 0, NewContractViolation(op, "count query returned more than one row")
	}
	return DecodeCount(op, value)
}

// DecodeCount converts a driver-level COUNT(*) value into an int64.
// Engines hand the count back as a native integer, a float or as text.
func DecodeCount(op string, v any) (int64, error) {
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case int32:
		n = int64(x)
	case int:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, NewContractViolation(op, "count %d overflows int64", x)
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || x > math.MaxInt64 {
			return 0, NewContractViolation(op, "count %v is not an integer", x)
		}
		n = int64(x)
	case string:
		return parseCount(op, x)
	case []byte:
		return parseCount(op, string(x))
	case interface{ Int64() (int64, error) }:
		i, err := x.Int64()
		if err != nil {
			return 0, NewContractViolation(op, "count %v is not an integer: %v", x, err)
		}
		n = i
	case nil:
		return 0, NewContractViolation(op, "count is NULL")
	default:
		return 0, NewContractViolation(op, "count has unsupported type %T", v)
	}
	if n < 0 {
		return 0, NewContractViolation(op, "count %d is negative", n)
	}
	return n, nil
}

func parseCount(op, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, NewContractViolation(op, "count %q is not an integer", s)
	}
	if n < 0 {
		return 0, NewContractViolation(op, "count %d is negative", n)
	}
	return n, nil
}

// SortSchemaTables orders tables by (schema, table) byte-wise and drops
// duplicates. Server collations differ, so adapters do not rely on ORDER BY
// alone for the ordering guarantee.
func SortSchemaTables(tables []SchemaTableInfo) []SchemaTableInfo {
	slices.SortFunc(tables, func(a, b SchemaTableInfo) int {
		if c := cmp.Compare(a.Schema, b.Schema); c != 0 {
			return c
		}
		return cmp.Compare(a.Table, b.Table)
	})
	return slices.Compact(tables)
}
