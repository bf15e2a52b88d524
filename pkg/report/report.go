// Package report walks a catalog through a datasource.Connection and renders
// row counts and table descriptions.
package report

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

// Options controls how a walk reacts to per-table failures.
type Options struct {
	// SkipContractViolations records a table whose response had an
	// unexpected shape in Skipped and continues. Any other error aborts.
	SkipContractViolations bool
}

// TableCount is the row count of one table. Schema and Table hold the
// normalized (upper-case) names used as the report key.
type TableCount struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
	Rows   int64  `yaml:"rows"`
}

// SkippedTable is a table left out of a report and the reason.
type SkippedTable struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
	Reason string `yaml:"reason"`
}

// RowCountReport is the result of CountRows.
type RowCountReport struct {
	Tables  []TableCount   `yaml:"tables"`
	Total   int64          `yaml:"total"`
	Skipped []SkippedTable `yaml:"skipped,omitempty"`
}

// TableSnapshot is the normalized description of one table.
type TableSnapshot struct {
	Schema      string                       `yaml:"schema"`
	Table       string                       `yaml:"table"`
	Columns     []datasource.TableColumnInfo `yaml:"columns"`
	Constraints []datasource.Constraint      `yaml:"constraints"`
	Rows        int64                        `yaml:"rows"`
}

// CatalogSnapshot is the result of Describe.
type CatalogSnapshot struct {
	Schemas []string        `yaml:"schemas"`
	Tables  []TableSnapshot `yaml:"tables"`
	Skipped []SkippedTable  `yaml:"skipped,omitempty"`
}

// CountRows counts the rows of every table in schemas.
// Tables are keyed by their normalized names but counted using the catalog's
// own spelling, so case-sensitive names are still found.
func CountRows(ctx context.Context, conn datasource.Connection, schemas []string, opts Options) (*RowCountReport, error) {
	tables, err := conn.GetSchemaTables(ctx, schemas)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	report := &RowCountReport{Tables: make([]TableCount, 0, len(tables))}
	for _, t := range tables {
		key := t.Normalize()

		n, err := conn.GetNumOfRows(ctx, t.Schema, t.Table)
		if err != nil {
			if skip(opts, err) {
				report.Skipped = append(report.Skipped, skipped(key, err))
				continue
			}
			return nil, fmt.Errorf("count %s: %w", t.Key(), err)
		}

		report.Tables = append(report.Tables, TableCount{Schema: key.Schema, Table: key.Table, Rows: n})
		report.Total += n
	}

	return report, nil
}

// Describe collects columns, constraints and row count for every table in schemas.
func Describe(ctx context.Context, conn datasource.Connection, schemas []string, opts Options) (*CatalogSnapshot, error) {
	tables, err := conn.GetSchemaTables(ctx, schemas)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	snap := &CatalogSnapshot{
		Schemas: datasource.NewSchemaList(schemas).Names(),
		Tables:  make([]TableSnapshot, 0, len(tables)),
	}
	for _, t := range tables {
		ts, err := describeTable(ctx, conn, t)
		if err != nil {
			if skip(opts, err) {
				snap.Skipped = append(snap.Skipped, skipped(t.Normalize(), err))
				continue
			}
			return nil, err
		}
		snap.Tables = append(snap.Tables, ts)
	}

	return snap, nil
}

func describeTable(ctx context.Context, conn datasource.Connection, t datasource.SchemaTableInfo) (TableSnapshot, error) {
	cols, err := conn.GetTableColumns(ctx, t.Schema, t.Table)
	if err != nil {
		return TableSnapshot{}, fmt.Errorf("columns of %s: %w", t.Key(), err)
	}
	cons, err := conn.GetConstraints(ctx, t.Schema, t.Table)
	if err != nil {
		return TableSnapshot{}, fmt.Errorf("constraints of %s: %w", t.Key(), err)
	}
	n, err := conn.GetNumOfRows(ctx, t.Schema, t.Table)
	if err != nil {
		return TableSnapshot{}, fmt.Errorf("count %s: %w", t.Key(), err)
	}

	key := t.Normalize()
	return TableSnapshot{
		Schema:      key.Schema,
		Table:       key.Table,
		Columns:     cols,
		Constraints: cons,
		Rows:        n,
	}, nil
}

func skip(opts Options, err error) bool {
	return opts.SkipContractViolations && datasource.IsContractViolation(err)
}

func skipped(key datasource.SchemaTableInfo, err error) SkippedTable {
	return SkippedTable{Schema: key.Schema, Table: key.Table, Reason: err.Error()}
}
