package datasource

import (
	"fmt"
	"strings"
)

// Coordinates locate and authenticate a database. They are passed to the
// adapter as-is; a missing field surfaces as a connect error from the engine.
type Coordinates struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"` // 0 selects the adapter's default port
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"-"`
}

// String renders user@host:port/database. The password is never included.
func (c Coordinates) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.Port, c.Database)
}

// SchemaTableInfo identifies one table by schema and name.
type SchemaTableInfo struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
}

// Normalize returns a copy with schema and table upper-cased.
// Engines disagree on identifier case, so callers normalize before using the
// value as a lookup key.
func (s SchemaTableInfo) Normalize() SchemaTableInfo {
	return SchemaTableInfo{
		Schema: strings.ToUpper(s.Schema),
		Table:  strings.ToUpper(s.Table),
	}
}

// Key returns "schema.table".
func (s SchemaTableInfo) Key() string {
	return s.Schema + "." + s.Table
}

// TableColumnInfo describes one column. DataType is the engine's own type name.
type TableColumnInfo struct {
	Name       string `yaml:"name"`
	DataType   string `yaml:"data_type"`
	IsNullable bool   `yaml:"is_nullable"`
}

// ConstraintType is the closed set of constraint kinds the DAL reports.
type ConstraintType int

const (
	ConstraintPrimary ConstraintType = iota
	ConstraintUnique
	ConstraintForeignKey
)

func (t ConstraintType) String() string {
	switch t {
	case ConstraintPrimary:
		return "PRIMARY"
	case ConstraintUnique:
		return "UNIQUE"
	case ConstraintForeignKey:
		return "FOREIGN_KEY"
	default:
		return fmt.Sprintf("ConstraintType(%d)", int(t))
	}
}

// MarshalYAML writes the constraint type by name.
func (t ConstraintType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// Constraint is one primary key, unique or foreign key constraint on a table.
type Constraint struct {
	Name string         `yaml:"name"`
	Type ConstraintType `yaml:"type"`
}
