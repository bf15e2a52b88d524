package datasource

import (
	"strings"
)

// SchemaList is the schema filter used by GetSchemaTables.
// It renders an IN (...) list as bind placeholders plus matching arguments, so
// schema names never become part of the SQL text.
type SchemaList struct {
	names []string
}

// NewSchemaList trims each name and keeps the first occurrence of each
// non-empty one, in order.
func NewSchemaList(schemas []string) SchemaList {
	seen := make(map[string]struct{}, len(schemas))
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		names = append(names, s)
	}
	return SchemaList{names: names}
}

// Len returns the number of distinct schema names.
func (l SchemaList) Len() int {
	return len(l.names)
}

// Names returns a copy of the schema names.
func (l SchemaList) Names() []string {
	return append([]string(nil), l.names...)
}

// Args returns the schema names as query arguments, in placeholder order.
func (l SchemaList) Args() []any {
	args := make([]any, len(l.names))
	for i, n := range l.names {
		args[i] = n
	}
	return args
}

// Placeholders renders one bind marker per name, comma separated.
// bind receives the 1-based position, e.g. func(n int) string { return ":" + strconv.Itoa(n) }.
func (l SchemaList) Placeholders(bind func(n int) string) string {
	parts := make([]string, len(l.names))
	for i := range l.names {
		parts[i] = bind(i + 1)
	}
	return strings.Join(parts, ", ")
}

// Literal renders the names as SQL string literals with embedded quotes doubled.
// It is meant for log output; queries use Placeholders and Args.
func (l SchemaList) Literal() string {
	parts := make([]string, len(l.names))
	for i, n := range l.names {
		parts[i] = "'" + strings.ReplaceAll(n, "'", "''") + "'"
	}
	return strings.Join(parts, ", ")
}
