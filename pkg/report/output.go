package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteText prints the row-count report in console form.
func WriteText(w io.Writer, r *RowCountReport) error {
	if _, err := fmt.Fprintf(w, "%d tables found\n", len(r.Tables)+len(r.Skipped)); err != nil {
		return err
	}
	for _, t := range r.Tables {
		if _, err := fmt.Fprintf(w, "schema: %s | table: %s | num-of-rows: %d\n", t.Schema, t.Table, t.Rows); err != nil {
			return err
		}
	}
	for _, s := range r.Skipped {
		if _, err := fmt.Fprintf(w, "schema: %s | table: %s | skipped: %s\n", s.Schema, s.Table, s.Reason); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "A total of %d rows in %d tables\n", r.Total, len(r.Tables))
	return err
}

// WriteYAML encodes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
