// Package tabular holds RowSet, the small column-oriented result shape shared
// by the BigQuery, Sheets and Cloud Logging wrappers.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RowSet is a named-column table of values.
type RowSet struct {
	Columns []string
	Rows    [][]any
}

// New creates an empty RowSet with the given columns.
func New(columns ...string) *RowSet {
	return &RowSet{Columns: columns}
}

// Append adds one row. The row length should match the column count.
func (r *RowSet) Append(row ...any) {
	r.Rows = append(r.Rows, row)
}

// NumRows returns the number of data rows.
func (r *RowSet) NumRows() int { return len(r.Rows) }

// NumCols returns the number of columns.
func (r *RowSet) NumCols() int { return len(r.Columns) }

// WriteCSV renders the RowSet as CSV, header first.
func (r *RowSet) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	record := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i := range record {
			if i < len(row) && row[i] != nil {
				record[i] = fmt.Sprint(row[i])
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// String renders the RowSet as CSV for quick inspection.
func (r *RowSet) String() string {
	var sb strings.Builder
	_ = r.WriteCSV(&sb)
	return sb.String()
}
