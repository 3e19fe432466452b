package output

import (
	"bytes"
	"strings"
	"text/tabwriter"
)

// emptyCell is shown for missing values so columns stay aligned.
const emptyCell = "-"

// TableWriter provides kubectl-style aligned column output using text/tabwriter.
type TableWriter struct {
	buf     bytes.Buffer
	w       *tabwriter.Writer
	hasData bool
}

// NewTableWriter creates a new TableWriter with standard kubectl-style settings.
// Settings: minwidth=0, tabwidth=0, padding=3, padchar=' ', flags=0
func NewTableWriter() *TableWriter {
	t := &TableWriter{}
	t.w = tabwriter.NewWriter(&t.buf, 0, 0, 3, ' ', 0)
	return t
}

// Header writes the header row, upper-casing the column names.
func (t *TableWriter) Header(columns ...string) {
	upper := make([]string, len(columns))
	for i, c := range columns {
		upper[i] = strings.ToUpper(c)
	}
	t.write(upper)
}

// Row writes a data row. Empty values are shown as "-"; tabs and newlines
// inside values are flattened to spaces.
func (t *TableWriter) Row(values ...string) {
	cells := make([]string, len(values))
	for i, v := range values {
		v = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(v)
		if v == "" {
			v = emptyCell
		}
		cells[i] = v
	}
	t.write(cells)
}

func (t *TableWriter) write(cells []string) {
	t.hasData = true
	_, _ = t.w.Write([]byte(strings.Join(cells, "\t") + "\n"))
}

// String flushes the writer and returns the formatted output.
// Returns empty string if no data was written.
func (t *TableWriter) String() string {
	if !t.hasData {
		return ""
	}
	_ = t.w.Flush()
	return strings.TrimSuffix(t.buf.String(), "\n")
}
