package neo4j

// Result is the tabular result of one statement in a batch.
type Result struct {
	Columns []string
	Rows    [][]any

	index map[string]int
}

// NewResult builds a Result from columns and rows. Used by tests and mock
// transports; Execute builds results from the wire format directly.
func NewResult(columns []string, rows [][]any) Result {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}
	return Result{Columns: columns, Rows: rows, index: index}
}

func newResult(wr wireResult) Result {
	rows := make([][]any, len(wr.Data))
	for i, d := range wr.Data {
		rows[i] = d.Row
	}
	index := make(map[string]int, len(wr.Columns))
	for i, col := range wr.Columns {
		index[col] = i
	}
	return Result{Columns: wr.Columns, Rows: rows, index: index}
}

// Get returns the value at the given row under the named column.
// The boolean is false when the column is absent or the row out of range.
func (r Result) Get(row int, column string) (any, bool) {
	i, ok := r.index[column]
	if !ok || row < 0 || row >= len(r.Rows) || i >= len(r.Rows[row]) {
		return nil, false
	}
	return r.Rows[row][i], true
}

// StringAt returns the value at (row, column) as a string, or "" when the
// cell is absent or not a string.
func (r Result) StringAt(row int, column string) string {
	v, ok := r.Get(row, column)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// MapAt returns the value at (row, column) as a property map, or nil.
func (r Result) MapAt(row int, column string) map[string]any {
	v, ok := r.Get(row, column)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// SliceAt returns the value at (row, column) as a slice, or nil.
func (r Result) SliceAt(row int, column string) []any {
	v, ok := r.Get(row, column)
	if !ok {
		return nil
	}
	s, _ := v.([]any)
	return s
}

// Int64At returns the value at (row, column) as an int64. JSON numbers
// arrive as float64 from the wire; other sources may hand over ints.
func (r Result) Int64At(row int, column string) int64 {
	v, ok := r.Get(row, column)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case int:
		return int64(n)
	default:
		return 0
	}
}
