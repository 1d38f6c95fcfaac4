package dataset

import "strconv"

// Row maps a column name to its value. Values are string, float64, bool,
// time.Time or nil.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value of col as text and whether it was a non-empty
// string.
func (r Row) String(col string) (string, bool) {
	s, ok := r[col].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Table is an ordered sequence of rows with an ordered column list.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func NewTable(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...), Rows: []Row{}}
}

func (t Table) Len() int { return len(t.Rows) }

func (t Table) IsEmpty() bool { return len(t.Rows) == 0 }

func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn registers a column name if it is not present yet. Rows are not touched.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Append adds a row, registering any column it introduces.
func (t *Table) Append(r Row) {
	for k := range r {
		if !t.HasColumn(k) {
			t.Columns = append(t.Columns, k)
		}
	}
	t.Rows = append(t.Rows, r)
}

// Column returns the values of one column in row order.
func (t Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// Rename renames columns present in the table. Names absent from the table
// are ignored. If the target name already exists the renamed column replaces it.
// When several columns map to the same target, the leftmost one wins and
// the others are dropped. Renames apply simultaneously, so chains such as
// A->B, B->C move each value once.
func (t *Table) Rename(mapping map[string]string) {
	type rename struct{ from, to string }
	var (
		renames []rename
		dropped = make(map[string]bool)
		claimed = make(map[string]bool)
	)
	for _, c := range t.Columns {
		to, ok := mapping[c]
		if !ok || to == c {
			continue
		}
		if claimed[to] {
			dropped[c] = true
			continue
		}
		claimed[to] = true
		renames = append(renames, rename{from: c, to: to})
	}
	if len(renames) == 0 {
		return
	}
	target := make(map[string]string, len(renames))
	for _, rn := range renames {
		target[rn.from] = rn.to
	}

	cols := make([]string, 0, len(t.Columns))
	seen := make(map[string]bool)
	for _, c := range t.Columns {
		if dropped[c] {
			continue
		}
		name := c
		if to, ok := target[c]; ok {
			name = to
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		cols = append(cols, name)
	}
	t.Columns = cols

	values := make([]any, len(renames))
	present := make([]bool, len(renames))
	for _, r := range t.Rows {
		for i, rn := range renames {
			values[i], present[i] = r[rn.from]
		}
		for c := range dropped {
			delete(r, c)
		}
		for _, rn := range renames {
			delete(r, rn.from)
		}
		for i, rn := range renames {
			if present[i] {
				r[rn.to] = values[i]
			}
		}
	}
}

// Clone copies the column list and every row.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Missing returns the subset of required column names the table lacks.
func (t Table) Missing(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// EnsureTransactionID fills No Transaksi with the zero-based row position
// as text when the column is absent, and reports whether it did.
func EnsureTransactionID(t *Table) bool {
	if t.HasColumn(ColTransactionID) {
		return false
	}
	t.AddColumn(ColTransactionID)
	for i, r := range t.Rows {
		r[ColTransactionID] = strconv.Itoa(i)
	}
	return true
}
