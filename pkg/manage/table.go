package manage

// Column describes one table column for a record type. Render projects a
// record into the cell text; the table layer holds no fetching or mutation
// logic of its own.
type Column[T any] struct {
	ID     string
	Label  string
	Width  int
	Render func(T) string
}

// TableModel is the presentation contract consumed by whatever actually
// draws the table (the terminal console here). It stays generic over the
// entity shape so one renderer serves every resource panel.
type TableModel[T any] struct {
	Columns []Column[T]
	// StatusField names the record field driving the toggle affordance;
	// empty means the resource has no status toggle.
	StatusField string
	// RowID extracts the stable identifier used for toggle and delete
	// actions.
	RowID func(T) string
	// StatusValue reads the current status for the toggle control.
	StatusValue func(T) any
}

// Headers returns the column labels in order.
func (m TableModel[T]) Headers() []string {
	out := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		out[i] = c.Label
	}
	return out
}

// Row renders one record into its cells.
func (m TableModel[T]) Row(rec T) []string {
	out := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		if c.Render != nil {
			out[i] = c.Render(rec)
		}
	}
	return out
}

// Rows renders every record.
func (m TableModel[T]) Rows(records []T) [][]string {
	out := make([][]string, len(records))
	for i, rec := range records {
		out[i] = m.Row(rec)
	}
	return out
}
