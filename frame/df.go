package frame

import (
	"fmt"
	"sort"
	"strings"
)

// DF is an ordered collection of equal-length columns.
type DF struct {
	cols []*Col
	by   []*Col
}

// NewDF builds a DF from columns. All columns must have the same length
// and distinct names.
func NewDF(cols ...*Col) (*DF, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns in NewDF")
	}

	n := cols[0].Len()
	for _, c := range cols {
		if c.Len() != n {
			return nil, fmt.Errorf("length mismatch: column %s has %d rows, want %d", c.Name(), c.Len(), n)
		}
	}

	df := &DF{}
	for _, c := range cols {
		if e := df.AppendColumn(c); e != nil {
			return nil, e
		}
	}

	return df, nil
}

func (df *DF) RowCount() int {
	if len(df.cols) == 0 {
		return 0
	}

	return df.cols[0].Len()
}

func (df *DF) ColumnCount() int { return len(df.cols) }

func (df *DF) ColumnNames() []string {
	var names []string
	for _, c := range df.cols {
		names = append(names, c.Name())
	}

	return names
}

func (df *DF) Column(colName string) (*Col, error) {
	for _, c := range df.cols {
		if c.Name() == colName {
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, colName)
}

func (df *DF) AppendColumn(col *Col) error {
	if has(col.Name(), df.ColumnNames()) {
		return fmt.Errorf("duplicate column name: %s", col.Name())
	}

	if len(df.cols) > 0 && col.Len() != df.RowCount() {
		return fmt.Errorf("length mismatch: df - %d, append col %s - %d", df.RowCount(), col.Name(), col.Len())
	}

	df.cols = append(df.cols, col)

	return nil
}

func (df *DF) DropColumns(colNames ...string) error {
	for _, nm := range colNames {
		pos := -1
		for ind, c := range df.cols {
			if c.Name() == nm {
				pos = ind
				break
			}
		}

		if pos < 0 {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, nm)
		}

		df.cols = append(df.cols[:pos], df.cols[pos+1:]...)
	}

	if len(df.cols) == 0 {
		return fmt.Errorf("no columns left")
	}

	return nil
}

// KeepColumns returns a DF holding only the named columns. The columns
// are shared, not copied.
func (df *DF) KeepColumns(colNames ...string) (*DF, error) {
	var keep []*Col
	for _, nm := range colNames {
		c, e := df.Column(nm)
		if e != nil {
			return nil, e
		}

		keep = append(keep, c)
	}

	return &DF{cols: keep}, nil
}

func (df *DF) Copy() *DF {
	out := &DF{}
	for _, c := range df.cols {
		out.cols = append(out.cols, c.Copy())
	}

	return out
}

// Subset returns a new DF holding the given rows, in order.
func (df *DF) Subset(rows []int) (*DF, error) {
	n := df.RowCount()
	for _, r := range rows {
		if r < 0 || r >= n {
			return nil, fmt.Errorf("row %d out of range", r)
		}
	}

	out := &DF{}
	for _, c := range df.cols {
		out.cols = append(out.cols, c.subset(rows))
	}

	return out, nil
}

// Sort orders the rows ascending by the key columns, in place.
func (df *DF) Sort(keys ...string) error {
	var by []*Col
	for _, k := range keys {
		c, e := df.Column(k)
		if e != nil {
			return e
		}

		by = append(by, c)
	}

	df.by = by
	sort.Stable(df)
	df.by = nil

	return nil
}

// Len, Less, Swap implement sort.Interface over the by columns.

func (df *DF) Len() int { return df.RowCount() }

func (df *DF) Less(i, j int) bool {
	for _, c := range df.by {
		if c.less(i, j) {
			return true
		}

		if c.less(j, i) {
			return false
		}

		// equal -- keep checking
	}

	return false
}

func (df *DF) Swap(i, j int) {
	for _, c := range df.cols {
		switch c.DataType() {
		case DTstring:
			d := c.Strings()
			d[i], d[j] = d[j], d[i]
		case DTint:
			d := c.Ints()
			d[i], d[j] = d[j], d[i]
		case DTfloat:
			d := c.Floats()
			d[i], d[j] = d[j], d[i]
		case DTdate:
			d := c.Dates()
			d[i], d[j] = d[j], d[i]
		default:
			panic(fmt.Errorf("unsupported data type in Swap"))
		}
	}
}

const maxPrintRows = 20

// String renders the table for the console, capped at maxPrintRows rows.
func (df *DF) String() string {
	names := df.ColumnNames()
	widths := make([]int, len(names))
	for ind, nm := range names {
		widths[ind] = len(nm)
	}

	n := df.RowCount()
	shown := n
	if shown > maxPrintRows {
		shown = maxPrintRows
	}

	cells := make([][]string, shown)
	for row := 0; row < shown; row++ {
		cells[row] = make([]string, len(df.cols))
		for ind, c := range df.cols {
			s := formatElement(c, row)
			cells[row][ind] = s
			if len(s) > widths[ind] {
				widths[ind] = len(s)
			}
		}
	}

	var b strings.Builder
	for ind, nm := range names {
		fmt.Fprintf(&b, "%-*s  ", widths[ind], nm)
	}
	b.WriteString("\n")

	for row := 0; row < shown; row++ {
		for ind := range df.cols {
			fmt.Fprintf(&b, "%-*s  ", widths[ind], cells[row][ind])
		}
		b.WriteString("\n")
	}

	if shown < n {
		fmt.Fprintf(&b, "... %d rows\n", n)
	}

	return b.String()
}

func formatElement(c *Col, row int) string {
	if c.IsMissing(row) {
		return "."
	}

	switch c.DataType() {
	case DTfloat:
		return fmt.Sprintf("%.2f", c.Floats()[row])
	case DTdate:
		return c.Dates()[row].Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", c.Element(row))
	}
}

// GroupCount counts rows by the distinct values of the key column,
// returning a DF with the key column and an int column "n", sorted by
// key. When includeMissing is false, rows with a missing key are
// dropped (not counted); otherwise the missing sentinel is its own
// group.
func (df *DF) GroupCount(key string, includeMissing bool) (*DF, error) {
	kc, e := df.Column(key)
	if e != nil {
		return nil, e
	}

	counts := make(map[any]int)
	first := make(map[any]int) // first row a level was seen at, for subsetting
	for row := 0; row < df.RowCount(); row++ {
		if !includeMissing && kc.IsMissing(row) {
			continue
		}

		v := kc.Element(row)
		if _, ok := counts[v]; !ok {
			first[v] = row
		}
		counts[v]++
	}

	rows := make([]int, 0, len(first))
	for _, r := range first {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	keyCol := kc.subset(rows)
	nData := make([]int, len(rows))
	for ind, r := range rows {
		nData[ind] = counts[kc.Element(r)]
	}

	nCol, e := NewCol("n", nData)
	if e != nil {
		return nil, e
	}

	out, e := NewDF(keyCol, nCol)
	if e != nil {
		return nil, e
	}

	if e := out.Sort(key); e != nil {
		return nil, e
	}

	return out, nil
}

// InnerJoin joins df to right on a single key column present in both.
// Rows whose key is missing on either side do not match. Non-key column
// names must not clash.
func (df *DF) InnerJoin(right *DF, key string) (*DF, error) {
	lk, e := df.Column(key)
	if e != nil {
		return nil, e
	}

	rk, e := right.Column(key)
	if e != nil {
		return nil, e
	}

	if lk.DataType() != rk.DataType() {
		return nil, fmt.Errorf("join key %s: type %v vs %v", key, lk.DataType(), rk.DataType())
	}

	for _, nm := range right.ColumnNames() {
		if nm != key && has(nm, df.ColumnNames()) {
			return nil, fmt.Errorf("duplicate column name in join: %s", nm)
		}
	}

	rIndex := make(map[any][]int)
	for row := 0; row < right.RowCount(); row++ {
		if rk.IsMissing(row) {
			continue
		}
		v := rk.Element(row)
		rIndex[v] = append(rIndex[v], row)
	}

	var lRows, rRows []int
	for row := 0; row < df.RowCount(); row++ {
		if lk.IsMissing(row) {
			continue
		}

		for _, rr := range rIndex[lk.Element(row)] {
			lRows = append(lRows, row)
			rRows = append(rRows, rr)
		}
	}

	out, e := df.Subset(lRows)
	if e != nil {
		return nil, e
	}

	for _, nm := range right.ColumnNames() {
		if nm == key {
			continue
		}

		rc, _ := right.Column(nm)
		if e := out.AppendColumn(rc.subset(rRows)); e != nil {
			return nil, e
		}
	}

	return out, nil
}

// *********** small helpers ***********

func has[C comparable](needle C, haystack []C) bool {
	return position(needle, haystack) >= 0
}

func position[C comparable](needle C, haystack []C) int {
	for ind, straw := range haystack {
		if needle == straw {
			return ind
		}
	}

	return -1
}
