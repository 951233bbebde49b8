package frame

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"
)

// All code interacting with files is here.

const (
	sep         = ','
	stringDelim = '"'
	floatFormat = "%.2f"
)

// defaultDateFormats are tried in order when imputing a date column.
// mm/dd/yyyy first: that is how the collision data arrives.
var defaultDateFormats = []string{"01/02/2006", "1/2/2006", "2006-01-02"}

// Files reads a CSV with a header row into a DF, imputing a type for
// each column. Cells are missing when empty; a column is typed int,
// float or date only if every non-missing cell parses as such.
type Files struct {
	Sep         rune
	StringDelim rune
	DateFormats []string
	FloatFormat string

	// Strict fails the load when a non-missing cell does not parse as
	// the column's imputed type; otherwise the column demotes to string.
	Strict bool
}

type FileOpt func(f *Files)

func NewFiles(opts ...FileOpt) *Files {
	f := &Files{
		Sep:         sep,
		StringDelim: stringDelim,
		DateFormats: defaultDateFormats,
		FloatFormat: floatFormat,
	}

	for _, o := range opts {
		o(f)
	}

	return f
}

func FileSep(s rune) FileOpt {
	return func(f *Files) { f.Sep = s }
}

func FileDateFormats(formats []string) FileOpt {
	return func(f *Files) { f.DateFormats = formats }
}

func FileStrict(strict bool) FileOpt {
	return func(f *Files) { f.Strict = strict }
}

// Load reads fileName into a DF. Column names are normalized: spaces
// become underscores and names are lowercased.
func (f *Files) Load(fileName string) (*DF, error) {
	file, e := os.Open(fileName)
	if e != nil {
		return nil, e
	}
	defer func() { _ = file.Close() }()

	rdr := csv.NewReader(file)
	rdr.Comma = f.Sep
	rdr.FieldsPerRecord = 0 // all records must match the header

	raw, e := rdr.ReadAll()
	if e != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, e)
	}

	if len(raw) < 2 {
		return nil, fmt.Errorf("%s has no data rows", fileName)
	}

	header := raw[0]
	names := make([]string, len(header))
	for ind, nm := range header {
		names[ind] = NormalizeName(nm)
	}

	body := raw[1:]
	var cols []*Col
	for ind, nm := range names {
		cells := make([]string, len(body))
		for row := range body {
			cells[row] = strings.TrimSpace(body[row][ind])
		}

		col, ex := f.impute(nm, cells)
		if ex != nil {
			return nil, fmt.Errorf("%s: %w", fileName, ex)
		}

		cols = append(cols, col)
	}

	return NewDF(cols...)
}

// NormalizeName maps a raw header label to a column name: trimmed,
// lowercased, spaces to underscores.
func NormalizeName(nm string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(nm)), " ", "_")
}

// impute picks the narrowest type that fits every non-missing cell and
// converts. Order of preference: date, int, float, string.
func (f *Files) impute(name string, cells []string) (*Col, error) {
	dt := DTdate
	seen := false
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		seen = true

		switch dt {
		case DTdate:
			if _, ok := f.toDate(cell); ok {
				continue
			}
			dt = DTint
			fallthrough
		case DTint:
			if _, ok := toInt(cell); ok {
				continue
			}
			dt = DTfloat
			fallthrough
		case DTfloat:
			if _, ok := toFloat(cell); ok {
				continue
			}
			dt = DTstring
		}

		if dt == DTstring {
			break
		}
	}

	// an all-missing column stays string
	if !seen {
		dt = DTstring
	}

	data, e := f.convert(name, cells, dt)
	if e != nil {
		return nil, e
	}

	return NewCol(name, data)
}

// convert builds the typed backing slice for cells, rechecking each
// cell. A parse failure is an error under Strict and a demotion to
// string otherwise. The recheck matters: impute settles on a type from
// the cells it saw before demoting, convert sees them all.
func (f *Files) convert(name string, cells []string, dt DataTypes) (any, error) {
	switch dt {
	case DTdate:
		out := make([]time.Time, len(cells))
		for row, cell := range cells {
			if cell == "" {
				out[row] = MissingDate
				continue
			}

			v, ok := f.toDate(cell)
			if !ok {
				return f.demote(name, cells, "date", row)
			}
			out[row] = v
		}
		return out, nil
	case DTint:
		out := make([]int, len(cells))
		for row, cell := range cells {
			if cell == "" {
				out[row] = MissingInt
				continue
			}

			v, ok := toInt(cell)
			if !ok {
				return f.demote(name, cells, "int", row)
			}
			out[row] = v
		}
		return out, nil
	case DTfloat:
		out := make([]float64, len(cells))
		for row, cell := range cells {
			if cell == "" {
				out[row] = MissingFloat
				continue
			}

			v, ok := toFloat(cell)
			if !ok {
				return f.demote(name, cells, "float", row)
			}
			out[row] = v
		}
		return out, nil
	default:
		out := make([]string, len(cells))
		copy(out, cells)
		return out, nil
	}
}

func (f *Files) demote(name string, cells []string, want string, row int) (any, error) {
	if f.Strict {
		return nil, fmt.Errorf("column %s: row %d does not parse as %s", name, row+1, want)
	}

	out := make([]string, len(cells))
	copy(out, cells)

	return out, nil
}

func (f *Files) toDate(s string) (time.Time, bool) {
	for _, fmtx := range f.DateFormats {
		if dt, e := time.Parse(fmtx, s); e == nil {
			return dt, true
		}
	}

	return time.Time{}, false
}

// Save writes df to fileName as CSV, using the Files formats for dates
// and floats. Missing cells are written empty.
func (f *Files) Save(fileName string, df *DF) error {
	file, e := os.Create(fileName)
	if e != nil {
		return e
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	w.Comma = f.Sep

	if e := w.Write(df.ColumnNames()); e != nil {
		return e
	}

	dateFormat := "2006-01-02"
	if len(f.DateFormats) > 0 {
		dateFormat = f.DateFormats[0]
	}

	rec := make([]string, df.ColumnCount())
	for row := 0; row < df.RowCount(); row++ {
		for ind := 0; ind < df.ColumnCount(); ind++ {
			c, _ := df.Column(df.ColumnNames()[ind])
			if c.IsMissing(row) {
				rec[ind] = ""
				continue
			}

			switch c.DataType() {
			case DTfloat:
				rec[ind] = fmt.Sprintf(f.FloatFormat, c.Floats()[row])
			case DTdate:
				rec[ind] = c.Dates()[row].Format(dateFormat)
			default:
				rec[ind] = fmt.Sprintf("%v", c.Element(row))
			}
		}

		if e := w.Write(rec); e != nil {
			return e
		}
	}

	w.Flush()

	return w.Error()
}
