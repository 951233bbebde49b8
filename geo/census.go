// Package geo joins zip-level crash counts to census income data and
// polygon geometry, and resolves coordinates to boroughs.
package geo

import (
	"fmt"
	"strconv"

	"github.com/joshday/DataJamboree2022/frame"
)

// Census maps a zip code to its median household income.
type Census map[int]float64

// ZipFromName extracts the zip code from a census name field whose
// trailing 5 characters encode it (e.g. "ZCTA5 10001"). A non-integer
// suffix is an error, not a silent null.
func ZipFromName(name string) (int, error) {
	if len(name) < 5 {
		return 0, fmt.Errorf("census name %q too short to hold a zip code", name)
	}

	z, e := strconv.Atoi(name[len(name)-5:])
	if e != nil {
		return 0, fmt.Errorf("census name %q: trailing 5 characters are not a zip code", name)
	}

	return z, nil
}

// LoadCensus reads a census CSV whose nameCol trailing 5 characters are
// the zip code and whose incomeCol is median household income. Census
// missing-data sentinels (income <= 0) are dropped.
func LoadCensus(files *frame.Files, fileName, nameCol, incomeCol string) (Census, error) {
	df, e := files.Load(fileName)
	if e != nil {
		return nil, e
	}

	names, e := df.Column(nameCol)
	if e != nil {
		return nil, fmt.Errorf("%s: %w", fileName, e)
	}
	if names.DataType() != frame.DTstring {
		return nil, fmt.Errorf("%s: column %s is %v, want string", fileName, nameCol, names.DataType())
	}

	income, e := df.Column(incomeCol)
	if e != nil {
		return nil, fmt.Errorf("%s: %w", fileName, e)
	}

	out := make(Census)
	for row := 0; row < df.RowCount(); row++ {
		if names.IsMissing(row) {
			return nil, fmt.Errorf("%s: row %d: missing name field", fileName, row+1)
		}

		z, ex := ZipFromName(names.Strings()[row])
		if ex != nil {
			return nil, fmt.Errorf("%s: row %d: %w", fileName, row+1, ex)
		}

		if income.IsMissing(row) {
			continue
		}

		v := incomeAt(income, row)
		if v <= 0 {
			continue
		}

		out[z] = v
	}

	return out, nil
}

func incomeAt(c *frame.Col, row int) float64 {
	if c.DataType() == frame.DTint {
		return float64(c.Ints()[row])
	}

	return c.Floats()[row]
}
