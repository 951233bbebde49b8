// Package frame holds a small columnar table: typed columns, sort,
// group counts and joins. It is the in-memory substrate the collision
// pipeline runs on.
package frame

import (
	"fmt"
	"math"
	"time"
)

// DataTypes are the column types the package supports.
type DataTypes uint8

const (
	DTunknown DataTypes = iota
	DTstring
	DTint
	DTfloat
	DTdate
)

func (dt DataTypes) String() string {
	switch dt {
	case DTstring:
		return "string"
	case DTint:
		return "int"
	case DTfloat:
		return "float"
	case DTdate:
		return "date"
	default:
		return "unknown"
	}
}

// Missing-value sentinels. A cell is missing when it holds the sentinel
// for its column type; IsMissing is the one place that knows this.
const (
	MissingInt    = math.MinInt
	MissingString = ""
)

var (
	MissingFloat = math.NaN()
	MissingDate  = time.Time{}
)

// ErrColumnNotFound is returned when a column name does not resolve.
var ErrColumnNotFound = fmt.Errorf("column not found")

// Col is a named, typed column. The data is one of []string, []int,
// []float64, []time.Time.
type Col struct {
	name string
	dt   DataTypes
	data any
}

// NewCol creates a column, deriving the type from data.
func NewCol(name string, data any) (*Col, error) {
	dt := WhatAmI(data)
	if dt == DTunknown {
		return nil, fmt.Errorf("unsupported data type for column %s", name)
	}

	return &Col{name: name, dt: dt, data: data}, nil
}

// WhatAmI returns the DataTypes value corresponding to a slice (or scalar).
func WhatAmI(val any) DataTypes {
	switch val.(type) {
	case string, []string:
		return DTstring
	case int, []int:
		return DTint
	case float64, []float64:
		return DTfloat
	case time.Time, []time.Time:
		return DTdate
	default:
		return DTunknown
	}
}

func (c *Col) Name() string { return c.name }

func (c *Col) Rename(to string) { c.name = to }

func (c *Col) DataType() DataTypes { return c.dt }

func (c *Col) Data() any { return c.data }

// Strings returns the data as []string. Panics if the column is not DTstring;
// asking for the wrong type is a programmer error.
func (c *Col) Strings() []string { return c.data.([]string) }

func (c *Col) Ints() []int { return c.data.([]int) }

func (c *Col) Floats() []float64 { return c.data.([]float64) }

func (c *Col) Dates() []time.Time { return c.data.([]time.Time) }

func (c *Col) Len() int {
	switch c.dt {
	case DTstring:
		return len(c.Strings())
	case DTint:
		return len(c.Ints())
	case DTfloat:
		return len(c.Floats())
	case DTdate:
		return len(c.Dates())
	default:
		return -1
	}
}

func (c *Col) Element(row int) any {
	switch c.dt {
	case DTstring:
		return c.Strings()[row]
	case DTint:
		return c.Ints()[row]
	case DTfloat:
		return c.Floats()[row]
	case DTdate:
		return c.Dates()[row]
	default:
		panic(fmt.Errorf("unsupported data type in Element"))
	}
}

// IsMissing reports whether the cell at row holds the missing sentinel.
func (c *Col) IsMissing(row int) bool {
	switch c.dt {
	case DTstring:
		return c.Strings()[row] == MissingString
	case DTint:
		return c.Ints()[row] == MissingInt
	case DTfloat:
		return math.IsNaN(c.Floats()[row])
	case DTdate:
		return c.Dates()[row].IsZero()
	default:
		return true
	}
}

func (c *Col) Copy() *Col {
	var copied any

	switch c.dt {
	case DTstring:
		d := make([]string, c.Len())
		copy(d, c.Strings())
		copied = d
	case DTint:
		d := make([]int, c.Len())
		copy(d, c.Ints())
		copied = d
	case DTfloat:
		d := make([]float64, c.Len())
		copy(d, c.Floats())
		copied = d
	case DTdate:
		d := make([]time.Time, c.Len())
		copy(d, c.Dates())
		copied = d
	default:
		panic(fmt.Errorf("unsupported data type in Copy"))
	}

	return &Col{name: c.name, dt: c.dt, data: copied}
}

// subset returns a new column holding the given rows, in order.
func (c *Col) subset(rows []int) *Col {
	var out any

	switch c.dt {
	case DTstring:
		src, d := c.Strings(), make([]string, len(rows))
		for ind, r := range rows {
			d[ind] = src[r]
		}
		out = d
	case DTint:
		src, d := c.Ints(), make([]int, len(rows))
		for ind, r := range rows {
			d[ind] = src[r]
		}
		out = d
	case DTfloat:
		src, d := c.Floats(), make([]float64, len(rows))
		for ind, r := range rows {
			d[ind] = src[r]
		}
		out = d
	case DTdate:
		src, d := c.Dates(), make([]time.Time, len(rows))
		for ind, r := range rows {
			d[ind] = src[r]
		}
		out = d
	default:
		panic(fmt.Errorf("unsupported data type in subset"))
	}

	return &Col{name: c.name, dt: c.dt, data: out}
}

// less orders rows i,j within the column. Missing sorts first.
func (c *Col) less(i, j int) bool {
	switch c.dt {
	case DTstring:
		return c.Strings()[i] < c.Strings()[j]
	case DTint:
		return c.Ints()[i] < c.Ints()[j]
	case DTfloat:
		xi, xj := c.Floats()[i], c.Floats()[j]
		if math.IsNaN(xi) {
			return !math.IsNaN(xj)
		}
		return xi < xj
	case DTdate:
		return c.Dates()[i].Before(c.Dates()[j])
	default:
		panic(fmt.Errorf("unsupported data type in less"))
	}
}
