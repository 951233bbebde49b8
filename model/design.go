// Package model fits a binomial logistic regression on derived
// covariates. The design matrix is built from an explicit list of
// (column, encoding) terms; no formula language.
package model

import (
	"fmt"
	"sort"

	"github.com/joshday/DataJamboree2022/frame"
	"gonum.org/v1/gonum/mat"
)

// TermKind picks the encoding for a covariate column.
type TermKind uint8

const (
	// Numeric takes the column as-is (ints promote to float).
	Numeric TermKind = iota
	// Categorical one-hot encodes the column, dropping the sorted-first
	// level as the reference.
	Categorical
)

// Term is one covariate.
type Term struct {
	Col  string
	Kind TermKind
}

// DesignMatrix is the encoded model input: X has an intercept as its
// first column and Names aligns to X's columns. Y holds the 0/1
// response. Rows with a missing response or a missing numeric covariate
// are dropped (Dropped counts them); a missing categorical value is its
// own level.
type DesignMatrix struct {
	X       *mat.Dense
	Y       []float64
	Names   []string
	Dropped int
}

const missingLevel = "(missing)"

// Design builds the design matrix for response ~ terms over df.
func Design(df *frame.DF, response string, terms []Term) (*DesignMatrix, error) {
	yc, e := df.Column(response)
	if e != nil {
		return nil, e
	}
	if yc.DataType() != frame.DTint && yc.DataType() != frame.DTfloat {
		return nil, fmt.Errorf("response %s is %v, want int or float", response, yc.DataType())
	}

	cols := make([]*frame.Col, len(terms))
	for ind, t := range terms {
		c, ex := df.Column(t.Col)
		if ex != nil {
			return nil, ex
		}

		if t.Kind == Numeric && c.DataType() != frame.DTint && c.DataType() != frame.DTfloat {
			return nil, fmt.Errorf("numeric term %s is %v", t.Col, c.DataType())
		}

		cols[ind] = c
	}

	// complete-case rows
	var rows []int
	for row := 0; row < df.RowCount(); row++ {
		ok := !yc.IsMissing(row)
		for ind, t := range terms {
			if t.Kind == Numeric && cols[ind].IsMissing(row) {
				ok = false
			}
		}

		if ok {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no complete rows for design matrix")
	}

	// levels per categorical term; the sorted-first level is the reference
	levels := make([][]string, len(terms))
	for ind, t := range terms {
		if t.Kind != Categorical {
			continue
		}

		set := make(map[string]bool)
		for _, row := range rows {
			set[levelOf(cols[ind], row)] = true
		}

		var lv []string
		for k := range set {
			lv = append(lv, k)
		}
		sort.Strings(lv)
		if len(lv) < 2 {
			return nil, fmt.Errorf("categorical term %s has a single level", t.Col)
		}

		levels[ind] = lv
	}

	names := []string{"(intercept)"}
	for ind, t := range terms {
		if t.Kind == Numeric {
			names = append(names, t.Col)
			continue
		}

		for _, lv := range levels[ind][1:] {
			names = append(names, t.Col+"="+lv)
		}
	}

	x := mat.NewDense(len(rows), len(names), nil)
	y := make([]float64, len(rows))

	for i, row := range rows {
		y[i] = numericAt(yc, row)
		if y[i] != 0 && y[i] != 1 {
			return nil, fmt.Errorf("response %s is not 0/1 at row %d", response, row+1)
		}

		x.Set(i, 0, 1)
		pos := 1
		for ind, t := range terms {
			if t.Kind == Numeric {
				x.Set(i, pos, numericAt(cols[ind], row))
				pos++
				continue
			}

			lv := levelOf(cols[ind], row)
			for _, l := range levels[ind][1:] {
				if lv == l {
					x.Set(i, pos, 1)
				}
				pos++
			}
		}
	}

	return &DesignMatrix{X: x, Y: y, Names: names, Dropped: df.RowCount() - len(rows)}, nil
}

func levelOf(c *frame.Col, row int) string {
	if c.IsMissing(row) {
		return missingLevel
	}

	return fmt.Sprintf("%v", c.Element(row))
}

func numericAt(c *frame.Col, row int) float64 {
	if c.DataType() == frame.DTint {
		return float64(c.Ints()[row])
	}

	return c.Floats()[row]
}
