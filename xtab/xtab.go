// Package xtab builds contingency tables over categorical columns and
// tests independence with the chi-squared statistic.
package xtab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joshday/DataJamboree2022/frame"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidTable flags a contingency table a strict chi-squared test
// cannot handle: a zero row/column margin or fewer than two levels on
// either variable.
var ErrInvalidTable = fmt.Errorf("invalid contingency table")

// MissingLabel buckets missing values when a cross-tab keeps them.
const MissingLabel = "(missing)"

// Table is a two-way table of counts. Row and column levels are sorted
// and data-dependent.
type Table struct {
	RowVar, ColVar string
	Rows, Cols     []string
	Counts         [][]int
}

// NewTable builds a Table from explicit levels and counts; counts must
// be len(rows) x len(cols).
func NewTable(rowVar, colVar string, rows, cols []string, counts [][]int) (*Table, error) {
	if len(counts) != len(rows) {
		return nil, fmt.Errorf("counts have %d rows, want %d", len(counts), len(rows))
	}

	for _, r := range counts {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("counts row has %d columns, want %d", len(r), len(cols))
		}
	}

	return &Table{RowVar: rowVar, ColVar: colVar, Rows: rows, Cols: cols, Counts: counts}, nil
}

// Crosstab tabulates rowVar by colVar. When includeMissing is true,
// missing values of either variable are bucketed under MissingLabel;
// otherwise rows with a missing value of either variable are dropped.
func Crosstab(df *frame.DF, rowVar, colVar string, includeMissing bool) (*Table, error) {
	rc, e := df.Column(rowVar)
	if e != nil {
		return nil, e
	}

	cc, e := df.Column(colVar)
	if e != nil {
		return nil, e
	}

	cells := make(map[[2]string]int)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)

	for row := 0; row < df.RowCount(); row++ {
		if !includeMissing && (rc.IsMissing(row) || cc.IsMissing(row)) {
			continue
		}

		rl := label(rc, row)
		cl := label(cc, row)
		rowSet[rl] = true
		colSet[cl] = true
		cells[[2]string{rl, cl}]++
	}

	rows := sortedKeys(rowSet)
	cols := sortedKeys(colSet)

	counts := make([][]int, len(rows))
	for i, rl := range rows {
		counts[i] = make([]int, len(cols))
		for j, cl := range cols {
			counts[i][j] = cells[[2]string{rl, cl}]
		}
	}

	return &Table{RowVar: rowVar, ColVar: colVar, Rows: rows, Cols: cols, Counts: counts}, nil
}

// N is the grand total.
func (t *Table) N() int {
	n := 0
	for _, r := range t.Counts {
		for _, c := range r {
			n += c
		}
	}

	return n
}

func (t *Table) RowTotals() []int {
	out := make([]int, len(t.Rows))
	for i, r := range t.Counts {
		for _, c := range r {
			out[i] += c
		}
	}

	return out
}

func (t *Table) ColTotals() []int {
	out := make([]int, len(t.Cols))
	for _, r := range t.Counts {
		for j, c := range r {
			out[j] += c
		}
	}

	return out
}

// Expected returns the cell counts expected under independence,
// E[i][j] = rowTotal[i] * colTotal[j] / N.
func (t *Table) Expected() [][]float64 {
	rt, ct, n := t.RowTotals(), t.ColTotals(), float64(t.N())

	out := make([][]float64, len(t.Rows))
	for i := range t.Rows {
		out[i] = make([]float64, len(t.Cols))
		for j := range t.Cols {
			out[i][j] = float64(rt[i]) * float64(ct[j]) / n
		}
	}

	return out
}

// Validate reports whether the table satisfies the strict chi-squared
// preconditions: at least two levels each way and no zero margin.
func (t *Table) Validate() error {
	if len(t.Rows) < 2 || len(t.Cols) < 2 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTable, len(t.Rows), len(t.Cols))
	}

	for i, v := range t.RowTotals() {
		if v == 0 {
			return fmt.Errorf("%w: row %s has zero total", ErrInvalidTable, t.Rows[i])
		}
	}

	for j, v := range t.ColTotals() {
		if v == 0 {
			return fmt.Errorf("%w: column %s has zero total", ErrInvalidTable, t.Cols[j])
		}
	}

	return nil
}

// ChiSqResult is the outcome of a chi-squared independence test.
type ChiSqResult struct {
	Stat   float64
	Dof    int
	PValue float64
	N      int
}

func (r ChiSqResult) String() string {
	return fmt.Sprintf("chi-squared = %.4f, df = %d, p = %.6g (n = %d)", r.Stat, r.Dof, r.PValue, r.N)
}

// ChiSquare computes the independence test by explicit summation over
// cells. Cells with zero expected count necessarily have zero observed
// count (their whole margin is zero) and are skipped, so a degenerate
// margin yields a well-defined statistic instead of a domain error.
func (t *Table) ChiSquare() (ChiSqResult, error) {
	dof := (len(t.Rows) - 1) * (len(t.Cols) - 1)
	if dof < 1 {
		return ChiSqResult{}, fmt.Errorf("%w: %dx%d has no degrees of freedom", ErrInvalidTable, len(t.Rows), len(t.Cols))
	}

	n := t.N()
	if n == 0 {
		return ChiSqResult{}, fmt.Errorf("%w: empty table", ErrInvalidTable)
	}

	exp := t.Expected()
	stat := 0.0
	for i := range t.Rows {
		for j := range t.Cols {
			if exp[i][j] == 0 {
				continue
			}

			d := float64(t.Counts[i][j]) - exp[i][j]
			stat += d * d / exp[i][j]
		}
	}

	dist := distuv.ChiSquared{K: float64(dof)}

	return ChiSqResult{Stat: stat, Dof: dof, PValue: dist.Survival(stat), N: n}, nil
}

// String renders the table with margins.
func (t *Table) String() string {
	width := len(t.RowVar)
	for _, r := range t.Rows {
		if len(r) > width {
			width = len(r)
		}
	}

	colW := make([]int, len(t.Cols))
	for j, c := range t.Cols {
		colW[j] = len(c)
		if colW[j] < 6 {
			colW[j] = 6
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  ", width, t.RowVar+"\\"+t.ColVar)
	for j, c := range t.Cols {
		fmt.Fprintf(&b, "%*s  ", colW[j], c)
	}
	fmt.Fprintf(&b, "%6s\n", "total")

	rt := t.RowTotals()
	for i, r := range t.Rows {
		fmt.Fprintf(&b, "%-*s  ", width, r)
		for j := range t.Cols {
			fmt.Fprintf(&b, "%*d  ", colW[j], t.Counts[i][j])
		}
		fmt.Fprintf(&b, "%6d\n", rt[i])
	}

	fmt.Fprintf(&b, "%-*s  ", width, "total")
	for j, v := range t.ColTotals() {
		fmt.Fprintf(&b, "%*d  ", colW[j], v)
	}
	fmt.Fprintf(&b, "%6d\n", t.N())

	return b.String()
}

func label(c *frame.Col, row int) string {
	if c.IsMissing(row) {
		return MissingLabel
	}

	return fmt.Sprintf("%v", c.Element(row))
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
