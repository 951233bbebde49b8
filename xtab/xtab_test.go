package xtab

import (
	"testing"

	"github.com/joshday/DataJamboree2022/frame"
	"github.com/stretchr/testify/assert"
)

func makeTable(t *testing.T, counts [][]int) *Table {
	rows := make([]string, len(counts))
	for i := range rows {
		rows[i] = string(rune('a' + i))
	}
	cols := make([]string, len(counts[0]))
	for j := range cols {
		cols[j] = string(rune('0' + j))
	}

	tbl, e := NewTable("r", "c", rows, cols, counts)
	assert.Nil(t, e)

	return tbl
}

func TestCrosstab(t *testing.T) {
	boro, _ := frame.NewCol("borough", []string{"BROOKLYN", "QUEENS", "BROOKLYN", "", "QUEENS"})
	death, _ := frame.NewCol("death", []int{0, 1, 0, 0, 0})
	df, _ := frame.NewDF(boro, death)

	tbl, e := Crosstab(df, "borough", "death", true)
	assert.Nil(t, e)
	assert.Equal(t, []string{MissingLabel, "BROOKLYN", "QUEENS"}, tbl.Rows)
	assert.Equal(t, []string{"0", "1"}, tbl.Cols)

	// cell counts sum back to the row count
	assert.Equal(t, df.RowCount(), tbl.N())
	assert.Equal(t, [][]int{{1, 0}, {2, 0}, {1, 1}}, tbl.Counts)

	dropped, e := Crosstab(df, "borough", "death", false)
	assert.Nil(t, e)
	assert.Equal(t, 4, dropped.N())
	assert.Equal(t, []string{"BROOKLYN", "QUEENS"}, dropped.Rows)
}

func TestTable_Margins(t *testing.T) {
	tbl := makeTable(t, [][]int{{10, 20}, {30, 5}})

	assert.Equal(t, 65, tbl.N())
	assert.Equal(t, []int{30, 35}, tbl.RowTotals())
	assert.Equal(t, []int{40, 25}, tbl.ColTotals())

	exp := tbl.Expected()
	assert.InDelta(t, 30.0*40.0/65.0, exp[0][0], 1e-12)
}

func TestTable_Validate(t *testing.T) {
	assert.Nil(t, makeTable(t, [][]int{{10, 20}, {30, 5}}).Validate())

	oneRow := makeTable(t, [][]int{{10, 20}})
	assert.ErrorIs(t, oneRow.Validate(), ErrInvalidTable)

	zeroMargin := makeTable(t, [][]int{{10, 0}, {30, 0}})
	assert.ErrorIs(t, zeroMargin.Validate(), ErrInvalidTable)
}

func TestChiSquare(t *testing.T) {
	tbl := makeTable(t, [][]int{{10, 20}, {30, 5}})

	res, e := tbl.ChiSquare()
	assert.Nil(t, e)
	assert.Equal(t, 1, res.Dof)
	assert.Equal(t, 65, res.N)
	// 1573/84, by hand
	assert.InDelta(t, 18.726190476190474, res.Stat, 1e-9)
	assert.Less(t, res.PValue, 0.001)
	assert.Greater(t, res.PValue, 0.0)
}

func TestChiSquare_Independent(t *testing.T) {
	// observed equals expected: statistic is 0, p-value 1
	tbl := makeTable(t, [][]int{{10, 10}, {20, 20}})

	res, e := tbl.ChiSquare()
	assert.Nil(t, e)
	assert.InDelta(t, 0.0, res.Stat, 1e-12)
	assert.InDelta(t, 1.0, res.PValue, 1e-12)
}

func TestChiSquare_ZeroMargin(t *testing.T) {
	// a zero column margin fails Validate but the explicit summation
	// still yields a statistic: zero-expected cells are skipped
	tbl := makeTable(t, [][]int{{10, 0}, {30, 0}})
	assert.NotNil(t, tbl.Validate())

	res, e := tbl.ChiSquare()
	assert.Nil(t, e)
	assert.InDelta(t, 0.0, res.Stat, 1e-12)
}

func TestChiSquare_Invalid(t *testing.T) {
	oneCol, e := NewTable("r", "c", []string{"a", "b"}, []string{"0"}, [][]int{{1}, {2}})
	assert.Nil(t, e)
	_, e = oneCol.ChiSquare()
	assert.ErrorIs(t, e, ErrInvalidTable)

	empty := makeTable(t, [][]int{{0, 0}, {0, 0}})
	_, e = empty.ChiSquare()
	assert.ErrorIs(t, e, ErrInvalidTable)
}

func TestNewTable_Shape(t *testing.T) {
	_, e := NewTable("r", "c", []string{"a"}, []string{"0", "1"}, [][]int{{1, 2}, {3, 4}})
	assert.NotNil(t, e)

	_, e = NewTable("r", "c", []string{"a", "b"}, []string{"0", "1"}, [][]int{{1, 2}, {3}})
	assert.NotNil(t, e)
}
