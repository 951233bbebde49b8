package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeDF() *DF {
	x := []float64{3, 1, 2}
	nm := []string{"c", "a", "b"}

	xCol, _ := NewCol("x", x)
	nmCol, _ := NewCol("name", nm)

	df, _ := NewDF(xCol, nmCol)

	return df
}

func TestNewCol(t *testing.T) {
	c, e := NewCol("x", []float64{1, 2})
	assert.Nil(t, e)
	assert.Equal(t, DTfloat, c.DataType())
	assert.Equal(t, 2, c.Len())

	_, e = NewCol("bad", []uint8{1})
	assert.NotNil(t, e)
}

func TestDF_Column(t *testing.T) {
	df := makeDF()

	xg, ex := df.Column("x")
	assert.Nil(t, ex)
	assert.ElementsMatch(t, []float64{3, 1, 2}, xg.Data())

	_, e := df.Column("nope")
	assert.NotNil(t, e)
	assert.ErrorIs(t, e, ErrColumnNotFound)
}

func TestDF_AppendColumn(t *testing.T) {
	df := makeDF()

	dup, _ := NewCol("x", []int{1, 2, 3})
	assert.NotNil(t, df.AppendColumn(dup))

	short, _ := NewCol("y", []int{1, 2})
	assert.NotNil(t, df.AppendColumn(short))

	ok, _ := NewCol("y", []int{1, 2, 3})
	assert.Nil(t, df.AppendColumn(ok))
	assert.Equal(t, 3, df.ColumnCount())
}

func TestDF_Sort(t *testing.T) {
	df := makeDF()

	assert.Nil(t, df.Sort("x"))
	x, _ := df.Column("x")
	nm, _ := df.Column("name")
	assert.Equal(t, []float64{1, 2, 3}, x.Floats())
	assert.Equal(t, []string{"a", "b", "c"}, nm.Strings())
}

func TestDF_SortMissingFirst(t *testing.T) {
	xCol, _ := NewCol("x", []float64{2, math.NaN(), 1})
	df, _ := NewDF(xCol)

	assert.Nil(t, df.Sort("x"))
	x, _ := df.Column("x")
	assert.True(t, x.IsMissing(0))
	assert.Equal(t, []float64{1, 2}, x.Floats()[1:])
}

func TestDF_Subset(t *testing.T) {
	df := makeDF()

	sub, e := df.Subset([]int{2, 0})
	assert.Nil(t, e)
	assert.Equal(t, 2, sub.RowCount())

	nm, _ := sub.Column("name")
	assert.Equal(t, []string{"b", "c"}, nm.Strings())

	_, e = df.Subset([]int{5})
	assert.NotNil(t, e)
}

func TestDF_GroupCount(t *testing.T) {
	c, _ := NewCol("k", []string{"b", "a", "a", ""})
	df, _ := NewDF(c)

	counts, e := df.GroupCount("k", false)
	assert.Nil(t, e)

	k, _ := counts.Column("k")
	n, _ := counts.Column("n")
	assert.Equal(t, []string{"a", "b"}, k.Strings())
	assert.Equal(t, []int{2, 1}, n.Ints())

	withMissing, e := df.GroupCount("k", true)
	assert.Nil(t, e)
	assert.Equal(t, 3, withMissing.RowCount())
}

func TestDF_InnerJoin(t *testing.T) {
	lk, _ := NewCol("zip", []int{10001, 10002, MissingInt})
	ln, _ := NewCol("n", []int{5, 3, 9})
	left, _ := NewDF(lk, ln)

	rk, _ := NewCol("zip", []int{10001, 10003})
	ri, _ := NewCol("income", []float64{75000, 60000})
	right, _ := NewDF(rk, ri)

	out, e := left.InnerJoin(right, "zip")
	assert.Nil(t, e)
	assert.Equal(t, 1, out.RowCount())

	z, _ := out.Column("zip")
	inc, _ := out.Column("income")
	assert.Equal(t, []int{10001}, z.Ints())
	assert.Equal(t, []float64{75000}, inc.Floats())
}

func TestDF_InnerJoinClash(t *testing.T) {
	lk, _ := NewCol("zip", []int{10001})
	ln, _ := NewCol("n", []int{5})
	left, _ := NewDF(lk, ln)

	rk, _ := NewCol("zip", []int{10001})
	rn, _ := NewCol("n", []int{7})
	right, _ := NewDF(rk, rn)

	_, e := left.InnerJoin(right, "zip")
	assert.NotNil(t, e)
}

func TestCol_IsMissing(t *testing.T) {
	ic, _ := NewCol("i", []int{1, MissingInt})
	fc, _ := NewCol("f", []float64{1, math.NaN()})
	sc, _ := NewCol("s", []string{"x", ""})

	assert.False(t, ic.IsMissing(0))
	assert.True(t, ic.IsMissing(1))
	assert.True(t, fc.IsMissing(1))
	assert.True(t, sc.IsMissing(1))
}
