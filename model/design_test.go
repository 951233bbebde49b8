package model

import (
	"testing"

	"github.com/joshday/DataJamboree2022/frame"
	"github.com/stretchr/testify/assert"
)

func TestDesign(t *testing.T) {
	y, _ := frame.NewCol("death", []int{0, 1, 0, 1})
	hour, _ := frame.NewCol("hour", []int{1, 2, 3, 4})
	boro, _ := frame.NewCol("borough", []string{"QUEENS", "BRONX", "QUEENS", "BRONX"})
	df, _ := frame.NewDF(y, hour, boro)

	d, e := Design(df, "death", []Term{
		{Col: "hour", Kind: Numeric},
		{Col: "borough", Kind: Categorical},
	})
	assert.Nil(t, e)

	// BRONX sorts first and is the reference level
	assert.Equal(t, []string{"(intercept)", "hour", "borough=QUEENS"}, d.Names)
	assert.Equal(t, 0, d.Dropped)

	r, c := d.X.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, d.X.At(0, 0))
	assert.Equal(t, 1.0, d.X.At(0, 2)) // row 0 is QUEENS
	assert.Equal(t, 0.0, d.X.At(1, 2)) // row 1 is the reference
	assert.Equal(t, []float64{0, 1, 0, 1}, d.Y)
}

func TestDesign_MissingRows(t *testing.T) {
	y, _ := frame.NewCol("death", []int{0, 1, frame.MissingInt})
	hour, _ := frame.NewCol("hour", []int{1, frame.MissingInt, 3})
	boro, _ := frame.NewCol("borough", []string{"QUEENS", "BRONX", "QUEENS"})
	df, _ := frame.NewDF(y, hour, boro)

	// a missing response or numeric covariate drops the row
	d, e := Design(df, "death", []Term{{Col: "hour", Kind: Numeric}})
	assert.Nil(t, e)
	assert.Equal(t, 2, d.Dropped)

	r, _ := d.X.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, []string{"(intercept)", "hour"}, d.Names)
}

func TestDesign_MissingCategorical(t *testing.T) {
	y, _ := frame.NewCol("death", []int{0, 1, 0})
	boro, _ := frame.NewCol("borough", []string{"QUEENS", "", "QUEENS"})
	df, _ := frame.NewDF(y, boro)

	// a missing categorical value becomes its own level, not a dropped row
	d, e := Design(df, "death", []Term{{Col: "borough", Kind: Categorical}})
	assert.Nil(t, e)
	assert.Equal(t, 0, d.Dropped)
	assert.Equal(t, []string{"(intercept)", "borough=QUEENS"}, d.Names)
}

func TestDesign_Errors(t *testing.T) {
	y, _ := frame.NewCol("death", []int{0, 2})
	boro, _ := frame.NewCol("borough", []string{"QUEENS", "BRONX"})
	df, _ := frame.NewDF(y, boro)

	// response must be 0/1
	_, e := Design(df, "death", []Term{{Col: "borough", Kind: Categorical}})
	assert.NotNil(t, e)

	// single-level categorical
	y2, _ := frame.NewCol("death", []int{0, 1})
	one, _ := frame.NewCol("borough", []string{"QUEENS", "QUEENS"})
	df2, _ := frame.NewDF(y2, one)
	_, e = Design(df2, "death", []Term{{Col: "borough", Kind: Categorical}})
	assert.NotNil(t, e)
}
