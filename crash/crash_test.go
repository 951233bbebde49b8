package crash

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/joshday/DataJamboree2022/frame"
	"github.com/joshday/DataJamboree2022/geo"
	"github.com/stretchr/testify/assert"
)

func loadFixture(t *testing.T) *frame.DF {
	df, e := Load(frame.NewFiles(), filepath.Join("testdata", "crashes.csv"))
	assert.Nil(t, e)

	return df
}

func TestLoad(t *testing.T) {
	df := loadFixture(t)
	assert.Equal(t, 5, df.RowCount())

	zip, _ := df.Column(ColZip)
	assert.Equal(t, frame.DTint, zip.DataType())
	assert.True(t, zip.IsMissing(2))

	boro, _ := df.Column(ColBorough)
	assert.True(t, boro.IsMissing(1))
}

func TestDerive_Killed(t *testing.T) {
	df := loadFixture(t)

	diag, e := Derive(df, 2)
	assert.Nil(t, e)

	nk, _ := df.Column(ColNKilled)
	assert.Equal(t, []int{0, 1, 1, 0, 1}, nk.Ints())

	death, _ := df.Column(ColDeath)
	assert.Equal(t, []int{0, 1, 1, 0, 1}, death.Ints())

	// row 3 records 0 persons killed but one cyclist died
	assert.Equal(t, 5, diag.Records)
	assert.Equal(t, 4, diag.Matched)
	assert.Equal(t, 80.00, diag.Pct)
	assert.Equal(t, 1, diag.Mismatches.RowCount())
}

func TestDerive_Hour(t *testing.T) {
	df := loadFixture(t)

	_, e := Derive(df, 2)
	assert.Nil(t, e)

	hour, _ := df.Column(ColHour)
	assert.Equal(t, []int{23, 0, 12, 9, 18}, hour.Ints())
}

func TestDerive_Factor(t *testing.T) {
	df := loadFixture(t)

	// threshold 2: Unspecified (seen once) collapses, the empty label
	// (seen twice) is kept as its own category
	_, e := Derive(df, 2)
	assert.Nil(t, e)

	f1, _ := df.Column(ColFactor1)
	assert.Equal(t, []string{"Alcohol Involvement", "Alcohol Involvement", Other, "", ""}, f1.Strings())
}

func TestRareLevels(t *testing.T) {
	labels := make([]string, 0)
	for nm, n := range map[string]int{"A": 150, "B": 40, "C": 99, "D": 100} {
		for i := 0; i < n; i++ {
			labels = append(labels, nm)
		}
	}

	rare := RareLevels(labels, 100)
	assert.True(t, rare["B"])
	assert.True(t, rare["C"])
	assert.False(t, rare["A"])
	assert.False(t, rare["D"]) // exactly at threshold is kept
}

func TestDerive_BadTime(t *testing.T) {
	dates, _ := frame.NewCol(ColDate, []time.Time{time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC)})
	times, _ := frame.NewCol(ColTime, []string{"25:99"})
	df, _ := frame.NewDF(dates, times)

	assert.NotNil(t, deriveHour(df))
}

func TestImputeBorough(t *testing.T) {
	df := loadFixture(t)

	boroughs, e := geo.LoadBoroughs(filepath.Join("testdata", "boroughs.geojson"), "boro_name")
	assert.Nil(t, e)

	filled, e := ImputeBorough(df, boroughs)
	assert.Nil(t, e)
	assert.Equal(t, 1, filled)

	boro, _ := df.Column(ColBorough)
	assert.Equal(t, "BROOKLYN", boro.Strings()[1])
	// no usable coordinates: stays missing
	assert.True(t, boro.IsMissing(2))
}
