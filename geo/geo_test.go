package geo

import (
	"path/filepath"
	"testing"

	"github.com/joshday/DataJamboree2022/frame"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestZipFromName(t *testing.T) {
	z, e := ZipFromName("ZCTA5 10001")
	assert.Nil(t, e)
	assert.Equal(t, 10001, z)

	_, e = ZipFromName("ZCTA5 1000A")
	assert.NotNil(t, e)

	_, e = ZipFromName("1234")
	assert.NotNil(t, e)
}

func TestLoadCensus(t *testing.T) {
	census, e := LoadCensus(frame.NewFiles(), filepath.Join("testdata", "census.csv"), "name", "median_income")
	assert.Nil(t, e)

	// the census missing-data sentinel and the blank income drop out
	assert.Equal(t, 2, len(census))
	assert.Equal(t, 95000.0, census[10001])
	assert.Equal(t, 120000.0, census[10003])
}

func TestLoadZipPolygons(t *testing.T) {
	shapes, e := LoadZipPolygons(filepath.Join("testdata", "zips.geojson"), "postalCode")
	assert.Nil(t, e)
	assert.Equal(t, 2, len(shapes.ByZip))
	assert.Equal(t, "postalCode", shapes.Property)

	_, ok := shapes.ByZip[10001]
	assert.True(t, ok)

	_, e = LoadZipPolygons(filepath.Join("testdata", "badzips.geojson"), "postalCode")
	assert.NotNil(t, e)
}

func TestBoroughs_Find(t *testing.T) {
	boroughs, e := LoadBoroughs(filepath.Join("testdata", "boroughs.geojson"), "boro_name")
	assert.Nil(t, e)
	assert.ElementsMatch(t, []string{"MANHATTAN", "STATEN ISLAND"}, boroughs.Names())

	nm, ok := boroughs.Find(orb.Point{-73.99, 40.75})
	assert.True(t, ok)
	assert.Equal(t, "MANHATTAN", nm)

	nm, ok = boroughs.Find(orb.Point{-74.15, 40.58})
	assert.True(t, ok)
	assert.Equal(t, "STATEN ISLAND", nm)

	_, ok = boroughs.Find(orb.Point{0, 0})
	assert.False(t, ok)
}

func TestAggregate(t *testing.T) {
	zc, _ := frame.NewCol("zip_code", []int{10001, 10002, 10005, frame.MissingInt})
	nc, _ := frame.NewCol("n", []int{5, 3, 2, 9})
	counts, _ := frame.NewDF(zc, nc)

	census := Census{10001: 95000, 10003: 120000}

	shapes, e := LoadZipPolygons(filepath.Join("testdata", "zips.geojson"), "postalCode")
	assert.Nil(t, e)

	// only zips present in the counts, the census and the shapes survive
	aggs, e := Aggregate(counts, "zip_code", census, shapes)
	assert.Nil(t, e)
	assert.Equal(t, 1, len(aggs))
	assert.Equal(t, 10001, aggs[0].Zip)
	assert.Equal(t, 5, aggs[0].Crashes)
	assert.Equal(t, 95000.0, aggs[0].MedianIncome)
	assert.NotNil(t, aggs[0].Geometry)
}
