package geo

import (
	"fmt"
	"sort"

	"github.com/joshday/DataJamboree2022/frame"
	"github.com/paulmach/orb"
)

// ZipAggregate is one zip code's crash count joined with census income
// and polygon geometry.
type ZipAggregate struct {
	Zip          int
	Crashes      int
	MedianIncome float64
	Geometry     orb.Geometry
}

// Aggregate joins zip-level crash counts to census income and zip
// geometry. Zips absent from the census or the shapes are dropped, not
// errors: the result holds only zips present in all three sources,
// sorted by zip.
func Aggregate(counts *frame.DF, zipCol string, census Census, shapes *ZipShapes) ([]ZipAggregate, error) {
	zc, e := counts.Column(zipCol)
	if e != nil {
		return nil, e
	}
	if zc.DataType() != frame.DTint {
		return nil, fmt.Errorf("column %s is %v, want int", zipCol, zc.DataType())
	}

	nc, e := counts.Column("n")
	if e != nil {
		return nil, e
	}

	var out []ZipAggregate
	for row := 0; row < counts.RowCount(); row++ {
		if zc.IsMissing(row) {
			continue
		}

		z := zc.Ints()[row]
		income, ok := census[z]
		if !ok {
			continue
		}

		geom, ok := shapes.ByZip[z]
		if !ok {
			continue
		}

		out = append(out, ZipAggregate{Zip: z, Crashes: nc.Ints()[row], MedianIncome: income, Geometry: geom})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Zip < out[j].Zip })

	return out, nil
}
