package crash

import (
	"github.com/joshday/DataJamboree2022/frame"
	"github.com/joshday/DataJamboree2022/geo"
	"github.com/paulmach/orb"
)

// ImputeBorough fills missing boroughs by point-in-polygon lookup of the
// crash coordinates, in place. Records with missing or zero-sentinel
// coordinates are left missing (zero is how the source flags an unknown
// location). Returns the number of records filled.
func ImputeBorough(df *frame.DF, boroughs *geo.Boroughs) (int, error) {
	bc, e := df.Column(ColBorough)
	if e != nil {
		return 0, e
	}
	lat, e := df.Column(ColLat)
	if e != nil {
		return 0, e
	}
	lon, e := df.Column(ColLon)
	if e != nil {
		return 0, e
	}

	data := bc.Strings()
	filled := 0
	for row := 0; row < df.RowCount(); row++ {
		if data[row] != frame.MissingString {
			continue
		}

		if lat.IsMissing(row) || lon.IsMissing(row) {
			continue
		}

		la, lo := lat.Floats()[row], lon.Floats()[row]
		if la == 0 || lo == 0 {
			continue
		}

		if nm, ok := boroughs.Find(orb.Point{lo, la}); ok {
			data[row] = nm
			filled++
		}
	}

	return filled, nil
}
