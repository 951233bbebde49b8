package geo

import (
	"fmt"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ZipShapes holds zip-code polygons: the raw feature collection (the
// choropleth renderer wants it whole) plus a by-zip geometry index.
type ZipShapes struct {
	FC       *geojson.FeatureCollection
	ByZip    map[int]orb.Geometry
	Property string
}

// LoadZipPolygons reads a GeoJSON of zip polygons keyed by the string
// property zipProperty. A key that does not parse as an integer is an
// error.
func LoadZipPolygons(fileName, zipProperty string) (*ZipShapes, error) {
	fc, e := loadFeatureCollection(fileName)
	if e != nil {
		return nil, e
	}

	shapes := &ZipShapes{FC: fc, ByZip: make(map[int]orb.Geometry), Property: zipProperty}
	for ind, f := range fc.Features {
		raw, ok := stringProperty(f, zipProperty)
		if !ok {
			return nil, fmt.Errorf("%s: feature %d has no property %s", fileName, ind, zipProperty)
		}

		z, ex := strconv.Atoi(raw)
		if ex != nil {
			return nil, fmt.Errorf("%s: feature %d: property %s=%q is not a zip code", fileName, ind, zipProperty, raw)
		}

		shapes.ByZip[z] = f.Geometry
	}

	return shapes, nil
}

// Boroughs holds named boundary polygons and answers point-in-polygon
// queries.
type Boroughs struct {
	names []string
	geoms []orb.Geometry
}

// LoadBoroughs reads borough boundary polygons from GeoJSON, named by
// the string property nameProperty.
func LoadBoroughs(fileName, nameProperty string) (*Boroughs, error) {
	fc, e := loadFeatureCollection(fileName)
	if e != nil {
		return nil, e
	}

	b := &Boroughs{}
	for ind, f := range fc.Features {
		nm, ok := stringProperty(f, nameProperty)
		if !ok {
			return nil, fmt.Errorf("%s: feature %d has no property %s", fileName, ind, nameProperty)
		}

		b.names = append(b.names, nm)
		b.geoms = append(b.geoms, f.Geometry)
	}

	return b, nil
}

// Find returns the name of the borough containing the point, if any.
func (b *Boroughs) Find(pt orb.Point) (string, bool) {
	for ind, g := range b.geoms {
		if contains(g, pt) {
			return b.names[ind], true
		}
	}

	return "", false
}

func (b *Boroughs) Names() []string { return b.names }

// Bound returns the union bound of all boroughs, for map framing.
func (b *Boroughs) Bound() orb.Bound {
	var bd orb.Bound
	for ind, g := range b.geoms {
		if ind == 0 {
			bd = g.Bound()
			continue
		}
		bd = bd.Union(g.Bound())
	}

	return bd
}

func contains(g orb.Geometry, pt orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, pt)
	default:
		return false
	}
}

func loadFeatureCollection(fileName string) (*geojson.FeatureCollection, error) {
	data, e := os.ReadFile(fileName)
	if e != nil {
		return nil, e
	}

	fc, e := geojson.UnmarshalFeatureCollection(data)
	if e != nil {
		return nil, fmt.Errorf("%s: %w", fileName, e)
	}

	return fc, nil
}

// stringProperty fetches a feature property as a string, tolerating
// numeric property values.
func stringProperty(f *geojson.Feature, key string) (string, bool) {
	v, ok := f.Properties[key]
	if !ok {
		return "", false
	}

	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.Itoa(int(x)), true
	case int:
		return strconv.Itoa(x), true
	default:
		return "", false
	}
}
