package plots

import (
	"fmt"
	"path/filepath"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"

	"github.com/joshday/DataJamboree2022/geo"
)

// HourHistogram plots the crash count by hour of day.
func HourHistogram(hours []int, opts ...Opt) *Plot {
	p := NewPlot(opts...)

	tr := &grob.Histogram{
		Type:   grob.TraceTypeHistogram,
		X:      hours,
		Nbinsx: 24,
	}
	p.Fig.AddTraces(tr)

	return p
}

// CrashMap scatters crash locations over an open-street-map base. The
// caller filters out unusable coordinates; text labels are optional.
func CrashMap(lat, lon []float64, text []string, opts ...Opt) *Plot {
	p := NewPlot(opts...)

	tr := &grob.Scattermapbox{
		Type: grob.TraceTypeScattermapbox,
		Lat:  lat,
		Lon:  lon,
		Mode: grob.ScattermapboxModeMarkers,
		Marker: &grob.ScattermapboxMarker{
			Size:    4,
			Opacity: 0.4,
		},
	}
	if text != nil {
		tr.Text = text
	}
	p.Fig.AddTraces(tr)

	clat, clon := center(lat), center(lon)
	p.Lay.Mapbox = &grob.LayoutMapbox{
		Style:  "open-street-map",
		Center: &grob.LayoutMapboxCenter{Lat: clat, Lon: clon},
		Zoom:   9,
	}

	return p
}

// HourFrames writes one crash map per hour of day into dir
// (crashes-00.html .. crashes-23.html), a frame sequence to flip
// through.
func HourFrames(lat, lon []float64, hours []int, dir string) error {
	for h := 0; h < 24; h++ {
		var hLat, hLon []float64
		for ind, hr := range hours {
			if hr != h {
				continue
			}
			hLat = append(hLat, lat[ind])
			hLon = append(hLon, lon[ind])
		}

		p := CrashMap(hLat, hLon, nil, WithTitle(fmt.Sprintf("crashes, hour %02d (n=%d)", h, len(hLat))))
		p.ToHTML(filepath.Join(dir, fmt.Sprintf("crashes-%02d.html", h)))
	}

	return nil
}

// IncomeChoropleth shades zip polygons by median household income.
func IncomeChoropleth(aggs []geo.ZipAggregate, shapes *geo.ZipShapes, opts ...Opt) *Plot {
	p := NewPlot(opts...)

	locs := make([]string, len(aggs))
	z := make([]float64, len(aggs))
	text := make([]string, len(aggs))
	for ind, a := range aggs {
		locs[ind] = fmt.Sprintf("%d", a.Zip)
		z[ind] = a.MedianIncome
		text[ind] = fmt.Sprintf("zip %d: %d crashes", a.Zip, a.Crashes)
	}

	tr := &grob.Choropleth{
		Type:         grob.TraceTypeChoropleth,
		Geojson:      shapes.FC,
		Featureidkey: "properties." + shapes.Property,
		Locations:    locs,
		Z:            z,
		Text:         text,
	}
	p.Fig.AddTraces(tr)

	return p
}

func center(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}

	return (lo + hi) / 2
}
