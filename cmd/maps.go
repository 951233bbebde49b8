package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/joshday/DataJamboree2022/crash"
	"github.com/joshday/DataJamboree2022/frame"
	"github.com/joshday/DataJamboree2022/geo"
	"github.com/joshday/DataJamboree2022/plots"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Write the plotly graphs: hour histogram, crash map, hourly frames, income choropleth",
	RunE: func(cmd *cobra.Command, args []string) error {
		df, _, err := loadDerived()
		if err != nil {
			return err
		}

		outDir := viper.GetString("outdir")
		browser := viper.GetString("browser")

		hours, err := completeHours(df)
		if err != nil {
			return err
		}
		if err = emit(plots.HourHistogram(hours, plots.WithTitle("Crashes by hour of day")),
			filepath.Join(outDir, "hours.html"), browser); err != nil {
			return err
		}

		lat, lon, hrs, err := completeCoords(df)
		if err != nil {
			return err
		}
		if err = emit(plots.CrashMap(lat, lon, nil, plots.WithTitle("Crash locations")),
			filepath.Join(outDir, "crashmap.html"), browser); err != nil {
			return err
		}

		// one frame per hour of day, an animation when flipped through
		if err = plots.HourFrames(lat, lon, hrs, outDir); err != nil {
			return err
		}

		// the choropleth needs the census and zip-shape inputs
		if viper.GetString("census") != "" && viper.GetString("zips") != "" {
			aggs, e := zipAggregates(df)
			if e != nil {
				return e
			}
			shapes, e := geo.LoadZipPolygons(viper.GetString("zips"), viper.GetString("zip-property"))
			if e != nil {
				return e
			}
			if err = emit(plots.IncomeChoropleth(aggs, shapes, plots.WithTitle("Median household income by zip")),
				filepath.Join(outDir, "income.html"), browser); err != nil {
				return err
			}
		}

		fmt.Println("wrote plots to", outDir)

		return nil
	},
}

func emit(p *plots.Plot, fileName, browser string) error {
	if browser != "" {
		return p.Show(browser, fileName)
	}
	p.ToHTML(fileName)

	return nil
}

// completeHours returns the derived hour for rows where it is known.
func completeHours(df *frame.DF) ([]int, error) {
	c, err := df.Column(crash.ColHour)
	if err != nil {
		return nil, err
	}

	hours := make([]int, 0, c.Len())
	for row := 0; row < c.Len(); row++ {
		if !c.IsMissing(row) {
			hours = append(hours, c.Ints()[row])
		}
	}

	return hours, nil
}

// completeCoords returns coordinates and hours for rows with a usable
// location. The raw file uses 0 as well as blank for unknown positions.
func completeCoords(df *frame.DF) (lat, lon []float64, hours []int, err error) {
	latCol, err := df.Column(crash.ColLat)
	if err != nil {
		return nil, nil, nil, err
	}
	lonCol, err := df.Column(crash.ColLon)
	if err != nil {
		return nil, nil, nil, err
	}
	hourCol, err := df.Column(crash.ColHour)
	if err != nil {
		return nil, nil, nil, err
	}

	for row := 0; row < latCol.Len(); row++ {
		if latCol.IsMissing(row) || lonCol.IsMissing(row) || hourCol.IsMissing(row) {
			continue
		}
		la, lo := latCol.Floats()[row], lonCol.Floats()[row]
		if la == 0 || lo == 0 {
			continue
		}
		lat = append(lat, la)
		lon = append(lon, lo)
		hours = append(hours, hourCol.Ints()[row])
	}

	return lat, lon, hours, nil
}

func init() {
	rootCmd.AddCommand(mapsCmd)
}
