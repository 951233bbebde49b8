package cmd

import (
	"fmt"

	"github.com/joshday/DataJamboree2022/crash"
	"github.com/joshday/DataJamboree2022/frame"
	"github.com/joshday/DataJamboree2022/geo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Aggregate crashes by zip and join census income and zip shapes",
	RunE: func(cmd *cobra.Command, args []string) error {
		df, _, err := loadDerived()
		if err != nil {
			return err
		}

		aggs, err := zipAggregates(df)
		if err != nil {
			return err
		}

		fmt.Printf("%5s %8s %14s\n", "zip", "crashes", "median income")
		for _, a := range aggs {
			fmt.Printf("%5d %8d %14.0f\n", a.Zip, a.Crashes, a.MedianIncome)
		}

		return nil
	},
}

// zipAggregates builds the zip-level crash counts joined with census
// income and the zip polygons. Zips absent from any source drop out.
func zipAggregates(df *frame.DF) ([]geo.ZipAggregate, error) {
	censusFile := viper.GetString("census")
	zipFile := viper.GetString("zips")
	if censusFile == "" || zipFile == "" {
		return nil, fmt.Errorf("the zip analysis needs --census and --zips")
	}

	census, err := geo.LoadCensus(frame.NewFiles(), censusFile,
		viper.GetString("census-name"), viper.GetString("census-income"))
	if err != nil {
		return nil, err
	}

	shapes, err := geo.LoadZipPolygons(zipFile, viper.GetString("zip-property"))
	if err != nil {
		return nil, err
	}

	counts, err := df.GroupCount(crash.ColZip, false)
	if err != nil {
		return nil, err
	}

	return geo.Aggregate(counts, crash.ColZip, census, shapes)
}

func init() {
	rootCmd.AddCommand(geoCmd)
}
