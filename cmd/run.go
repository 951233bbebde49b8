package cmd

import (
	"fmt"

	"github.com/joshday/DataJamboree2022/crash"
	"github.com/joshday/DataJamboree2022/geo"
	"github.com/joshday/DataJamboree2022/model"
	"github.com/joshday/DataJamboree2022/xtab"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis: summary, association test, logit fit, zip join",
	RunE: func(cmd *cobra.Command, args []string) error {
		df, diag, err := loadDerived()
		if err != nil {
			return err
		}

		fmt.Println(diag)

		if boroughFile := viper.GetString("boroughs"); boroughFile != "" {
			boroughs, e := geo.LoadBoroughs(boroughFile, "boro_name")
			if e != nil {
				return e
			}
			n, e := crash.ImputeBorough(df, boroughs)
			if e != nil {
				return e
			}
			fmt.Printf("imputed borough for %d rows from coordinates\n", n)
		}

		counts, err := df.GroupCount(crash.ColBorough, true)
		if err != nil {
			return err
		}
		fmt.Printf("crashes by borough:\n%s\n", counts)

		tbl, err := xtab.Crosstab(df, crash.ColBorough, crash.ColDeath, true)
		if err != nil {
			return err
		}
		fmt.Println(tbl)

		if res, e := tbl.ChiSquare(); e != nil {
			fmt.Println("chi-square test skipped:", e)
		} else {
			fmt.Println(res)
		}

		design, err := model.Design(df, crash.ColDeath, []model.Term{
			{Col: crash.ColHour, Kind: model.Numeric},
			{Col: crash.ColBorough, Kind: model.Categorical},
		})
		if err != nil {
			return err
		}
		fit, err := model.FitLogit(design)
		if err != nil {
			return err
		}
		fmt.Println(fit)

		if viper.GetString("census") != "" && viper.GetString("zips") != "" {
			aggs, e := zipAggregates(df)
			if e != nil {
				return e
			}
			fmt.Printf("zip-level join kept %d zips\n", len(aggs))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
