package cmd

import (
	"fmt"

	"github.com/joshday/DataJamboree2022/crash"
	"github.com/joshday/DataJamboree2022/geo"
	"github.com/joshday/DataJamboree2022/xtab"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var assocImpute bool

var assocCmd = &cobra.Command{
	Use:   "assoc",
	Short: "Crosstab borough against crash deaths and test for association",
	RunE: func(cmd *cobra.Command, args []string) error {
		df, _, err := loadDerived()
		if err != nil {
			return err
		}

		// optionally fill in missing boroughs from the crash coordinates
		if assocImpute {
			boroughFile := viper.GetString("boroughs")
			if boroughFile == "" {
				return fmt.Errorf("--impute needs --boroughs")
			}
			boroughs, e := geo.LoadBoroughs(boroughFile, "boro_name")
			if e != nil {
				return e
			}
			n, e := crash.ImputeBorough(df, boroughs)
			if e != nil {
				return e
			}
			fmt.Printf("imputed borough for %d rows from coordinates\n\n", n)
		}

		tbl, err := xtab.Crosstab(df, crash.ColBorough, crash.ColDeath, true)
		if err != nil {
			return err
		}
		fmt.Println(tbl)

		res, err := tbl.ChiSquare()
		if err != nil {
			return fmt.Errorf("chi-square test: %w", err)
		}
		fmt.Println(res)

		return nil
	},
}

func init() {
	assocCmd.Flags().BoolVar(&assocImpute, "impute", false, "impute missing boroughs from coordinates before tabulating")
	rootCmd.AddCommand(assocCmd)
}
