package cmd

import (
	"fmt"

	"github.com/joshday/DataJamboree2022/crash"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Load the collision data and print counts by borough, zip and hour",
	RunE: func(cmd *cobra.Command, args []string) error {
		df, diag, err := loadDerived()
		if err != nil {
			return err
		}

		fmt.Println(diag)
		if diag.Mismatches != nil && diag.Mismatches.RowCount() > 0 {
			fmt.Println("rows where the recorded total disagrees with the sum:")
			fmt.Println(diag.Mismatches)
		}

		for _, spec := range []struct {
			col            string
			includeMissing bool
		}{
			{crash.ColBorough, true},
			{crash.ColZip, false},
			{crash.ColHour, false},
			{crash.ColFactor1, true},
		} {
			counts, e := df.GroupCount(spec.col, spec.includeMissing)
			if e != nil {
				return e
			}
			fmt.Printf("crashes by %s:\n%s\n", spec.col, counts)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
