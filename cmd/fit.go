package cmd

import (
	"fmt"

	"github.com/joshday/DataJamboree2022/crash"
	"github.com/joshday/DataJamboree2022/model"
	"github.com/spf13/cobra"
)

var (
	fitMaxIter int
	fitTol     float64
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a logistic regression of crash deaths on borough and hour",
	RunE: func(cmd *cobra.Command, args []string) error {
		df, _, err := loadDerived()
		if err != nil {
			return err
		}

		design, err := model.Design(df, crash.ColDeath, []model.Term{
			{Col: crash.ColHour, Kind: model.Numeric},
			{Col: crash.ColBorough, Kind: model.Categorical},
		})
		if err != nil {
			return err
		}

		fit, err := model.FitLogit(design, model.MaxIter(fitMaxIter), model.Tol(fitTol))
		if err != nil {
			return err
		}

		fmt.Println(fit)
		if !fit.Converged {
			fmt.Printf("warning: IRLS did not converge in %d iterations; estimates are the last iterate\n", fit.Iter)
		}

		return nil
	},
}

func init() {
	fitCmd.Flags().IntVar(&fitMaxIter, "maxiter", 25, "maximum IRLS iterations")
	fitCmd.Flags().Float64Var(&fitTol, "tol", 1e-8, "convergence tolerance on the coefficient step")
	rootCmd.AddCommand(fitCmd)
}
