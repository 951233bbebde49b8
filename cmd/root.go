// Package cmd implements the jamboree command line tool: exploratory
// analyses of the NYC motor-vehicle collision data.
package cmd

import (
	"fmt"
	"os"

	"github.com/joshday/DataJamboree2022/crash"
	"github.com/joshday/DataJamboree2022/frame"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// Global flags, wired to viper so they can also come from the
	// config file or JAMBOREE_* environment variables.
	flagData      string
	flagCensus    string
	flagZips      string
	flagBoroughs  string
	flagThreshold int
	flagOutDir    string
	flagBrowser   string
)

var rootCmd = &cobra.Command{
	Use:   "jamboree",
	Short: "Exploratory analyses of NYC motor-vehicle collisions",
	Long: `jamboree runs a set of exploratory analyses on the NYC motor-vehicle
collision data: summary counts, crosstabs and chi-square tests, a logistic
regression of crash deaths, a zip-level join against census income, and
interactive plotly graphs.`,
}

// Execute is the entry point called by main.main().
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./jamboree.yaml)")
	pf.StringVar(&flagData, "data", "", "collision CSV file")
	pf.StringVar(&flagCensus, "census", "", "census median-income CSV file")
	pf.StringVar(&flagZips, "zips", "", "zip-code GeoJSON file")
	pf.StringVar(&flagBoroughs, "boroughs", "", "borough GeoJSON file")
	pf.IntVar(&flagThreshold, "threshold", crash.DefaultFactorThreshold, "counts below this collapse the contributing factor to Other")
	pf.StringVar(&flagOutDir, "outdir", ".", "directory for generated html")
	pf.StringVar(&flagBrowser, "browser", "", "browser command to show plots (empty: just write html)")
	pf.String("census-name", "name", "census column holding the geography name ending in the zip")
	pf.String("census-income", "median_income", "census column holding median household income")
	pf.String("zip-property", "postalCode", "GeoJSON feature property holding the zip code")

	for _, key := range []string{"data", "census", "zips", "boroughs", "threshold", "outdir", "browser",
		"census-name", "census-income", "zip-property"} {
		_ = viper.BindPFlag(key, pf.Lookup(key))
	}
}

// loadConfig layers the config file and environment under the flags.
func loadConfig() {
	viper.SetEnvPrefix("JAMBOREE")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("jamboree")
		viper.SetConfigType("yaml")
	}
	// the config file is optional
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config:", viper.ConfigFileUsed())
	}
}

// loadDerived loads the collision CSV and adds the derived columns.
// Most subcommands start here.
func loadDerived() (*frame.DF, *crash.Diagnostics, error) {
	dataFile := viper.GetString("data")
	if dataFile == "" {
		return nil, nil, fmt.Errorf("no collision file: use --data or JAMBOREE_DATA")
	}

	df, err := crash.Load(frame.NewFiles(), dataFile)
	if err != nil {
		return nil, nil, err
	}

	diag, err := crash.Derive(df, viper.GetInt("threshold"))
	if err != nil {
		return nil, nil, err
	}

	return df, diag, nil
}
