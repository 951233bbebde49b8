package cmd

import (
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/invertedv/chutils"
	"github.com/joshday/DataJamboree2022/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	chHost     string
	chUser     string
	chPassword string
	chTable    string
	chCreate   bool
	chConcur   int
	chMemory   int64
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Load the raw collision CSV into a ClickHouse table",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		dataFile := viper.GetString("data")
		if dataFile == "" {
			return fmt.Errorf("no collision file: use --data or JAMBOREE_DATA")
		}
		if chTable == "" {
			return fmt.Errorf("--table is required")
		}

		con, err := chutils.NewConnect(chHost, chUser, chPassword, clickhouse.Settings{
			"max_memory_usage": chMemory,
		})
		if err != nil {
			return err
		}
		defer func() {
			if e := con.Close(); e != nil && err == nil {
				err = e
			}
		}()

		start := time.Now()
		if err = store.Load(dataFile, chTable, chCreate, chConcur, con); err != nil {
			return err
		}
		fmt.Printf("loaded %s into %s in %v\n", dataFile, chTable, time.Since(start))

		return nil
	},
}

func init() {
	fl := storeCmd.Flags()
	fl.StringVar(&chHost, "host", "127.0.0.1", "ClickHouse host")
	fl.StringVar(&chUser, "user", "default", "ClickHouse user")
	fl.StringVar(&chPassword, "password", "", "ClickHouse password")
	fl.StringVar(&chTable, "table", "", "destination table (db.table)")
	fl.BoolVar(&chCreate, "create", false, "drop and create the table first")
	fl.IntVar(&chConcur, "concur", 1, "number of concurrent readers/writers")
	fl.Int64Var(&chMemory, "memory", 40000000000, "ClickHouse max_memory_usage")
	rootCmd.AddCommand(storeCmd)
}
