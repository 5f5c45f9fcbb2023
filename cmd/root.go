package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Prastabm/SafeLanes-Research/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "safelanes",
	Short: "Crime-incident ETL and category classifier",
	Long:  "Normalizes Baltimore, Boston, Los Angeles and New York crime exports into one incident table and trains a random-forest model that predicts the crime category.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "root: load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "root: init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
