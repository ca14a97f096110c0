package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localclarity/citation-intel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "citation-intel",
	Short: "Citation intelligence engine for local AI discovery",
	Long:  "Samples generative answer engines with synthetic local-discovery queries, aggregates which platforms they cite, and scores tenant listing coverage against the result.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
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
