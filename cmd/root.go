package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aegis-locate/aegis-seed/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "aegis-seed",
	Short: "Correlated synthetic data for the locate-ticket risk platform",
	Long:  "Generates excavators, locators, tickets and damage history that reference one another, persists them to files or databases, and serves or sends signed locate requests.",
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
