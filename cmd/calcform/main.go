package main

import (
	"os"

	"github.com/spf13/cobra"

	"calcform/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:          "calcform",
		Short:        "Chained three-number calculator with stored history",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env when present)")

	load := func() (*config.Config, error) {
		if err := loadDotEnv(envFile); err != nil {
			return nil, err
		}
		return config.Load(configPath)
	}

	cmd.AddCommand(
		newServeCmd(load),
		newHistoryCmd(load),
	)

	return cmd
}
