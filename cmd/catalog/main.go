package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ReemHassan742/bookcatalog/app"
	"github.com/ReemHassan742/bookcatalog/config"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Book catalog over a relational store",
	Long: `catalog is an interactive client for a small relational catalog of
books, authors and genres: typed CRUD, search, aggregation, bulk
mutations and transactional operations on top of PostgreSQL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(loadConfig())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate an empty catalog with demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Seed(loadConfig())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the catalog summary and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Stats(loadConfig())
	},
}

func loadConfig() config.Config {
	var ops []config.Option
	if logLevel != "" {
		ops = append(ops, config.WithLogLevel(logLevel))
	}
	return config.NewConfig(ops...)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.AddCommand(seedCmd, statsCmd)
}

func main() {
	// .env is optional; the environment may already be populated.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
