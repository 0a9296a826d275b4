package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/shared"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "hotelctl",
	Short: "hotelctl: operate the hotels directory",
	Long:  "Seed and query a running hotels API, and prepare its store.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = observability.NewLogger(shared.Load().AppEnv, logLevel)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
