package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_directory/internal/adapters/hotelsapi"
	"hotel_directory/internal/app"
)

var (
	seedFile    string
	seedBase    string
	seedWorkers int
	seedRPS     int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create hotels from a JSON file through the API",
	Long:  "Read a JSON array of hotels and POST each one to a running API with bounded concurrency.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "path to a JSON array of hotels")
	seedCmd.Flags().StringVar(&seedBase, "base", "http://localhost:3000", "API base URL")
	seedCmd.Flags().IntVar(&seedWorkers, "workers", 8, "concurrent requests")
	seedCmd.Flags().IntVar(&seedRPS, "rps", 20, "requests per second")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	f, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer f.Close()

	hotels, err := app.ReadHotels(f)
	if err != nil {
		return err
	}

	client, err := hotelsapi.New(seedBase, seedRPS)
	if err != nil {
		return fmt.Errorf("failed to initialize API client: %w", err)
	}

	log.Info().
		Str("base", seedBase).
		Int("workers", seedWorkers).
		Int("hotels", len(hotels)).
		Msg("seeding starting")

	rep, err := app.NewSeeder(client, seedWorkers).Seed(ctx, hotels)
	log.Info().Int("created", rep.Created).Int("failed", rep.Failed).Msg("seeding completed")
	if err != nil {
		return err
	}
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d hotels failed", rep.Failed, len(hotels))
	}
	return nil
}
