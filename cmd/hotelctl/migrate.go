package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hotel_directory/internal/shared"
	"hotel_directory/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the configured store",
	Long: "Create the MySQL hotels table or the MongoDB lookup indexes for the store " +
		"selected by STORE_DRIVER. Redis needs no preparation.",
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	st, err := storage.Open(ctx, shared.Load())
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = st.Close(context.Background()) }()

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s store ready\n", st.Driver)
	return nil
}
