package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"InsideX/internal/di"
	"InsideX/internal/domain/models"
)

var importCmd = &cobra.Command{
	Use:   "import <trades.json>",
	Short: "Load scraped trades into the database",
	Long: `Reads a JSON array of trades and inserts them into the configured store.
Exact duplicates are skipped. Cached signals are dropped afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var trades []models.Trade
		if err := json.Unmarshal(b, &trades); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		backend, err := di.InitializeBackend(cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		n, err := backend.Trades.Import(cmd.Context(), trades)
		if err != nil {
			return err
		}
		if err := backend.Signals.Invalidate(cmd.Context()); err != nil {
			return fmt.Errorf("invalidate signal cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d trades\n", n, len(trades))
		return nil
	},
}
