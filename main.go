package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"marketai/internal/config"

	"github.com/spf13/cobra"
)

var envFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marketai",
	Short: "MarketAI auction, escrow and penalty service",
	Long: `marketai runs the auction lifecycle: bidding with increment rules,
winner selection, escrow from payment to settlement, and the penalty ladder
for bad actors.

Configuration is read from the environment (and an optional .env file).
Without DATABASE_URL the in-memory store is used.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file loaded before the environment")
	rootCmd.AddCommand(serveCmd, sweepCmd, migrateCmd)
}

func loadConfig() (config.Config, error) {
	return config.Load(envFile)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
