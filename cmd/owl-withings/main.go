package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"owl-withings/internal/config"
	"owl-withings/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "owl-withings",
	Short: "Command line client for the Withings health data API",
	Long: `owl-withings fetches devices, measurements, sleep, activity and workout
data from the Withings API, manages webhook subscriptions and can run an
MQTT bridge that turns measurement webhooks into aggregated snapshots.

Configuration is read from the environment (WITHINGS_*, REDIS_*, MQTT_*, LOG_*).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "owl-withings")
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		ctx := context.WithValue(cmd.Context(), appContextKey, newApp(cfg, log))
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a := ctxGetApp(cmd.Context()); a != nil {
			a.close()
		}
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
