package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mintreplica/mintlite/internal/app"
	"github.com/mintreplica/mintlite/internal/config"
	"github.com/mintreplica/mintlite/internal/logger"
)

// CheckDeadlinesCmd runs one scheduler pass and prints its result.
func CheckDeadlinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-deadlines",
		Short: "Run the deadline and budget job once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(logger.Options{
				AppName:   cfg.AppName,
				AppEnv:    cfg.AppEnv,
				IsDev:     cfg.IsDevelopment(),
				SentryDSN: cfg.SentryDSN,
			})
			defer logger.Flush()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Scheduler.Run(ctx)
			if err != nil {
				return fmt.Errorf("scheduled job failed: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
