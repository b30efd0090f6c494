package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wlmost/dog-school-app-sub001/internal/config"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"
	"github.com/wlmost/dog-school-app-sub001/internal/worker"
)

// remind runs one overdue sweep and exits. Meant for operators and external
// schedulers; the server runs the same sweep on its own cron.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		days   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Markiert überfällige Rechnungen und verschickt Zahlungserinnerungen",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := infra.NewDatabase(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			rdb, err := infra.NewRedis(cfg.RedisURL)
			if err != nil {
				return err
			}

			if days < 0 {
				days = cfg.ReminderDueDays
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			sweep := worker.NewReminderSweep(
				repository.NewInvoiceRepository(db),
				worker.NewDispatcher(rdb),
			)
			report := sweep.Run(ctx, time.Now(), days, dryRun)

			log.Info().
				Int("marked_overdue", report.MarkedOverdue).
				Int("reminders", report.Reminders).
				Int("failures", report.Failures).
				Msg("sweep complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", -1, "Mindestanzahl Tage über Fälligkeit (Standard: REMINDER_DUE_DAYS)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Nur zählen, keine Statusänderungen oder Erinnerungen")

	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("remind failed")
		os.Exit(1)
	}
}
