package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"SolarSizer/internal/analysis"
	"SolarSizer/internal/httpapi"
	"SolarSizer/internal/metrics"
	"SolarSizer/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Process queued requests on a schedule and serve recorded runs over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			base, err := cfg.BaseAssumptions()
			if err != nil {
				return err
			}

			rec := openRecorder(cfg)
			defer rec.Close()

			reg := metrics.NewRegistry()
			runner := analysis.NewRunner(base, cfg.Sweep, reg, log.Logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sched := scheduler.NewScheduler(ctx, runner, rec, cfg.Schedule.InboxDir, cfg.Schedule.RunTimeout, reg, log.Logger)
			if err := sched.Register(cfg.Schedule.Cron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           httpapi.NewRouter(httpapi.NewHandler(rec, cfg.Financing, log.Logger), reg.Handler()),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("http server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
				log.Info().Msg("shutting down")
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
