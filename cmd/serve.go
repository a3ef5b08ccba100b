package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/api"
	"github.com/sells-group/clinic-quiz/internal/monitoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quiz HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initEnv(ctx, cfg, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		handler := api.NewRouter(api.Options{
			Catalog:           env.Catalog,
			Engine:            env.Engine,
			Submitter:         env.Coordinator,
			Lister:            env.Lister,
			Metrics:           env.Metrics,
			CORSOrigins:       cfg.Server.CORSOrigins,
			SubmitRatePerMin:  cfg.Server.SubmitRatePerMin,
			SubmitBurst:       cfg.Server.SubmitBurst,
			AdminUsername:     cfg.Admin.Username,
			AdminPasswordHash: cfg.Admin.PasswordHash,
		})

		checker := monitoring.NewChecker(env.Metrics, monitoring.NewAlerter(cfg.Monitoring), cfg.Monitoring)
		go checker.Run(ctx)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		tiers := make([]string, 0, len(env.Coordinator.Tiers()))
		for _, t := range env.Coordinator.Tiers() {
			tiers = append(tiers, string(t.Role)+"="+t.Writer.Name())
		}
		zap.L().Info("starting server", zap.Int("port", port), zap.Strings("tiers", tiers))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
