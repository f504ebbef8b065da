// ABOUTME: CLI command for running the HTTP API.
// ABOUTME: Serves the gin router and, optionally, Prometheus metrics on a side port.
package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/shapementor/internal/metrics"
	"github.com/harperreed/shapementor/internal/server"
	"github.com/harperreed/shapementor/internal/tracker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr        string
	serveMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until interrupted.

The listen address defaults to listen_addr from the config (":8012").
When metrics_addr is set, Prometheus metrics are served at /metrics on that
address.

SESSIONS:

  The selected user is remembered per client through a cookie. Sessions live
  in memory by default; set session.backend to "redis" to share them between
  instances.

EXAMPLES:

  shapementor serve
  shapementor serve --addr :9000 --metrics-addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		addr := cfg.GetListenAddr()
		if serveAddr != "" {
			addr = serveAddr
		}
		metricsAddr := cfg.MetricsAddr
		if serveMetricsAddr != "" {
			metricsAddr = serveMetricsAddr
		}

		ttl, err := cfg.GetSessionTTL()
		if err != nil {
			return err
		}
		sessions, err := cfg.OpenSessions(ctx)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer sessions.Close()

		m := metrics.New()
		t := tracker.New(repo, rates, tracker.WithMetrics(m))

		gin.SetMode(gin.ReleaseMode)
		srv := server.New(t, sessions, server.Options{
			CookieName: cfg.Session.CookieName,
			CookieTTL:  ttl,
			Logger:     logger,
			Metrics:    m,
		})

		logger.Info("starting", "backend", repo.Backend(), "sessions", cfg.Session.Backend, "reference", cfg.Reference.Backend)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(ctx, addr) })
		if metricsAddr != "" {
			g.Go(func() error { return server.RunMetrics(ctx, logger, m, metricsAddr) })
		}
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: listen_addr from config)")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "Prometheus listen address (default: metrics_addr from config)")
	rootCmd.AddCommand(serveCmd)
}
