package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/renditional/internal/config"
	"github.com/vango-dev/renditional/internal/demo"
	"github.com/vango-dev/renditional/pkg/live"
)

func serveCmd(g *globalOptions) *cobra.Command {
	var (
		port int
		host string
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo application",
		Long: `Serve the demo application over HTTP.

Each browser tab gets its own live session: the page is rendered on the
server, events travel over a WebSocket, and every flush is sent back as a
batch of DOM mutations.

Examples:
  renditional serve
  renditional serve --port=9000
  renditional serve --config=renditional.yaml --log-format=json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			logger, err := g.logger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := live.NewServer(demo.Factory(seed),
				live.WithServerConfig(serverConfig(cfg)),
				live.WithLogger(logger),
			)
			logger.Info("serving demo", "url", cfg.URL(), "config", cfg.Path())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed of the todo shuffle")

	return cmd
}

// serverConfig maps the file configuration onto the live server.
func serverConfig(cfg *config.Config) *live.ServerConfig {
	sc := live.DefaultServerConfig()
	sc.Addr = cfg.Address()
	sc.ReadTimeout = cfg.ReadTimeout()
	sc.WriteTimeout = cfg.WriteTimeout()
	sc.MetricsPath = ""
	if cfg.MetricsEnabled() {
		sc.MetricsPath = cfg.Metrics.Path
	}
	sc.MetricsNamespace = cfg.Metrics.Namespace
	sc.TracerName = cfg.Tracing.TracerName
	sc.Session.MaxRunsPerFlush = cfg.Scheduler.MaxRunsPerFlush
	return sc
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
