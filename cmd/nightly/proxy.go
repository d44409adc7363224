// ABOUTME: CLI command for running the Oura pass-through proxy.
// ABOUTME: Serves /api/oura with the token held server-side, plus /metrics.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/nightly/internal/proxy"
	"github.com/spf13/cobra"
)

var proxyAddr string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the Oura API proxy",
	Long: `Run an HTTP proxy that forwards allow-listed Oura requests using the
configured token, so clients never see it.

ROUTES:

  GET /api/oura?endpoint=daily_sleep&start_date=2024-01-01&end_date=2024-01-02
  GET /healthz
  GET /metrics

Allowed endpoints: daily_sleep, daily_readiness, sleep.

EXAMPLES:

  nightly proxy                 # Listen on proxy_addr (default :8787)
  nightly proxy --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := proxyAddr
		if addr == "" {
			addr = cfg.ProxyAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := proxy.NewServer(newOuraClient(), logger)
		return server.Run(ctx, addr)
	},
}

func init() {
	proxyCmd.Flags().StringVar(&proxyAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(proxyCmd)
}
