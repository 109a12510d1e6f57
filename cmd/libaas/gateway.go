package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/libaas/internal/gateway"
)

type gatewayOptions struct {
	addr string
}

func newGatewayCmd(flags *rootFlags) *cobra.Command {
	opts := &gatewayOptions{}

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Serve the local /api proxy to the LibaasAI backend",
		Long: `Serve a local reverse proxy that forwards /api/* to the configured
backend. Set use_gateway: true (or LIBAAS_USE_GATEWAY=true) so other libaas
commands send their requests through it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *AppContext) error {
				return runGateway(ctx, app, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default from gateway.addr)")

	return cmd
}

func runGateway(ctx context.Context, app *AppContext, opts *gatewayOptions) error {
	addr := valueOrFallback(opts.addr, app.Config.Gateway.Addr)

	srv, err := gateway.New(gateway.Options{
		Target:         app.Config.APIURL,
		AllowedOrigins: app.Config.Gateway.AllowedOrigins,
		Logger:         app.Log,
	})
	if err != nil {
		return newCommandError("start gateway", "configuring the proxy", err, "Check api_url in your config.")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, addr); err != nil {
		return newCommandError("start gateway", "serving on "+addr, err, "Pick a free address with --addr.")
	}
	return nil
}
