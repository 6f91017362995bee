package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/regimesim/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator over HTTP",
		Long: `Start the HTTP API:

  POST /simulate   {revenue, profit, jurisdiction, sector}
  POST /calculate  {renda, tipo}  flat-rate reform estimate
  GET  /catalog
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, source, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			addr, _ := cmd.Flags().GetString("addr")
			origins, _ := cmd.Flags().GetStringSlice("allowed-origins")

			options := server.DefaultOptions()
			options.Addr = addr
			options.AllowedOrigins = origins

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serverLog := logrus.WithField("module", "server")
			serverLog.Infof("using %s rate catalog", source)
			return server.New(cat, options, serverLog).ListenAndServe(ctx)
		},
	}

	cmd.Flags().String("addr", server.DefaultAddr, "Listen address")
	cmd.Flags().StringSlice("allowed-origins", []string{"*"}, "CORS allowed origins")
	return cmd
}
