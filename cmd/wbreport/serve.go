package main

import (
	"github.com/spf13/cobra"

	"wbreport/internal/app"
)

func newServeCmd(cc *cliContext) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Analyses run synchronously inside the upload request.

  POST /api/v1/analyses            multipart upload, JSON report
  POST /api/v1/analyses/workbook   multipart upload, summary workbook
  GET  /api/v1/fee-categories      fee taxonomy
  GET  /api/health                 health status
  GET  /metrics                    Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				cc.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cc.cfg.Server.Port = port
			}

			application, err := app.NewApplication(cc.cfg, cc.logger)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}
