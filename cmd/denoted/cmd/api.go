package cmd

import (
	"github.com/spf13/cobra"

	"github.com/owlprotocol/denote-workspace-sub000/app"
	"github.com/owlprotocol/denote-workspace-sub000/app/telemetry"
)

const FlagPort = "port"

// APICmd groups the REST API commands.
func APICmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "REST API for the tokenization UI",
	}
	cmd.AddCommand(apiServeCmd(e))
	return cmd
}

func apiServeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := e.cfg

			provider, err := telemetry.NewProvider(ctx, "denote-api", cfg.Telemetry)
			if err != nil {
				return err
			}
			defer shutdownTelemetry(e, provider)

			client, err := app.NewLedgerClient(cfg, e.logger)
			if err != nil {
				return err
			}
			party, err := app.OptionalCustodianParty(cfg.Custodian)
			if err != nil {
				return err
			}
			if party == "" {
				e.logger.Warn("custodian key not configured; /api/parties/custodian will return 404")
			}
			return app.NewAPIService(cfg, client, party, e.logger).Run(ctx)
		},
	}

	cmd.Flags().String(FlagPort, "", "listen port (default from config)")
	cmd.Flags().Bool(FlagOpsEnabled, false, "serve /metrics and /health on ops.addr")
	configKey(cmd.Flags(), FlagPort, "api.port")
	configKey(cmd.Flags(), FlagOpsEnabled, "ops.enabled")
	return cmd
}
