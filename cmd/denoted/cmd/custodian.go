package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/owlprotocol/denote-workspace-sub000/app"
	"github.com/owlprotocol/denote-workspace-sub000/app/telemetry"
)

const (
	FlagPollInterval = "poll-interval"
	FlagOpsEnabled   = "ops"
)

// CustodianCmd groups the custodian daemon commands.
func CustodianCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custodian",
		Short: "Custodian auto-approval daemon",
	}
	cmd.AddCommand(custodianStartCmd(e))
	return cmd
}

func custodianStartCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Poll the ledger and accept approved requests addressed to the custodian",
		Long: `Start polls the ledger every poll interval for mint, burn, transfer and bond
lifecycle requests addressed to the custodian party, asks the approval service
about each and accepts the approved ones. It runs until interrupted.

The custodian key must be configured through DENOTE_CUSTODIAN_PRIVATE_KEY or
custodian.private_key in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := e.cfg

			provider, err := telemetry.NewProvider(ctx, "denote-custodian", cfg.Telemetry)
			if err != nil {
				return err
			}
			defer shutdownTelemetry(e, provider)

			client, err := app.NewLedgerClient(cfg, e.logger)
			if err != nil {
				return err
			}
			svc, err := app.NewCustodianService(ctx, cfg, client, e.logger)
			if err != nil {
				return fmt.Errorf("failed to start custodian: %w", err)
			}
			e.logger.Info("custodian configured", "party", svc.Party, "ledger", cfg.Ledger.BaseURL)
			return svc.Run(ctx)
		},
	}

	cmd.Flags().Duration(FlagPollInterval, 0, "polling interval (default from config)")
	cmd.Flags().Bool(FlagOpsEnabled, false, "serve /metrics and /health on ops.addr")
	configKey(cmd.Flags(), FlagPollInterval, "custodian.poll_interval")
	configKey(cmd.Flags(), FlagOpsEnabled, "ops.enabled")
	return cmd
}

func shutdownTelemetry(e *env, provider *telemetry.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancel()
	if err := provider.Shutdown(ctx); err != nil {
		e.logger.Error("telemetry shutdown failed", "error", err)
	}
}
