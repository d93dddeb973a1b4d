// Package cmd implements the denoted command line.
package cmd

import (
	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/owlprotocol/denote-workspace-sub000/app"
)

// Flag names shared by every command
const (
	FlagConfig    = "config"
	FlagLogLevel  = "log-level"
	FlagLogJSON   = "log-json"
	FlagLedgerURL = "ledger-url"
)

// env holds what PersistentPreRunE loaded for the subcommands.
type env struct {
	v      *viper.Viper
	cfg    app.Config
	logger log.Logger
}

// NewRootCmd creates the denoted root command.
func NewRootCmd() *cobra.Command {
	e := &env{v: app.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "denoted",
		Short: "Denote tokenization custodian and API",
		Long: `denoted runs the services behind the Denote tokenization workspace:
the custodian auto-approval daemon and the REST API used by the web UI.

Configuration is read from --config, then DENOTE_ prefixed environment
variables (DENOTE_LEDGER_URL, DENOTE_CUSTODIAN_PRIVATE_KEY, ...), then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			if err := bindFlags(e.v, cmd.Flags()); err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString(FlagConfig)
			cfg, err := app.LoadConfig(e.v, path)
			if err != nil {
				return err
			}
			logger, err := app.NewLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = logger
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(FlagConfig, "", "path to a YAML or TOML config file")
	flags.String(FlagLogLevel, "info", "log level (trace, debug, info, warn, error)")
	flags.Bool(FlagLogJSON, false, "emit JSON logs")
	flags.String(FlagLedgerURL, "", "ledger JSON API base URL")
	configKey(flags, FlagLogLevel, "log.level")
	configKey(flags, FlagLogJSON, "log.json")
	configKey(flags, FlagLedgerURL, "ledger.url")

	rootCmd.AddCommand(
		CustodianCmd(e),
		APICmd(e),
		KeysCmd(e),
	)
	return rootCmd
}

const configKeyAnnotation = "denote_config_key"

// configKey marks flag name as overriding the config key.
func configKey(flags *pflag.FlagSet, name, key string) {
	_ = flags.SetAnnotation(name, configKeyAnnotation, []string{key})
}

// bindFlags binds the annotated flags of the command being run. Binding at
// run time keeps flags of sibling commands that share a key from clobbering
// each other.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 0 || err != nil {
			return
		}
		err = v.BindPFlag(keys[0], f)
	})
	return err
}
