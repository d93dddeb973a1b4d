// Package app wires configuration, logging, telemetry and the long running
// services behind the denoted commands.
package app

import (
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/owlprotocol/denote-workspace-sub000/api"
	"github.com/owlprotocol/denote-workspace-sub000/app/telemetry"
	"github.com/owlprotocol/denote-workspace-sub000/custodian"
	"github.com/owlprotocol/denote-workspace-sub000/custodian/approval"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/ledger/jsonapi"
)

const (
	// ModuleName is the error codespace for configuration errors
	ModuleName = "app"

	// EnvPrefix prefixes every environment variable override
	EnvPrefix = "DENOTE"
)

var (
	ErrInvalidConfig       = errorsmod.Register(ModuleName, 2, "invalid configuration")
	ErrMissingCustodianKey = errorsmod.Register(ModuleName, 3, "custodian private key not configured")
)

// Config is the complete process configuration
type Config struct {
	Log       LogConfig        `mapstructure:"log"`
	Ledger    jsonapi.Config   `mapstructure:"ledger"`
	Custodian CustodianConfig  `mapstructure:"custodian"`
	API       api.Config       `mapstructure:"api"`
	Ops       OpsConfig        `mapstructure:"ops"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
}

// LogConfig selects the log level and output format
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// CustodianConfig configures the auto-approval daemon
type CustodianConfig struct {
	// PrivateKey is a BIP39 mnemonic or a hex/base64 ed25519 seed.
	PrivateKey    string                `mapstructure:"private_key"`
	PartyHint     string                `mapstructure:"party_hint"`
	PollInterval  time.Duration         `mapstructure:"poll_interval"`
	ApprovalDelay time.Duration         `mapstructure:"approval_delay"`
	Retry         custodian.RetryPolicy `mapstructure:"retry"`
	DeadLetter    DeadLetterConfig      `mapstructure:"dead_letter"`
}

// DeadLetterConfig selects where abandoned requests are recorded. PostgresDSN
// wins over Dir; with neither set they are only logged. A zero MaxSizeMB
// never rotates and a zero MaxFiles never prunes.
type DeadLetterConfig struct {
	Dir         string `mapstructure:"dir"`
	MaxSizeMB   int64  `mapstructure:"max_size_mb"`
	MaxFiles    int    `mapstructure:"max_files"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// OpsConfig configures the metrics and health listener
type OpsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Ledger: jsonapi.DefaultConfig(),
		Custodian: CustodianConfig{
			PartyHint:     "custodian",
			PollInterval:  custodian.DefaultPollInterval,
			ApprovalDelay: approval.DefaultDelay,
			Retry:         custodian.DefaultRetryPolicy(),
			DeadLetter:    DeadLetterConfig{MaxSizeMB: 100, MaxFiles: 10},
		},
		API:       *api.DefaultConfig(),
		Ops:       OpsConfig{Addr: ":9090"},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// NewViper returns a viper instance carrying every default and reading
// DENOTE_ prefixed environment variables, e.g. DENOTE_LEDGER_URL.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	defaults := map[string]any{
		"log.level": d.Log.Level,
		"log.json":  d.Log.JSON,

		"ledger.url":         d.Ledger.BaseURL,
		"ledger.user_id":     d.Ledger.UserID,
		"ledger.audience":    d.Ledger.Audience,
		"ledger.hmac_secret": d.Ledger.HMACSecret,
		"ledger.token":       d.Ledger.StaticToken,
		"ledger.token_ttl":   d.Ledger.TokenTTL,
		"ledger.timeout":     d.Ledger.Timeout,

		"custodian.private_key":              d.Custodian.PrivateKey,
		"custodian.party_hint":               d.Custodian.PartyHint,
		"custodian.poll_interval":            d.Custodian.PollInterval,
		"custodian.approval_delay":           d.Custodian.ApprovalDelay,
		"custodian.retry.max_attempts":       d.Custodian.Retry.MaxAttempts,
		"custodian.retry.initial_backoff":    d.Custodian.Retry.InitialBackoff,
		"custodian.retry.max_backoff":        d.Custodian.Retry.MaxBackoff,
		"custodian.retry.multiplier":         d.Custodian.Retry.Multiplier,
		"custodian.dead_letter.dir":          d.Custodian.DeadLetter.Dir,
		"custodian.dead_letter.max_size_mb":  d.Custodian.DeadLetter.MaxSizeMB,
		"custodian.dead_letter.max_files":    d.Custodian.DeadLetter.MaxFiles,
		"custodian.dead_letter.postgres_dsn": d.Custodian.DeadLetter.PostgresDSN,

		"api.host":             d.API.Host,
		"api.port":             d.API.Port,
		"api.cors_origins":     d.API.CORSOrigins,
		"api.rate_limit_rps":   d.API.RateLimitRPS,
		"api.read_timeout":     d.API.ReadTimeout,
		"api.write_timeout":    d.API.WriteTimeout,
		"api.request_timeout":  d.API.RequestTimeout,
		"api.shutdown_timeout": d.API.ShutdownTimeout,

		"ops.enabled": d.Ops.Enabled,
		"ops.addr":    d.Ops.Addr,

		"telemetry.enabled":            d.Telemetry.Enabled,
		"telemetry.otlp_endpoint":      d.Telemetry.OTLPEndpoint,
		"telemetry.insecure":           d.Telemetry.Insecure,
		"telemetry.sample_rate":        d.Telemetry.SampleRate,
		"telemetry.environment":        d.Telemetry.Environment,
		"telemetry.prometheus_enabled": d.Telemetry.PrometheusEnabled,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// LoadConfig reads the optional config file at path and decodes v into a
// validated Config.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errorsmod.Wrapf(ErrInvalidConfig, "read %s: %s", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errorsmod.Wrap(ErrInvalidConfig, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings every command needs. The custodian key is
// checked separately by CustodianKey since only the daemon needs it.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfig, "log level %q", c.Log.Level)
	}
	if c.Ledger.BaseURL == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "ledger url is required")
	}
	if c.Ledger.UserID == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "ledger user id is required")
	}
	if c.Custodian.PollInterval <= 0 {
		return errorsmod.Wrapf(ErrInvalidConfig, "custodian poll interval must be positive, got %s", c.Custodian.PollInterval)
	}
	if c.Custodian.ApprovalDelay < 0 {
		return errorsmod.Wrap(ErrInvalidConfig, "approval delay cannot be negative")
	}
	if err := c.Custodian.Retry.Validate(); err != nil {
		return err
	}
	if dl := c.Custodian.DeadLetter; dl.MaxSizeMB < 0 || dl.MaxFiles < 0 {
		return errorsmod.Wrapf(ErrInvalidConfig, "dead letter limits cannot be negative, got max_size_mb=%d max_files=%d", dl.MaxSizeMB, dl.MaxFiles)
	}
	if c.API.Port == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "api port is required")
	}
	if c.Ops.Enabled && c.Ops.Addr == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "ops addr is required when enabled")
	}
	return c.Telemetry.Validate()
}

// CustodianKey parses the configured key material.
func (c CustodianConfig) CustodianKey() (*ledger.PartyKey, error) {
	if strings.TrimSpace(c.PrivateKey) == "" {
		return nil, ErrMissingCustodianKey.Wrapf("set %s_CUSTODIAN_PRIVATE_KEY", EnvPrefix)
	}
	return ledger.ParsePartyKey(c.PrivateKey)
}

// CustodianParty derives the custodian party id from the key material.
func (c CustodianConfig) CustodianParty() (ledger.Party, error) {
	key, err := c.CustodianKey()
	if err != nil {
		return "", err
	}
	return key.PartyID(c.PartyHint), nil
}

// DispatcherConfig converts the settings into a dispatcher config for party.
func (c CustodianConfig) DispatcherConfig(party ledger.Party) custodian.Config {
	return custodian.Config{
		Party:        party,
		PollInterval: c.PollInterval,
		Retry:        c.Retry,
	}
}
