package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/custodian"
	"github.com/owlprotocol/denote-workspace-sub000/custodian/deadletter"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/testutil/ledgermock"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DENOTE_LEDGER_URL", "http://ledger:7575")
	t.Setenv("DENOTE_CUSTODIAN_POLL_INTERVAL", "15s")
	t.Setenv("DENOTE_CUSTODIAN_RETRY_MAX_ATTEMPTS", "0")
	t.Setenv("DENOTE_API_PORT", "9000")

	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, "http://ledger:7575", cfg.Ledger.BaseURL)
	require.Equal(t, 15*time.Second, cfg.Custodian.PollInterval)
	require.Equal(t, 0, cfg.Custodian.Retry.MaxAttempts)
	require.Equal(t, "9000", cfg.API.Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denote.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
custodian:
  party_hint: bank
  retry:
    initial_backoff: 10s
    max_backoff: 1m
api:
  cors_origins: ["https://app.example.com"]
`), 0o600))

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "bank", cfg.Custodian.PartyHint)
	require.Equal(t, 10*time.Second, cfg.Custodian.Retry.InitialBackoff)
	require.Equal(t, time.Minute, cfg.Custodian.Retry.MaxBackoff)
	require.Equal(t, []string{"https://app.example.com"}, cfg.API.CORSOrigins)

	_, err = LoadConfig(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		target error
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, ErrInvalidConfig},
		{"no ledger url", func(c *Config) { c.Ledger.BaseURL = "" }, ErrInvalidConfig},
		{"zero poll interval", func(c *Config) { c.Custodian.PollInterval = 0 }, ErrInvalidConfig},
		{"negative attempts", func(c *Config) { c.Custodian.Retry.MaxAttempts = -1 }, custodian.ErrInvalidConfig},
		{"negative dead letter size", func(c *Config) { c.Custodian.DeadLetter.MaxSizeMB = -1 }, ErrInvalidConfig},
		{"negative dead letter files", func(c *Config) { c.Custodian.DeadLetter.MaxFiles = -1 }, ErrInvalidConfig},
		{"ops without addr", func(c *Config) { c.Ops = OpsConfig{Enabled: true} }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), tt.target)
		})
	}

	cfg := DefaultConfig()
	cfg.Custodian.DeadLetter.MaxSizeMB, cfg.Custodian.DeadLetter.MaxFiles = 0, 0
	require.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.SampleRate = 2
	require.Error(t, cfg.Validate())
}

func TestCustodianParty(t *testing.T) {
	cc := DefaultConfig().Custodian
	_, err := cc.CustodianParty()
	require.ErrorIs(t, err, ErrMissingCustodianKey)

	party, err := OptionalCustodianParty(cc)
	require.NoError(t, err)
	require.Empty(t, party)

	cc.PrivateKey = "not a mnemonic"
	_, err = cc.CustodianParty()
	require.ErrorIs(t, err, ledger.ErrInvalidKeyMaterial)

	cc.PrivateKey = testMnemonic
	party, err = cc.CustodianParty()
	require.NoError(t, err)
	require.NoError(t, ledger.ValidateParty(party))
	require.Equal(t, party, cc.DispatcherConfig(party).Party)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogConfig{Level: "info", JSON: true})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "contract_id", "c1")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"contract_id":"c1"`)

	_, err = NewLogger(&buf, LogConfig{Level: "loud"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOpenDeadLetterStore(t *testing.T) {
	store, err := openDeadLetterStore(t.Context(), DeadLetterConfig{}, log.NewNopLogger())
	require.NoError(t, err)
	require.IsType(t, &custodian.LogSink{}, store.sink)
	require.Nil(t, store.ping)
	require.NoError(t, store.close())

	store, err = openDeadLetterStore(t.Context(), DeadLetterConfig{Dir: t.TempDir(), MaxSizeMB: 1, MaxFiles: 2}, log.NewNopLogger())
	require.NoError(t, err)
	require.IsType(t, &deadletter.FileSink{}, store.sink)
	require.NoError(t, store.close())
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Custodian.PrivateKey = testMnemonic
	cfg.Custodian.DeadLetter.Dir = t.TempDir()
	return cfg
}

func TestNewCustodianService(t *testing.T) {
	cfg := testConfig(t)
	svc, err := NewCustodianService(t.Context(), cfg, ledgermock.New(), log.NewNopLogger())
	require.NoError(t, err)

	party, err := cfg.Custodian.CustodianParty()
	require.NoError(t, err)
	require.Equal(t, party, svc.Party)
	require.Equal(t, []string{"custodian", "ledger"}, svc.Checker.Names())
	require.Nil(t, svc.ops)

	cfg.Custodian.PrivateKey = ""
	_, err = NewCustodianService(t.Context(), cfg, ledgermock.New(), log.NewNopLogger())
	require.ErrorIs(t, err, ErrMissingCustodianKey)
}

func TestOpsServerRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ops.Enabled = true
	svc, err := NewCustodianService(t.Context(), cfg, ledgermock.New(), log.NewNopLogger())
	require.NoError(t, err)
	require.NotNil(t, svc.ops)

	for path, want := range map[string]int{
		"/health":       http.StatusOK,
		"/health/live":  http.StatusOK,
		"/health/ready": http.StatusOK,
		"/metrics":      http.StatusOK,
		"/nope":         http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		svc.ops.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, want, w.Code, path)
	}
}

func TestNewAPIService(t *testing.T) {
	cfg := DefaultConfig()
	svc := NewAPIService(cfg, ledgermock.New(), "", log.NewNopLogger())

	w := httptest.NewRecorder()
	svc.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/parties/custodian", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, []string{"ledger"}, svc.Checker.Names())
}
