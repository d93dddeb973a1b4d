package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/app"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestKeysShowRequiresKey(t *testing.T) {
	t.Setenv("DENOTE_CUSTODIAN_PRIVATE_KEY", "")

	_, err := execute(t, "keys", "show")
	require.ErrorIs(t, err, app.ErrMissingCustodianKey)
}

func TestKeysShowFromEnv(t *testing.T) {
	t.Setenv("DENOTE_CUSTODIAN_PRIVATE_KEY", testMnemonic)
	t.Setenv("DENOTE_CUSTODIAN_PARTY_HINT", "bank")

	out, err := execute(t, "keys", "show", "-o", "json")
	require.NoError(t, err)

	var info keyInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))

	key, err := ledger.ParsePartyKey(testMnemonic)
	require.NoError(t, err)
	require.Equal(t, key.PartyID("bank"), info.Party)
	require.Equal(t, key.Fingerprint(), info.Fingerprint)
	require.Empty(t, info.Mnemonic)
}

func TestKeysGenerate(t *testing.T) {
	out, err := execute(t, "keys", "generate", "--words", "12", "--hint", "ops", "-o", "json")
	require.NoError(t, err)

	var info keyInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Len(t, strings.Fields(info.Mnemonic), 12)
	require.True(t, strings.HasPrefix(string(info.Party), "ops::1220"))

	key, err := ledger.ParsePartyKey(info.Mnemonic)
	require.NoError(t, err)
	require.Equal(t, key.PartyID("ops"), info.Party)

	_, err = execute(t, "keys", "generate", "--words", "13")
	require.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "keys", "generate")
	require.ErrorIs(t, err, app.ErrInvalidConfig)
}

func TestCustodianStartRequiresKey(t *testing.T) {
	t.Setenv("DENOTE_CUSTODIAN_PRIVATE_KEY", "")

	_, err := execute(t, "custodian", "start")
	require.ErrorIs(t, err, app.ErrMissingCustodianKey)
}
