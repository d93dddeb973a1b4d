package custodian_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/custodian"
	"github.com/owlprotocol/denote-workspace-sub000/custodian/approval"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	keepertest "github.com/owlprotocol/denote-workspace-sub000/testutil/keeper"
	bondkeeper "github.com/owlprotocol/denote-workspace-sub000/x/bond/keeper"
	bondtypes "github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	tokenkeeper "github.com/owlprotocol/denote-workspace-sub000/x/token/keeper"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

func TestCustodianAcceptsRequestsOnLedger(t *testing.T) {
	l, ctx := keepertest.SetupLedger(t)
	tokens := tokenkeeper.NewKeeper(l, log.NewNopLogger())
	bonds := bondkeeper.NewKeeper(l, log.NewNopLogger())

	mint, err := tokens.CreateMintRequest(ctx, alice, custodianParty, "USDC", ledger.NewNumeric(50))
	require.NoError(t, err)
	bondMint, err := bonds.CreateMintRequest(ctx, bob, custodianParty, "BOND-1", ledger.NewNumeric(3))
	require.NoError(t, err)
	holding := keepertest.SeedTokenHolding(t, l, custodianParty, bob, "USDC", "20")
	transfer, err := tokens.CreateTransferRequest(ctx, bob, alice, custodianParty, "USDC", ledger.NewNumeric(5))
	require.NoError(t, err)
	// not addressed to the custodian
	other, err := tokens.CreateMintRequest(ctx, alice, keepertest.Issuer, "EURC", ledger.NewNumeric(1))
	require.NoError(t, err)

	var sleeps []time.Duration
	d, err := custodian.NewDispatcher(l,
		approval.NewMockClient(0, log.NewNopLogger()),
		custodian.NewLedgerAcceptor(custodianParty, tokens, bonds),
		custodian.DefaultConfig(custodianParty),
		log.NewNopLogger(),
		custodian.WithSleeper(func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		}),
	)
	require.NoError(t, err)

	stats, err := d.RunCycle(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Processed)
	require.Equal(t, []time.Duration{custodian.DefaultPollInterval, custodian.DefaultPollInterval, custodian.DefaultPollInterval}, sleeps)

	for _, cid := range []ledger.ContractID{mint.ContractID, bondMint.ContractID, transfer.ContractID} {
		require.True(t, d.Processed().Contains(cid))
		require.False(t, l.IsActive(cid))
	}
	require.True(t, l.IsActive(other.ContractID))
	require.False(t, l.IsActive(holding))

	aliceBalance, err := tokens.Balance(ctx, alice, custodianParty, "USDC")
	require.NoError(t, err)
	require.Equal(t, "55.0", aliceBalance.String())
	require.Len(t, l.Active(bondtypes.HoldingTemplateID), 1)
	require.Len(t, l.Active(tokentypes.MintRequestTemplateID), 1)

	// accepted requests leave the active set
	stats, err = d.RunCycle(ctx)
	require.NoError(t, err)
	require.Equal(t, custodian.CycleStats{}, stats)
}
