package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	keepertest "github.com/owlprotocol/denote-workspace-sub000/testutil/keeper"
	"github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

var (
	issuer = keepertest.Issuer
	alice  = keepertest.Alice
	bob    = keepertest.Bob
)

func testInstrument() types.Instrument {
	return types.Instrument{
		Issuer:          issuer,
		InstrumentID:    "BOND-2030",
		Notional:        ledger.NewNumeric(1000),
		CouponRate:      ledger.MustParseNumeric("0.05"),
		CouponFrequency: 2,
		MaturityDate:    "2030-06-30",
		Currency:        "USDC",
	}
}

func TestCreateInstrumentIsIdempotent(t *testing.T) {
	k, l, ctx := keepertest.BondKeeper(t)

	first, err := k.CreateInstrument(ctx, testInstrument())
	require.NoError(t, err)
	second, err := k.CreateInstrument(ctx, testInstrument())
	require.NoError(t, err)
	require.Equal(t, first.ContractID, second.ContractID)

	require.Len(t, l.Active(types.InstrumentTemplateID), 1)
	require.Len(t, l.Active(types.FactoryTemplateID), 1)
	require.Len(t, l.Active(types.RulesTemplateID), 1)

	bad := testInstrument()
	bad.CouponFrequency = 0
	_, err = k.CreateInstrument(ctx, bad)
	require.ErrorIs(t, err, types.ErrInvalidInstrument)
}

func TestBondMintAndTransfer(t *testing.T) {
	k, _, ctx := keepertest.BondKeeper(t)
	_, err := k.CreateInstrument(ctx, testInstrument())
	require.NoError(t, err)

	mint, err := k.CreateMintRequest(ctx, alice, issuer, "BOND-2030", ledger.NewNumeric(10))
	require.NoError(t, err)
	minted, err := k.AcceptMintRequest(ctx, issuer, mint.ContractID)
	require.NoError(t, err)
	require.Equal(t, "10.0", minted.Payload.Amount.String())

	_, err = k.CreateTransferRequest(ctx, alice, bob, issuer, "BOND-2030", ledger.NewNumeric(11))
	require.ErrorIs(t, err, types.ErrInsufficientHoldings)

	transfer, err := k.CreateTransferRequest(ctx, alice, bob, issuer, "BOND-2030", ledger.NewNumeric(4))
	require.NoError(t, err)
	require.Equal(t, []ledger.ContractID{minted.ContractID}, transfer.Payload.InputHoldingCids)

	pending, err := k.ListTransferRequests(ctx, bob)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, k.AcceptTransferRequest(ctx, issuer, transfer.ContractID))

	bobHoldings, err := k.ListHoldings(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobHoldings, 1)
	require.Equal(t, "4.0", bobHoldings[0].Payload.Amount.String())

	aliceHoldings, err := k.ListHoldings(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceHoldings, 1)
	require.Equal(t, "6.0", aliceHoldings[0].Payload.Amount.String())
}

func TestCouponLifecycle(t *testing.T) {
	k, l, ctx := keepertest.BondKeeper(t)
	_, err := k.CreateInstrument(ctx, testInstrument())
	require.NoError(t, err)
	bondCid := keepertest.SeedBondHolding(t, l, issuer, alice, "BOND-2030", "10")

	_, err = k.ProcessCouponEvent(ctx, issuer, "BOND-2030", "2031-01-01")
	require.ErrorIs(t, err, types.ErrInstrumentMatured)
	_, err = k.ProcessCouponEvent(ctx, issuer, "BOND-2030", "not-a-date")
	require.ErrorIs(t, err, types.ErrInvalidEvent)

	effect, err := k.ProcessCouponEvent(ctx, issuer, "BOND-2030", "2025-12-31")
	require.NoError(t, err)
	require.Equal(t, types.EventCoupon, effect.Payload.EventType)
	require.Equal(t, "25.0", effect.Payload.AmountPerUnit.String())

	effects, err := k.ListEffects(ctx, issuer)
	require.NoError(t, err)
	require.Len(t, effects, 1)

	claim, err := k.CreateLifecycleClaimRequest(ctx, alice, issuer, effect.ContractID, bondCid)
	require.NoError(t, err)
	payment, err := k.AcceptLifecycleClaimRequest(ctx, issuer, claim.ContractID)
	require.NoError(t, err)
	require.Equal(t, alice, payment.Payload.Owner)
	require.Equal(t, "USDC", payment.Payload.InstrumentID)
	require.Equal(t, "250.0", payment.Payload.Amount.String())

	// the bond is reissued under a new id so the same claim cannot be settled twice
	require.False(t, l.IsActive(bondCid))
	require.Len(t, l.Active(types.HoldingTemplateID), 1)
	require.Len(t, l.Active(tokentypes.HoldingTemplateID), 1)
}

func TestRedemptionLifecycle(t *testing.T) {
	k, l, ctx := keepertest.BondKeeper(t)
	_, err := k.CreateInstrument(ctx, testInstrument())
	require.NoError(t, err)
	bondCid := keepertest.SeedBondHolding(t, l, issuer, alice, "BOND-2030", "2")

	_, err = k.ProcessRedemptionEvent(ctx, issuer, "BOND-2030", "2029-01-01")
	require.ErrorIs(t, err, types.ErrInvalidEvent)

	effect, err := k.ProcessRedemptionEvent(ctx, issuer, "BOND-2030", "2030-06-30")
	require.NoError(t, err)
	require.Equal(t, "1000.0", effect.Payload.AmountPerUnit.String())

	claim, err := k.CreateLifecycleClaimRequest(ctx, alice, issuer, effect.ContractID, bondCid)
	require.NoError(t, err)
	payment, err := k.AcceptLifecycleClaimRequest(ctx, issuer, claim.ContractID)
	require.NoError(t, err)
	require.Equal(t, "2000.0", payment.Payload.Amount.String())
	require.Empty(t, l.Active(types.HoldingTemplateID))
}

func TestLifecycleClaimDeclineAndWithdraw(t *testing.T) {
	k, l, ctx := keepertest.BondKeeper(t)
	_, err := k.CreateInstrument(ctx, testInstrument())
	require.NoError(t, err)
	bondCid := keepertest.SeedBondHolding(t, l, issuer, alice, "BOND-2030", "1")
	effect, err := k.ProcessCouponEvent(ctx, issuer, "BOND-2030", "2026-06-30")
	require.NoError(t, err)

	declined, err := k.CreateLifecycleClaimRequest(ctx, alice, issuer, effect.ContractID, bondCid)
	require.NoError(t, err)
	require.NoError(t, k.DeclineLifecycleClaimRequest(ctx, issuer, declined.ContractID))

	withdrawn, err := k.CreateLifecycleClaimRequest(ctx, alice, issuer, effect.ContractID, bondCid)
	require.NoError(t, err)
	require.NoError(t, k.WithdrawLifecycleClaimRequest(ctx, alice, withdrawn.ContractID))

	pending, err := k.ListLifecycleClaimRequests(ctx, issuer)
	require.NoError(t, err)
	require.Empty(t, pending)
	require.True(t, l.IsActive(bondCid))
}
