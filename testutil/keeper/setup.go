package keeper

import (
	"context"
	"testing"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/testutil/ledgermock"
	bondtypes "github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// Well known test parties
var (
	Issuer    = ledgermock.Party("issuer")
	Custodian = ledgermock.Party("custodian")
	Alice     = ledgermock.Party("alice")
	Bob       = ledgermock.Party("bob")
)

// SetupLedger returns an in-memory ledger with every workflow installed and a
// context cancelled when the test ends.
func SetupLedger(t testing.TB) (*ledgermock.Ledger, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ledgermock.NewWithWorkflows(), ctx
}

// SeedTokenHolding creates a token holding directly on the ledger.
func SeedTokenHolding(t testing.TB, l *ledgermock.Ledger, issuer, owner ledger.Party, instrumentID, amount string) ledger.ContractID {
	t.Helper()
	return l.Seed(tokentypes.HoldingTemplateID, tokentypes.Holding{
		Issuer:       issuer,
		Owner:        owner,
		InstrumentID: instrumentID,
		Amount:       ledger.MustParseNumeric(amount),
	}, issuer)
}

// SeedBondHolding creates a bond holding directly on the ledger.
func SeedBondHolding(t testing.TB, l *ledgermock.Ledger, issuer, owner ledger.Party, instrumentID, amount string) ledger.ContractID {
	t.Helper()
	return l.Seed(bondtypes.HoldingTemplateID, bondtypes.Holding{
		Issuer:       issuer,
		Owner:        owner,
		InstrumentID: instrumentID,
		Amount:       ledger.MustParseNumeric(amount),
	}, issuer)
}
