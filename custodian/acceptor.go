package custodian

import (
	"context"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	bondkeeper "github.com/owlprotocol/denote-workspace-sub000/x/bond/keeper"
	tokenkeeper "github.com/owlprotocol/denote-workspace-sub000/x/token/keeper"
)

var _ Acceptor = (*LedgerAcceptor)(nil)

// LedgerAcceptor accepts requests on the ledger as the custodian party.
type LedgerAcceptor struct {
	party  ledger.Party
	tokens *tokenkeeper.Keeper
	bonds  *bondkeeper.Keeper
}

// NewLedgerAcceptor returns an acceptor acting as party.
func NewLedgerAcceptor(party ledger.Party, tokens *tokenkeeper.Keeper, bonds *bondkeeper.Keeper) *LedgerAcceptor {
	return &LedgerAcceptor{party: party, tokens: tokens, bonds: bonds}
}

func (a *LedgerAcceptor) AcceptIssuerMint(ctx context.Context, cid ledger.ContractID) error {
	_, err := a.tokens.AcceptMintRequest(ctx, a.party, cid)
	return err
}

func (a *LedgerAcceptor) AcceptTransfer(ctx context.Context, cid ledger.ContractID) error {
	_, err := a.tokens.AcceptTransferRequest(ctx, a.party, cid)
	return err
}

func (a *LedgerAcceptor) AcceptIssuerBurn(ctx context.Context, cid ledger.ContractID) error {
	return a.tokens.AcceptBurnRequest(ctx, a.party, cid)
}

func (a *LedgerAcceptor) AcceptBondIssuerMint(ctx context.Context, cid ledger.ContractID) error {
	_, err := a.bonds.AcceptMintRequest(ctx, a.party, cid)
	return err
}

func (a *LedgerAcceptor) AcceptBondTransfer(ctx context.Context, cid ledger.ContractID) error {
	return a.bonds.AcceptTransferRequest(ctx, a.party, cid)
}

func (a *LedgerAcceptor) AcceptBondLifecycleClaim(ctx context.Context, cid ledger.ContractID) error {
	_, err := a.bonds.AcceptLifecycleClaimRequest(ctx, a.party, cid)
	return err
}
