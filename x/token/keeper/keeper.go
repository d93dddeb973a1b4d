package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/x/shared"
	"github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// Keeper composes the token workflows on top of a ledger client
type Keeper struct {
	client ledger.Client
	logger log.Logger

	mintRequests     shared.RequestTemplate[types.IssuerMintRequest]
	burnRequests     shared.RequestTemplate[types.IssuerBurnRequest]
	transferRequests shared.RequestTemplate[types.TransferRequest]
	proposals        shared.RequestTemplate[types.PreapprovalProposal]
}

// NewKeeper creates a new token Keeper instance
func NewKeeper(client ledger.Client, logger log.Logger) *Keeper {
	return &Keeper{
		client:           client,
		logger:           logger.With("module", fmt.Sprintf("x/%s", types.ModuleName)),
		mintRequests:     shared.NewRequestTemplate[types.IssuerMintRequest](types.MintRequestTemplateID),
		burnRequests:     shared.NewRequestTemplate[types.IssuerBurnRequest](types.BurnRequestTemplateID),
		transferRequests: shared.NewRequestTemplate[types.TransferRequest](types.TransferRequestTemplateID),
		proposals:        shared.NewRequestTemplate[types.PreapprovalProposal](types.PreapprovalProposalTemplateID),
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// GetOrCreateRules returns the issuer's rules contract, creating it on first use.
func (k Keeper) GetOrCreateRules(ctx context.Context, issuer ledger.Party) (shared.Contract[types.Rules], error) {
	return shared.GetOrCreate(ctx, k.client, issuer, types.RulesTemplateID,
		func(r types.Rules) bool { return r.Issuer == issuer },
		types.Rules{Issuer: issuer},
	)
}

// GetOrCreateFactory returns the issuer's factory for instrumentID, creating it on first use.
func (k Keeper) GetOrCreateFactory(ctx context.Context, issuer ledger.Party, instrumentID string) (shared.Contract[types.Factory], error) {
	if err := ledger.ValidateParty(issuer); err != nil {
		return shared.Contract[types.Factory]{}, types.ErrInvalidParty.Wrap(err.Error())
	}
	if instrumentID == "" {
		return shared.Contract[types.Factory]{}, types.ErrInvalidInstrument.Wrap("instrument id cannot be empty")
	}
	if _, err := k.GetOrCreateRules(ctx, issuer); err != nil {
		return shared.Contract[types.Factory]{}, err
	}
	return shared.GetOrCreate(ctx, k.client, issuer, types.FactoryTemplateID,
		func(f types.Factory) bool { return f.Issuer == issuer && f.InstrumentID == instrumentID },
		types.Factory{Issuer: issuer, InstrumentID: instrumentID},
	)
}

// ListHoldings returns every token holding owned by owner.
func (k Keeper) ListHoldings(ctx context.Context, owner ledger.Party) ([]shared.Contract[types.Holding], error) {
	return shared.Query(ctx, k.client, owner, types.HoldingTemplateID,
		func(h types.Holding) bool { return h.Owner == owner },
	)
}

// InstrumentHoldings returns owner's holdings of issuer's instrumentID.
func (k Keeper) InstrumentHoldings(ctx context.Context, owner, issuer ledger.Party, instrumentID string) ([]shared.Contract[types.Holding], error) {
	return shared.Query(ctx, k.client, owner, types.HoldingTemplateID,
		func(h types.Holding) bool { return h.Owner == owner && h.IsInstrument(issuer, instrumentID) },
	)
}

// Balance sums owner's holdings of issuer's instrumentID.
func (k Keeper) Balance(ctx context.Context, owner, issuer ledger.Party, instrumentID string) (ledger.Numeric, error) {
	holdings, err := k.InstrumentHoldings(ctx, owner, issuer, instrumentID)
	if err != nil {
		return ledger.Numeric{}, err
	}
	total := ledger.ZeroNumeric()
	for _, h := range holdings {
		total = total.Add(h.Payload.Amount)
	}
	return total, nil
}

// Balances sums every holding of owner, keyed by issuer and instrument.
func (k Keeper) Balances(ctx context.Context, owner ledger.Party) ([]types.Balance, error) {
	holdings, err := k.ListHoldings(ctx, owner)
	if err != nil {
		return nil, err
	}

	var out []types.Balance
	index := make(map[types.BalanceKey]int)
	for _, h := range holdings {
		key := types.BalanceKey{Issuer: h.Payload.Issuer, InstrumentID: h.Payload.InstrumentID}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, types.Balance{BalanceKey: key, Amount: ledger.ZeroNumeric()})
		}
		out[i].Amount = out[i].Amount.Add(h.Payload.Amount)
		out[i].Holdings++
	}
	return out, nil
}

// selectInputs picks owner's holdings covering amount.
func (k Keeper) selectInputs(ctx context.Context, owner, issuer ledger.Party, instrumentID string, amount ledger.Numeric) ([]ledger.ContractID, error) {
	holdings, err := k.InstrumentHoldings(ctx, owner, issuer, instrumentID)
	if err != nil {
		return nil, err
	}
	refs := make([]types.HoldingRef, len(holdings))
	for i, h := range holdings {
		refs[i] = types.HoldingRef{ContractID: h.ContractID, Holding: h.Payload}
	}
	cids, _, err := types.SelectHoldings(refs, amount)
	return cids, err
}
