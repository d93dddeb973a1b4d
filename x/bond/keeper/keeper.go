package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	"github.com/owlprotocol/denote-workspace-sub000/x/shared"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// Keeper composes the bond workflows on top of a ledger client
type Keeper struct {
	client ledger.Client
	logger log.Logger

	mintRequests     shared.RequestTemplate[types.MintRequest]
	transferRequests shared.RequestTemplate[types.TransferRequest]
	claimRequests    shared.RequestTemplate[types.LifecycleClaimRequest]
}

// NewKeeper creates a new bond Keeper instance
func NewKeeper(client ledger.Client, logger log.Logger) *Keeper {
	return &Keeper{
		client:           client,
		logger:           logger.With("module", fmt.Sprintf("x/%s", types.ModuleName)),
		mintRequests:     shared.NewRequestTemplate[types.MintRequest](types.MintRequestTemplateID),
		transferRequests: shared.NewRequestTemplate[types.TransferRequest](types.TransferRequestTemplateID),
		claimRequests:    shared.NewRequestTemplate[types.LifecycleClaimRequest](types.LifecycleClaimRequestTemplateID),
	}
}

// GetOrCreateRules returns the issuer's bond rules, creating them on first use.
func (k Keeper) GetOrCreateRules(ctx context.Context, issuer ledger.Party) (shared.Contract[types.Rules], error) {
	return shared.GetOrCreate(ctx, k.client, issuer, types.RulesTemplateID,
		func(r types.Rules) bool { return r.Issuer == issuer },
		types.Rules{Issuer: issuer},
	)
}

// GetOrCreateFactory returns the issuer's bond factory for instrumentID.
func (k Keeper) GetOrCreateFactory(ctx context.Context, issuer ledger.Party, instrumentID string) (shared.Contract[types.Factory], error) {
	if _, err := k.GetOrCreateRules(ctx, issuer); err != nil {
		return shared.Contract[types.Factory]{}, err
	}
	return shared.GetOrCreate(ctx, k.client, issuer, types.FactoryTemplateID,
		func(f types.Factory) bool { return f.Issuer == issuer && f.InstrumentID == instrumentID },
		types.Factory{Issuer: issuer, InstrumentID: instrumentID},
	)
}

// CreateInstrument creates the bond instrument and its factory. An existing
// instrument with the same id is returned unchanged.
func (k Keeper) CreateInstrument(ctx context.Context, inst types.Instrument) (shared.Contract[types.Instrument], error) {
	if err := inst.ValidateBasic(); err != nil {
		return shared.Contract[types.Instrument]{}, err
	}
	if _, err := k.GetOrCreateFactory(ctx, inst.Issuer, inst.InstrumentID); err != nil {
		return shared.Contract[types.Instrument]{}, err
	}
	c, err := shared.GetOrCreate(ctx, k.client, inst.Issuer, types.InstrumentTemplateID,
		func(i types.Instrument) bool { return i.Issuer == inst.Issuer && i.InstrumentID == inst.InstrumentID },
		inst,
	)
	if err != nil {
		return c, err
	}
	k.logger.Info("bond instrument ready", "contract_id", c.ContractID, "instrument", inst.InstrumentID, "maturity", inst.MaturityDate)
	return c, nil
}

// GetInstrument returns issuer's instrument with the given id.
func (k Keeper) GetInstrument(ctx context.Context, issuer ledger.Party, instrumentID string) (shared.Contract[types.Instrument], error) {
	return shared.FindOne(ctx, k.client, issuer, types.InstrumentTemplateID, func(i types.Instrument) bool {
		return i.Issuer == issuer && i.InstrumentID == instrumentID
	})
}

// ListHoldings returns every bond holding owned by owner.
func (k Keeper) ListHoldings(ctx context.Context, owner ledger.Party) ([]shared.Contract[types.Holding], error) {
	return shared.Query(ctx, k.client, owner, types.HoldingTemplateID, func(h types.Holding) bool {
		return h.Owner == owner
	})
}

// ==================== Mint ====================

// CreateMintRequest asks issuer to mint amount bond units to receiver.
func (k Keeper) CreateMintRequest(ctx context.Context, receiver, issuer ledger.Party, instrumentID string, amount ledger.Numeric) (shared.Contract[types.MintRequest], error) {
	req := types.MintRequest{Issuer: issuer, Receiver: receiver, InstrumentID: instrumentID, Amount: amount}
	if err := req.ValidateBasic(); err != nil {
		return shared.Contract[types.MintRequest]{}, err
	}
	return k.mintRequests.Create(ctx, k.client, receiver, req)
}

// ListMintRequests returns the pending bond mint requests party is involved in.
func (k Keeper) ListMintRequests(ctx context.Context, party ledger.Party) ([]shared.Contract[types.MintRequest], error) {
	return k.mintRequests.List(ctx, k.client, party, func(r types.MintRequest) bool {
		return r.Issuer == party || r.Receiver == party
	})
}

// AcceptMintRequest mints the bond holding as issuer.
func (k Keeper) AcceptMintRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) (shared.Contract[types.Holding], error) {
	tx, err := k.mintRequests.Accept(ctx, k.client, issuer, cid)
	if err != nil {
		return shared.Contract[types.Holding]{}, err
	}
	k.logger.Info("bond mint request accepted", "contract_id", cid)
	return shared.CreatedOne[types.Holding](tx, types.HoldingTemplateID)
}

// DeclineMintRequest declines the request as issuer.
func (k Keeper) DeclineMintRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	_, err := k.mintRequests.Decline(ctx, k.client, issuer, cid)
	return err
}

// WithdrawMintRequest withdraws the request as its receiver.
func (k Keeper) WithdrawMintRequest(ctx context.Context, receiver ledger.Party, cid ledger.ContractID) error {
	_, err := k.mintRequests.Withdraw(ctx, k.client, receiver, cid)
	return err
}

// ==================== Transfer ====================

// CreateTransferRequest asks issuer to move amount bond units from sender to receiver.
func (k Keeper) CreateTransferRequest(ctx context.Context, sender, receiver, issuer ledger.Party, instrumentID string, amount ledger.Numeric) (shared.Contract[types.TransferRequest], error) {
	if !amount.IsPositive() {
		return shared.Contract[types.TransferRequest]{}, types.ErrInvalidAmount.Wrapf("amount must be positive, got %s", amount)
	}
	holdings, err := shared.Query(ctx, k.client, sender, types.HoldingTemplateID, func(h types.Holding) bool {
		return h.Owner == sender && h.Issuer == issuer && h.InstrumentID == instrumentID
	})
	if err != nil {
		return shared.Contract[types.TransferRequest]{}, err
	}
	refs := make([]tokentypes.HoldingRef, len(holdings))
	for i, h := range holdings {
		refs[i] = tokentypes.HoldingRef{ContractID: h.ContractID, Holding: tokentypes.Holding(h.Payload)}
	}
	inputs, _, err := tokentypes.SelectHoldings(refs, amount)
	if err != nil {
		return shared.Contract[types.TransferRequest]{}, types.ErrInsufficientHoldings.Wrap(err.Error())
	}

	req := types.TransferRequest{
		Issuer:           issuer,
		Sender:           sender,
		Receiver:         receiver,
		InstrumentID:     instrumentID,
		Amount:           amount,
		InputHoldingCids: inputs,
	}
	if err := req.ValidateBasic(); err != nil {
		return shared.Contract[types.TransferRequest]{}, err
	}
	return k.transferRequests.Create(ctx, k.client, sender, req)
}

// ListTransferRequests returns the pending bond transfers party is involved in.
func (k Keeper) ListTransferRequests(ctx context.Context, party ledger.Party) ([]shared.Contract[types.TransferRequest], error) {
	return k.transferRequests.List(ctx, k.client, party, func(r types.TransferRequest) bool {
		return r.Issuer == party || r.Sender == party || r.Receiver == party
	})
}

// AcceptTransferRequest settles the bond transfer as issuer.
func (k Keeper) AcceptTransferRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	if _, err := k.transferRequests.Accept(ctx, k.client, issuer, cid); err != nil {
		return err
	}
	k.logger.Info("bond transfer request accepted", "contract_id", cid)
	return nil
}

// DeclineTransferRequest declines the request as issuer.
func (k Keeper) DeclineTransferRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	_, err := k.transferRequests.Decline(ctx, k.client, issuer, cid)
	return err
}

// WithdrawTransferRequest withdraws the request as its sender.
func (k Keeper) WithdrawTransferRequest(ctx context.Context, sender ledger.Party, cid ledger.ContractID) error {
	_, err := k.transferRequests.Withdraw(ctx, k.client, sender, cid)
	return err
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return time.Time{}, types.ErrInvalidEvent.Wrapf("event date %q: %s", s, err)
	}
	return d, nil
}
