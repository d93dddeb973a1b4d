package keeper

import (
	"context"
	"errors"
	"slices"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/x/shared"
	"github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// ==================== Mint ====================

// CreateMintRequest asks issuer to mint amount of instrumentID to receiver.
func (k Keeper) CreateMintRequest(ctx context.Context, receiver, issuer ledger.Party, instrumentID string, amount ledger.Numeric) (shared.Contract[types.IssuerMintRequest], error) {
	req := types.IssuerMintRequest{Issuer: issuer, Receiver: receiver, InstrumentID: instrumentID, Amount: amount}
	if err := req.ValidateBasic(); err != nil {
		return shared.Contract[types.IssuerMintRequest]{}, err
	}
	c, err := k.mintRequests.Create(ctx, k.client, receiver, req)
	if err != nil {
		return c, err
	}
	k.logger.Info("mint request created", "contract_id", c.ContractID, "receiver", receiver, "instrument", instrumentID, "amount", amount)
	return c, nil
}

// FindMintRequest returns the pending mint request equal to want.
func (k Keeper) FindMintRequest(ctx context.Context, party ledger.Party, want types.IssuerMintRequest) (shared.Contract[types.IssuerMintRequest], error) {
	return k.mintRequests.Find(ctx, k.client, party, func(r types.IssuerMintRequest) bool {
		return r.Issuer == want.Issuer && r.Receiver == want.Receiver &&
			r.InstrumentID == want.InstrumentID && r.Amount.Equal(want.Amount)
	})
}

// ListMintRequests returns the pending mint requests party is involved in.
func (k Keeper) ListMintRequests(ctx context.Context, party ledger.Party) ([]shared.Contract[types.IssuerMintRequest], error) {
	return k.mintRequests.List(ctx, k.client, party, func(r types.IssuerMintRequest) bool {
		return r.Issuer == party || r.Receiver == party
	})
}

// AcceptMintRequest mints the requested holding as issuer.
func (k Keeper) AcceptMintRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) (shared.Contract[types.Holding], error) {
	tx, err := k.mintRequests.Accept(ctx, k.client, issuer, cid)
	if err != nil {
		return shared.Contract[types.Holding]{}, err
	}
	holding, err := shared.CreatedOne[types.Holding](tx, types.HoldingTemplateID)
	if err != nil {
		return holding, err
	}
	k.logger.Info("mint request accepted", "contract_id", cid, "holding", holding.ContractID)
	return holding, nil
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

// ==================== Burn ====================

// CreateBurnRequest asks issuer to burn amount out of owner's holdings.
func (k Keeper) CreateBurnRequest(ctx context.Context, owner, issuer ledger.Party, instrumentID string, amount ledger.Numeric) (shared.Contract[types.IssuerBurnRequest], error) {
	inputs, err := k.selectInputs(ctx, owner, issuer, instrumentID, amount)
	if err != nil {
		return shared.Contract[types.IssuerBurnRequest]{}, err
	}
	req := types.IssuerBurnRequest{Issuer: issuer, Owner: owner, InstrumentID: instrumentID, Amount: amount, InputHoldingCids: inputs}
	if err := req.ValidateBasic(); err != nil {
		return shared.Contract[types.IssuerBurnRequest]{}, err
	}
	c, err := k.burnRequests.Create(ctx, k.client, owner, req)
	if err != nil {
		return c, err
	}
	k.logger.Info("burn request created", "contract_id", c.ContractID, "owner", owner, "instrument", instrumentID, "amount", amount)
	return c, nil
}

// ListBurnRequests returns the pending burn requests party is involved in.
func (k Keeper) ListBurnRequests(ctx context.Context, party ledger.Party) ([]shared.Contract[types.IssuerBurnRequest], error) {
	return k.burnRequests.List(ctx, k.client, party, func(r types.IssuerBurnRequest) bool {
		return r.Issuer == party || r.Owner == party
	})
}

// AcceptBurnRequest burns the input holdings as issuer.
func (k Keeper) AcceptBurnRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	if _, err := k.burnRequests.Accept(ctx, k.client, issuer, cid); err != nil {
		return err
	}
	k.logger.Info("burn request accepted", "contract_id", cid)
	return nil
}

// DeclineBurnRequest declines the request as issuer.
func (k Keeper) DeclineBurnRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	_, err := k.burnRequests.Decline(ctx, k.client, issuer, cid)
	return err
}

// WithdrawBurnRequest withdraws the request as its owner.
func (k Keeper) WithdrawBurnRequest(ctx context.Context, owner ledger.Party, cid ledger.ContractID) error {
	_, err := k.burnRequests.Withdraw(ctx, k.client, owner, cid)
	return err
}

// ==================== Transfer ====================

// CreateTransferRequest asks issuer to move amount from sender to receiver,
// locking in sender holdings that cover the amount.
func (k Keeper) CreateTransferRequest(ctx context.Context, sender, receiver, issuer ledger.Party, instrumentID string, amount ledger.Numeric) (shared.Contract[types.TransferRequest], error) {
	inputs, err := k.selectInputs(ctx, sender, issuer, instrumentID, amount)
	if err != nil {
		return shared.Contract[types.TransferRequest]{}, err
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
	c, err := k.transferRequests.Create(ctx, k.client, sender, req)
	if err != nil {
		return c, err
	}
	k.logger.Info("transfer request created", "contract_id", c.ContractID, "sender", sender, "receiver", receiver, "amount", amount)
	return c, nil
}

// ListTransferRequests returns the pending transfer requests party is involved in.
func (k Keeper) ListTransferRequests(ctx context.Context, party ledger.Party) ([]shared.Contract[types.TransferRequest], error) {
	return k.transferRequests.List(ctx, k.client, party, func(r types.TransferRequest) bool {
		return r.Issuer == party || r.Sender == party || r.Receiver == party
	})
}

// AcceptTransferRequest settles the transfer as issuer and returns the receiver's new holding.
func (k Keeper) AcceptTransferRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) (shared.Contract[types.Holding], error) {
	req, err := k.transferRequests.Get(ctx, k.client, issuer, cid)
	if err != nil {
		return shared.Contract[types.Holding]{}, err
	}
	tx, err := k.transferRequests.Accept(ctx, k.client, issuer, cid)
	if err != nil {
		return shared.Contract[types.Holding]{}, err
	}
	holding, err := receivedHolding(tx, req.Payload.Receiver)
	if err != nil {
		return holding, err
	}
	k.logger.Info("transfer request accepted", "contract_id", cid, "holding", holding.ContractID)
	return holding, nil
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

// ==================== Preapprovals ====================

// CreatePreapprovalProposal asks issuer to preapprove incoming transfers to receiver.
func (k Keeper) CreatePreapprovalProposal(ctx context.Context, receiver, issuer ledger.Party, instrumentID string) (shared.Contract[types.PreapprovalProposal], error) {
	p := types.PreapprovalProposal{Issuer: issuer, Receiver: receiver, InstrumentID: instrumentID}
	if err := p.ValidateBasic(); err != nil {
		return shared.Contract[types.PreapprovalProposal]{}, err
	}
	return k.proposals.Create(ctx, k.client, receiver, p)
}

// ListPreapprovalProposals returns the pending proposals party is involved in.
func (k Keeper) ListPreapprovalProposals(ctx context.Context, party ledger.Party) ([]shared.Contract[types.PreapprovalProposal], error) {
	return k.proposals.List(ctx, k.client, party, func(p types.PreapprovalProposal) bool {
		return p.Issuer == party || p.Receiver == party
	})
}

// AcceptPreapprovalProposal accepts the proposal as issuer.
func (k Keeper) AcceptPreapprovalProposal(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) (shared.Contract[types.Preapproval], error) {
	tx, err := k.proposals.Accept(ctx, k.client, issuer, cid)
	if err != nil {
		return shared.Contract[types.Preapproval]{}, err
	}
	return shared.CreatedOne[types.Preapproval](tx, types.PreapprovalTemplateID)
}

// DeclinePreapprovalProposal declines the proposal as issuer.
func (k Keeper) DeclinePreapprovalProposal(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	_, err := k.proposals.Decline(ctx, k.client, issuer, cid)
	return err
}

// WithdrawPreapprovalProposal withdraws the proposal as its receiver.
func (k Keeper) WithdrawPreapprovalProposal(ctx context.Context, receiver ledger.Party, cid ledger.ContractID) error {
	_, err := k.proposals.Withdraw(ctx, k.client, receiver, cid)
	return err
}

// ListPreapprovals returns the active preapprovals party is involved in.
func (k Keeper) ListPreapprovals(ctx context.Context, party ledger.Party) ([]shared.Contract[types.Preapproval], error) {
	return shared.Query(ctx, k.client, party, types.PreapprovalTemplateID, func(p types.Preapproval) bool {
		return p.Issuer == party || p.Receiver == party
	})
}

// SendWithPreapproval transfers amount from sender to receiver through the
// receiver's preapproval, without a per-transfer issuer approval.
func (k Keeper) SendWithPreapproval(ctx context.Context, sender, receiver, issuer ledger.Party, instrumentID string, amount ledger.Numeric) (shared.Contract[types.Holding], error) {
	preapproval, err := shared.FindOne(ctx, k.client, receiver, types.PreapprovalTemplateID, func(p types.Preapproval) bool {
		return p.Receiver == receiver && p.Issuer == issuer && p.InstrumentID == instrumentID
	})
	if err != nil {
		if errors.Is(err, ledger.ErrContractNotFound) {
			return shared.Contract[types.Holding]{}, types.ErrPreapprovalNotFound.Wrapf("%s has no preapproval for %s", receiver, instrumentID)
		}
		return shared.Contract[types.Holding]{}, err
	}

	inputs, err := k.selectInputs(ctx, sender, issuer, instrumentID, amount)
	if err != nil {
		return shared.Contract[types.Holding]{}, err
	}

	tx, err := k.client.Submit(ctx, ledger.Commands{
		ActAs:  []ledger.Party{sender},
		ReadAs: []ledger.Party{receiver},
		Commands: []ledger.Command{ledger.NewExercise(types.PreapprovalTemplateID, preapproval.ContractID, types.ChoicePreapprovalSend,
			types.PreapprovalSend{Sender: sender, Amount: amount, InputHoldingCids: inputs})},
	})
	if err != nil {
		return shared.Contract[types.Holding]{}, err
	}
	holding, err := receivedHolding(tx, receiver)
	if err != nil {
		return holding, err
	}
	k.logger.Info("sent with preapproval", "preapproval", preapproval.ContractID, "sender", sender, "receiver", receiver, "amount", amount)
	return holding, nil
}

func receivedHolding(tx *ledger.Transaction, receiver ledger.Party) (shared.Contract[types.Holding], error) {
	created, err := shared.CreatedAll[types.Holding](tx, types.HoldingTemplateID)
	if err != nil {
		return shared.Contract[types.Holding]{}, err
	}
	i := slices.IndexFunc(created, func(c shared.Contract[types.Holding]) bool { return c.Payload.Owner == receiver })
	if i < 0 {
		return shared.Contract[types.Holding]{}, ledger.ErrMalformedResponse.Wrapf("transaction created no holding for %s", receiver)
	}
	return created[i], nil
}
