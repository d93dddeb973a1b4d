package types

import (
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// Rules is the issuer's token rules contract.
type Rules struct {
	Issuer ledger.Party `json:"issuer"`
}

// Factory mints one instrument on behalf of its issuer.
type Factory struct {
	Issuer       ledger.Party `json:"issuer"`
	InstrumentID string       `json:"instrumentId"`
}

// Holding is an amount of an instrument owned by a party.
type Holding struct {
	Issuer       ledger.Party   `json:"issuer"`
	Owner        ledger.Party   `json:"owner"`
	InstrumentID string         `json:"instrumentId"`
	Amount       ledger.Numeric `json:"amount"`
}

// IsInstrument reports whether the holding is of issuer's instrumentID.
func (h Holding) IsInstrument(issuer ledger.Party, instrumentID string) bool {
	return h.Issuer == issuer && h.InstrumentID == instrumentID
}

// IssuerMintRequest asks the issuer to mint amount to receiver.
type IssuerMintRequest struct {
	Issuer       ledger.Party   `json:"issuer"`
	Receiver     ledger.Party   `json:"receiver"`
	InstrumentID string         `json:"instrumentId"`
	Amount       ledger.Numeric `json:"amount"`
}

// ValidateBasic checks the request before it is submitted.
func (r IssuerMintRequest) ValidateBasic() error {
	if err := validateParties(r.Issuer, r.Receiver); err != nil {
		return err
	}
	return validateInstrumentAmount(r.InstrumentID, r.Amount)
}

// IssuerBurnRequest asks the issuer to burn amount out of the owner's input holdings.
type IssuerBurnRequest struct {
	Issuer           ledger.Party        `json:"issuer"`
	Owner            ledger.Party        `json:"owner"`
	InstrumentID     string              `json:"instrumentId"`
	Amount           ledger.Numeric      `json:"amount"`
	InputHoldingCids []ledger.ContractID `json:"inputHoldingCids"`
}

// ValidateBasic checks the request before it is submitted.
func (r IssuerBurnRequest) ValidateBasic() error {
	if err := validateParties(r.Issuer, r.Owner); err != nil {
		return err
	}
	if err := validateInstrumentAmount(r.InstrumentID, r.Amount); err != nil {
		return err
	}
	return ValidateInputHoldings(r.InputHoldingCids)
}

// TransferRequest asks the issuer to move amount from sender to receiver.
type TransferRequest struct {
	Issuer           ledger.Party        `json:"issuer"`
	Sender           ledger.Party        `json:"sender"`
	Receiver         ledger.Party        `json:"receiver"`
	InstrumentID     string              `json:"instrumentId"`
	Amount           ledger.Numeric      `json:"amount"`
	InputHoldingCids []ledger.ContractID `json:"inputHoldingCids"`
}

// ValidateBasic checks the request before it is submitted.
func (r TransferRequest) ValidateBasic() error {
	if err := validateParties(r.Issuer, r.Sender, r.Receiver); err != nil {
		return err
	}
	if r.Sender == r.Receiver {
		return ErrInvalidParty.Wrap("sender and receiver must differ")
	}
	if err := validateInstrumentAmount(r.InstrumentID, r.Amount); err != nil {
		return err
	}
	return ValidateInputHoldings(r.InputHoldingCids)
}

// PreapprovalProposal asks the issuer to preapprove incoming transfers to receiver.
type PreapprovalProposal struct {
	Issuer       ledger.Party `json:"issuer"`
	Receiver     ledger.Party `json:"receiver"`
	InstrumentID string       `json:"instrumentId"`
}

// ValidateBasic checks the proposal before it is submitted.
func (p PreapprovalProposal) ValidateBasic() error {
	if err := validateParties(p.Issuer, p.Receiver); err != nil {
		return err
	}
	if p.InstrumentID == "" {
		return ErrInvalidInstrument.Wrap("instrument id cannot be empty")
	}
	return nil
}

// Preapproval lets any sender transfer the instrument to receiver without a
// per-transfer approval.
type Preapproval struct {
	Issuer       ledger.Party `json:"issuer"`
	Receiver     ledger.Party `json:"receiver"`
	InstrumentID string       `json:"instrumentId"`
}

// PreapprovalSend is the argument of ChoicePreapprovalSend.
type PreapprovalSend struct {
	Sender           ledger.Party        `json:"sender"`
	Amount           ledger.Numeric      `json:"amount"`
	InputHoldingCids []ledger.ContractID `json:"inputHoldingCids"`
}

// ValidateInputHoldings rejects empty or duplicated holding lists.
func ValidateInputHoldings(cids []ledger.ContractID) error {
	if len(cids) == 0 {
		return ErrInvalidHoldings.Wrap("at least one input holding is required")
	}
	seen := make(map[ledger.ContractID]struct{}, len(cids))
	for _, cid := range cids {
		if cid == "" {
			return ErrInvalidHoldings.Wrap("empty holding contract id")
		}
		if _, dup := seen[cid]; dup {
			return ErrInvalidHoldings.Wrapf("holding %s listed twice", cid)
		}
		seen[cid] = struct{}{}
	}
	return nil
}

func validateParties(parties ...ledger.Party) error {
	for _, p := range parties {
		if err := ledger.ValidateParty(p); err != nil {
			return ErrInvalidParty.Wrap(err.Error())
		}
	}
	return nil
}

func validateInstrumentAmount(instrumentID string, amount ledger.Numeric) error {
	if instrumentID == "" {
		return ErrInvalidInstrument.Wrap("instrument id cannot be empty")
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("amount must be positive, got %s", amount)
	}
	return nil
}
