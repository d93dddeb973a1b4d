package types

import (
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// HoldingRef is a holding contract id with its payload.
type HoldingRef struct {
	ContractID ledger.ContractID
	Holding    Holding
}

// SelectHoldings picks holdings in order until their sum covers amount. It
// returns the chosen contract ids and the change left over.
func SelectHoldings(holdings []HoldingRef, amount ledger.Numeric) ([]ledger.ContractID, ledger.Numeric, error) {
	if !amount.IsPositive() {
		return nil, ledger.Numeric{}, ErrInvalidAmount.Wrapf("amount must be positive, got %s", amount)
	}

	var (
		selected []ledger.ContractID
		total    = ledger.ZeroNumeric()
	)
	for _, h := range holdings {
		if !h.Holding.Amount.IsPositive() {
			continue
		}
		selected = append(selected, h.ContractID)
		total = total.Add(h.Holding.Amount)
		if total.GTE(amount) {
			return selected, total.Sub(amount), nil
		}
	}
	return nil, ledger.Numeric{}, ErrInsufficientHoldings.Wrapf("need %s, have %s", amount, total)
}

// BalanceKey identifies an instrument.
type BalanceKey struct {
	Issuer       ledger.Party `json:"issuer"`
	InstrumentID string       `json:"instrumentId"`
}

// Balance is the sum of a party's holdings of one instrument.
type Balance struct {
	BalanceKey
	Amount   ledger.Numeric `json:"amount"`
	Holdings int            `json:"holdings"`
}
