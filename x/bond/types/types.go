package types

import (
	"time"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// DateLayout is the ledger's Date encoding.
const DateLayout = time.DateOnly

// Rules is the issuer's bond rules contract.
type Rules struct {
	Issuer ledger.Party `json:"issuer"`
}

// Factory mints one bond instrument on behalf of its issuer.
type Factory struct {
	Issuer       ledger.Party `json:"issuer"`
	InstrumentID string       `json:"instrumentId"`
}

// Instrument holds the terms of a bond.
type Instrument struct {
	Issuer          ledger.Party   `json:"issuer"`
	InstrumentID    string         `json:"instrumentId"`
	Notional        ledger.Numeric `json:"notional"`
	CouponRate      ledger.Numeric `json:"couponRate"`
	CouponFrequency int            `json:"couponFrequency"`
	MaturityDate    string         `json:"maturityDate"`
	Currency        string         `json:"currency"`
}

// ValidateBasic checks the terms before the instrument is created.
func (i Instrument) ValidateBasic() error {
	if err := ledger.ValidateParty(i.Issuer); err != nil {
		return ErrInvalidParty.Wrap(err.Error())
	}
	if i.InstrumentID == "" {
		return ErrInvalidInstrument.Wrap("instrument id cannot be empty")
	}
	if !i.Notional.IsPositive() {
		return ErrInvalidInstrument.Wrapf("notional must be positive, got %s", i.Notional)
	}
	if i.CouponRate.IsNegative() {
		return ErrInvalidInstrument.Wrapf("coupon rate cannot be negative, got %s", i.CouponRate)
	}
	if i.CouponFrequency <= 0 || i.CouponFrequency > 12 {
		return ErrInvalidInstrument.Wrapf("coupon frequency must be between 1 and 12, got %d", i.CouponFrequency)
	}
	if _, err := time.Parse(DateLayout, i.MaturityDate); err != nil {
		return ErrInvalidInstrument.Wrapf("maturity date %q: %s", i.MaturityDate, err)
	}
	if i.Currency == "" {
		return ErrInvalidInstrument.Wrap("currency cannot be empty")
	}
	return nil
}

// CouponPerUnit is the coupon paid per bond unit each period.
func (i Instrument) CouponPerUnit() ledger.Numeric {
	return i.Notional.Mul(i.CouponRate).QuoInt64(int64(i.CouponFrequency))
}

// Holding is a number of bond units owned by a party.
type Holding struct {
	Issuer       ledger.Party   `json:"issuer"`
	Owner        ledger.Party   `json:"owner"`
	InstrumentID string         `json:"instrumentId"`
	Amount       ledger.Numeric `json:"amount"`
}

// MintRequest asks the issuer to mint bond units to receiver.
type MintRequest struct {
	Issuer       ledger.Party   `json:"issuer"`
	Receiver     ledger.Party   `json:"receiver"`
	InstrumentID string         `json:"instrumentId"`
	Amount       ledger.Numeric `json:"amount"`
}

// ValidateBasic checks the request before it is submitted.
func (r MintRequest) ValidateBasic() error {
	if err := validateParties(r.Issuer, r.Receiver); err != nil {
		return err
	}
	return validateInstrumentAmount(r.InstrumentID, r.Amount)
}

// TransferRequest asks the issuer to move bond units from sender to receiver.
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
	if len(r.InputHoldingCids) == 0 {
		return ErrInvalidHoldings.Wrap("at least one input holding is required")
	}
	return nil
}

// LifecycleRule lets the issuer process coupon and redemption events.
type LifecycleRule struct {
	Issuer ledger.Party `json:"issuer"`
}

// EventType is the kind of a lifecycle event.
type EventType string

const (
	EventCoupon     EventType = "Coupon"
	EventRedemption EventType = "Redemption"
)

// LifecycleEvent is the argument of the lifecycle rule choices.
type LifecycleEvent struct {
	InstrumentCid ledger.ContractID `json:"instrumentCid"`
	EventDate     string            `json:"eventDate"`
}

// LifecycleEffect records the per-unit payment holders may claim for an event.
type LifecycleEffect struct {
	Issuer        ledger.Party   `json:"issuer"`
	InstrumentID  string         `json:"instrumentId"`
	EventType     EventType      `json:"eventType"`
	EventDate     string         `json:"eventDate"`
	Currency      string         `json:"currency"`
	AmountPerUnit ledger.Numeric `json:"amountPerUnit"`
}

// LifecycleClaimRequest asks the issuer to settle an effect for one bond holding.
type LifecycleClaimRequest struct {
	Issuer         ledger.Party      `json:"issuer"`
	Holder         ledger.Party      `json:"holder"`
	EffectCid      ledger.ContractID `json:"effectCid"`
	BondHoldingCid ledger.ContractID `json:"bondHoldingCid"`
}

// ValidateBasic checks the request before it is submitted.
func (r LifecycleClaimRequest) ValidateBasic() error {
	if err := validateParties(r.Issuer, r.Holder); err != nil {
		return err
	}
	if r.EffectCid == "" {
		return ErrInvalidEvent.Wrap("effect contract id cannot be empty")
	}
	if r.BondHoldingCid == "" {
		return ErrInvalidHoldings.Wrap("bond holding contract id cannot be empty")
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
