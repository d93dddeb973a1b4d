package api

import (
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	bondtypes "github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	etftypes "github.com/owlprotocol/denote-workspace-sub000/x/etf/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ActionRequest carries the party exercising a choice on a request contract.
type ActionRequest struct {
	Party ledger.Party `json:"party" binding:"required"`
}

// ActionResponse reports an exercised choice.
type ActionResponse struct {
	ContractID ledger.ContractID `json:"contractId"`
	Action     string            `json:"action"`
	Result     any               `json:"result,omitempty"`
}

// PartyResponse returns a party id.
type PartyResponse struct {
	Party ledger.Party `json:"party"`
}

// AllocatePartyRequest asks the ledger for a new party.
type AllocatePartyRequest struct {
	Hint string `json:"hint" binding:"required"`
}

// ==================== Tokens ====================

// FactoryRequest creates a token or bond factory.
type FactoryRequest struct {
	Party        ledger.Party `json:"party" binding:"required"`
	InstrumentID string       `json:"instrumentId" binding:"required"`
}

// MintRequest asks an issuer to mint to Party.
type MintRequest struct {
	Party        ledger.Party   `json:"party" binding:"required"`
	Issuer       ledger.Party   `json:"issuer" binding:"required"`
	InstrumentID string         `json:"instrumentId" binding:"required"`
	Amount       ledger.Numeric `json:"amount"`
}

// BurnRequest asks an issuer to burn Party's holdings.
type BurnRequest = MintRequest

// TransferRequest asks an issuer to move holdings from Party to Receiver.
type TransferRequest struct {
	Party        ledger.Party   `json:"party" binding:"required"`
	Receiver     ledger.Party   `json:"receiver" binding:"required"`
	Issuer       ledger.Party   `json:"issuer" binding:"required"`
	InstrumentID string         `json:"instrumentId" binding:"required"`
	Amount       ledger.Numeric `json:"amount"`
}

// PreapprovalRequest proposes that Party receive an instrument without
// per-transfer approval.
type PreapprovalRequest struct {
	Party        ledger.Party `json:"party" binding:"required"`
	Issuer       ledger.Party `json:"issuer" binding:"required"`
	InstrumentID string       `json:"instrumentId" binding:"required"`
}

// PreapprovalsResponse lists pending proposals and accepted preapprovals.
type PreapprovalsResponse struct {
	Proposals    any `json:"proposals"`
	Preapprovals any `json:"preapprovals"`
}

// ==================== Bonds ====================

// InstrumentRequest creates a bond instrument.
type InstrumentRequest struct {
	Party           ledger.Party   `json:"party" binding:"required"`
	InstrumentID    string         `json:"instrumentId" binding:"required"`
	Notional        ledger.Numeric `json:"notional"`
	CouponRate      ledger.Numeric `json:"couponRate"`
	CouponFrequency int            `json:"couponFrequency"`
	MaturityDate    string         `json:"maturityDate" binding:"required"`
	Currency        string         `json:"currency" binding:"required"`
}

// LifecycleEventRequest processes a coupon or redemption.
type LifecycleEventRequest struct {
	Party        ledger.Party        `json:"party" binding:"required"`
	InstrumentID string              `json:"instrumentId" binding:"required"`
	EventType    bondtypes.EventType `json:"eventType" binding:"required"`
	EventDate    string              `json:"eventDate" binding:"required"`
}

// ClaimRequest claims a lifecycle effect for a bond holding.
type ClaimRequest struct {
	Party          ledger.Party      `json:"party" binding:"required"`
	Issuer         ledger.Party      `json:"issuer" binding:"required"`
	EffectCid      ledger.ContractID `json:"effectCid" binding:"required"`
	BondHoldingCid ledger.ContractID `json:"bondHoldingCid" binding:"required"`
}

// ==================== ETF ====================

// CompositionRequest creates a portfolio composition.
type CompositionRequest struct {
	Party ledger.Party             `json:"party" binding:"required"`
	Name  string                   `json:"name" binding:"required"`
	Items []etftypes.PortfolioItem `json:"items"`
}

// MintRecipeRequest creates an ETF mint recipe.
type MintRecipeRequest struct {
	Party           ledger.Party      `json:"party" binding:"required"`
	InstrumentID    string            `json:"instrumentId" binding:"required"`
	CompositionCid  ledger.ContractID `json:"compositionCid" binding:"required"`
	ComponentIssuer ledger.Party      `json:"componentIssuer" binding:"required"`
}

// ETFMintRequest asks an ETF issuer to mint against component holdings. Empty
// ComponentHoldingCids selects them automatically.
type ETFMintRequest struct {
	Party                ledger.Party        `json:"party" binding:"required"`
	Issuer               ledger.Party        `json:"issuer" binding:"required"`
	InstrumentID         string              `json:"instrumentId" binding:"required"`
	Amount               ledger.Numeric      `json:"amount"`
	ComponentHoldingCids []ledger.ContractID `json:"componentHoldingCids"`
}
