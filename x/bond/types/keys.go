package types

import "github.com/owlprotocol/denote-workspace-sub000/ledger"

const (
	// ModuleName defines the module name
	ModuleName = "bond"

	// PackageName is the ledger package holding the bond templates
	PackageName = "#minimal-bond"
)

// Template ids of the minimal bond package
const (
	RulesTemplateID                 ledger.TemplateID = PackageName + ":Bond.BondRules:BondRules"
	FactoryTemplateID               ledger.TemplateID = PackageName + ":Bond.BondFactory:BondFactory"
	InstrumentTemplateID            ledger.TemplateID = PackageName + ":Bond.BondInstrument:BondInstrument"
	HoldingTemplateID               ledger.TemplateID = PackageName + ":Bond.Bond:Bond"
	MintRequestTemplateID           ledger.TemplateID = PackageName + ":Bond.BondIssuerMintRequest:BondIssuerMintRequest"
	TransferRequestTemplateID       ledger.TemplateID = PackageName + ":Bond.BondTransferRequest:BondTransferRequest"
	LifecycleRuleTemplateID         ledger.TemplateID = PackageName + ":Bond.BondLifecycleRule:BondLifecycleRule"
	LifecycleEffectTemplateID       ledger.TemplateID = PackageName + ":Bond.BondLifecycleEffect:BondLifecycleEffect"
	LifecycleClaimRequestTemplateID ledger.TemplateID = PackageName + ":Bond.BondLifecycleClaimRequest:BondLifecycleClaimRequest"
)

// Lifecycle rule choices
const (
	ChoiceProcessCoupon     = "BondLifecycleRule_ProcessCouponEvent"
	ChoiceProcessRedemption = "BondLifecycleRule_ProcessRedemptionEvent"
)
