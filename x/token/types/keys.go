package types

import "github.com/owlprotocol/denote-workspace-sub000/ledger"

const (
	// ModuleName defines the module name
	ModuleName = "token"

	// PackageName is the ledger package holding the token templates
	PackageName = "#minimal-token"
)

// Template ids of the minimal token package
const (
	RulesTemplateID               ledger.TemplateID = PackageName + ":MyTokenRules:MyTokenRules"
	FactoryTemplateID             ledger.TemplateID = PackageName + ":MyTokenFactory:MyTokenFactory"
	HoldingTemplateID             ledger.TemplateID = PackageName + ":MyToken:MyToken"
	MintRequestTemplateID         ledger.TemplateID = PackageName + ":MyToken.IssuerMintRequest:IssuerMintRequest"
	BurnRequestTemplateID         ledger.TemplateID = PackageName + ":MyToken.IssuerBurnRequest:IssuerBurnRequest"
	TransferRequestTemplateID     ledger.TemplateID = PackageName + ":MyToken.TransferRequest:TransferRequest"
	PreapprovalProposalTemplateID ledger.TemplateID = PackageName + ":MyToken.TransferPreapprovalProposal:TransferPreapprovalProposal"
	PreapprovalTemplateID         ledger.TemplateID = PackageName + ":MyToken.TransferPreapproval:TransferPreapproval"
)

// ChoicePreapprovalSend moves holdings to the preapproval's receiver.
const ChoicePreapprovalSend = "TransferPreapproval_Send"
