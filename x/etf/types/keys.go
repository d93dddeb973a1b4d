package types

import "github.com/owlprotocol/denote-workspace-sub000/ledger"

const (
	// ModuleName defines the module name
	ModuleName = "etf"

	// PackageName is the ledger package holding the ETF templates
	PackageName = "#minimal-etf"
)

// Template ids of the minimal ETF package
const (
	CompositionTemplateID ledger.TemplateID = PackageName + ":ETF.PortfolioComposition:PortfolioComposition"
	MintRecipeTemplateID  ledger.TemplateID = PackageName + ":ETF.MintRecipe:MintRecipe"
	MintRequestTemplateID ledger.TemplateID = PackageName + ":ETF.ETFMintRequest:ETFMintRequest"
	BurnRequestTemplateID ledger.TemplateID = PackageName + ":ETF.ETFBurnRequest:ETFBurnRequest"
)
