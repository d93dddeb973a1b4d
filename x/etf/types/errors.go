package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// ETF module sentinel errors
var (
	ErrInvalidComposition = sdkerrors.Register(ModuleName, 2, "invalid portfolio composition")
	ErrInvalidAmount      = sdkerrors.Register(ModuleName, 3, "invalid amount")
	ErrInvalidParty       = sdkerrors.Register(ModuleName, 4, "invalid party")
	ErrRecipeNotFound     = sdkerrors.Register(ModuleName, 5, "mint recipe not found")
	ErrInvalidHoldings    = sdkerrors.Register(ModuleName, 6, "invalid component holdings")
)
