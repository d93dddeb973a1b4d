package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Token module sentinel errors
var (
	ErrInvalidAmount        = sdkerrors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidInstrument    = sdkerrors.Register(ModuleName, 3, "invalid instrument")
	ErrInvalidParty         = sdkerrors.Register(ModuleName, 4, "invalid party")
	ErrInsufficientHoldings = sdkerrors.Register(ModuleName, 5, "insufficient holdings")
	ErrInvalidHoldings      = sdkerrors.Register(ModuleName, 6, "invalid input holdings")
	ErrPreapprovalNotFound  = sdkerrors.Register(ModuleName, 7, "transfer preapproval not found")
)
