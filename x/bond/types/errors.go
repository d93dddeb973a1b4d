package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Bond module sentinel errors
var (
	ErrInvalidAmount        = sdkerrors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidInstrument    = sdkerrors.Register(ModuleName, 3, "invalid bond instrument")
	ErrInvalidParty         = sdkerrors.Register(ModuleName, 4, "invalid party")
	ErrInsufficientHoldings = sdkerrors.Register(ModuleName, 5, "insufficient bond holdings")
	ErrInvalidHoldings      = sdkerrors.Register(ModuleName, 6, "invalid input holdings")
	ErrInvalidEvent         = sdkerrors.Register(ModuleName, 7, "invalid lifecycle event")
	ErrInstrumentMatured    = sdkerrors.Register(ModuleName, 8, "bond instrument has matured")
)
