package custodian

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the error codespace and log module of the custodian.
const ModuleName = "custodian"

// Custodian sentinel errors
var (
	ErrUnknownTemplate  = errorsmod.Register(ModuleName, 2, "unknown request template")
	ErrInvalidPayload   = errorsmod.Register(ModuleName, 3, "invalid request payload")
	ErrApprovalRejected = errorsmod.Register(ModuleName, 4, "request rejected by approval service")
	ErrQueryFailed      = errorsmod.Register(ModuleName, 5, "active contract query failed")
	ErrInvalidConfig    = errorsmod.Register(ModuleName, 6, "invalid custodian configuration")
)
