package ledger

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the error codespace of the ledger package.
const ModuleName = "ledger"

// Ledger sentinel errors
var (
	ErrContractNotFound   = errorsmod.Register(ModuleName, 2, "contract not found")
	ErrLedgerUnavailable  = errorsmod.Register(ModuleName, 3, "ledger unavailable")
	ErrCommandRejected    = errorsmod.Register(ModuleName, 4, "command rejected by ledger")
	ErrUnauthorized       = errorsmod.Register(ModuleName, 5, "not authorized on ledger")
	ErrInvalidNumeric     = errorsmod.Register(ModuleName, 6, "invalid numeric value")
	ErrInvalidKeyMaterial = errorsmod.Register(ModuleName, 7, "invalid key material")
	ErrInvalidParty       = errorsmod.Register(ModuleName, 8, "invalid party")
	ErrMalformedResponse  = errorsmod.Register(ModuleName, 9, "malformed ledger response")
)

// ValidateParty checks that p has the "hint::fingerprint" shape.
func ValidateParty(p Party) error {
	hint, fingerprint, ok := strings.Cut(string(p), "::")
	if !ok || hint == "" || fingerprint == "" {
		return errorsmod.Wrapf(ErrInvalidParty, "%q", p)
	}
	return nil
}
