package api

import (
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	bondtypes "github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	etftypes "github.com/owlprotocol/denote-workspace-sub000/x/etf/types"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// codespaces whose errors are caused by the caller's input
var validationCodespaces = map[string]bool{
	tokentypes.ModuleName: true,
	bondtypes.ModuleName:  true,
	etftypes.ModuleName:   true,
}

// statusFor maps an error to its HTTP status and response code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrContractNotFound),
		errors.Is(err, tokentypes.ErrPreapprovalNotFound),
		errors.Is(err, etftypes.ErrRecipeNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ledger.ErrLedgerUnavailable):
		return http.StatusBadGateway, "LEDGER_UNAVAILABLE"
	case errors.Is(err, ledger.ErrInvalidParty), errors.Is(err, ledger.ErrInvalidNumeric):
		return http.StatusBadRequest, "INVALID_REQUEST"
	}
	if codespace, _, _ := errorsmod.ABCIInfo(err, false); validationCodespaces[codespace] {
		return http.StatusBadRequest, "INVALID_REQUEST"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// respondError writes err as an ErrorResponse.
func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: err.Error(),
	})
}

// respondBadRequest reports a malformed request body or query.
func respondBadRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request",
		Code:    "INVALID_REQUEST",
		Details: err.Error(),
	})
}
