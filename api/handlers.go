package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// action exercises a choice on the request contract named by the :cid path
// parameter, acting as the party in the body.
func action[R any](s *Server, name string, fn func(context.Context, ledger.Party, ledger.ContractID) (R, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
		if err := ledger.ValidateParty(req.Party); err != nil {
			respondError(c, err)
			return
		}
		cid := ledger.ContractID(c.Param("cid"))

		result, err := fn(c.Request.Context(), req.Party, cid)
		if err != nil {
			respondError(c, err)
			return
		}
		s.logger.Info("choice exercised", "action", name, "contract_id", cid, "party", req.Party)
		c.JSON(http.StatusOK, ActionResponse{
			ContractID: cid,
			Action:     name,
			Result:     result,
		})
	}
}

// noResult adapts choices that produce nothing worth returning.
func noResult(fn func(context.Context, ledger.Party, ledger.ContractID) error) func(context.Context, ledger.Party, ledger.ContractID) (any, error) {
	return func(ctx context.Context, party ledger.Party, cid ledger.ContractID) (any, error) {
		return nil, fn(ctx, party, cid)
	}
}

// queryParty reads and validates the party query parameter.
func queryParty(c *gin.Context) (ledger.Party, bool) {
	party := ledger.Party(c.Query("party"))
	if err := ledger.ValidateParty(party); err != nil {
		respondError(c, err)
		return "", false
	}
	return party, true
}

// list serves the contracts fn returns for the party query parameter.
func list[T any](c *gin.Context, fn func(context.Context, ledger.Party) ([]T, error)) {
	party, ok := queryParty(c)
	if !ok {
		return
	}
	items, err := fn(c.Request.Context(), party)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

// bind decodes the JSON body into req and writes a 400 on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, err)
		return false
	}
	return true
}
