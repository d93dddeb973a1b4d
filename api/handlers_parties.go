package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleAllocateParty allocates a new party on the ledger
func (s *Server) handleAllocateParty(c *gin.Context) {
	var req AllocatePartyRequest
	if !bind(c, &req) {
		return
	}
	party, err := s.client.AllocateParty(c.Request.Context(), req.Hint)
	if err != nil {
		respondError(c, err)
		return
	}
	s.logger.Info("party allocated", "party", party)
	c.JSON(http.StatusCreated, PartyResponse{Party: party})
}

// handleCustodianParty reports the party the custodian acts as
func (s *Server) handleCustodianParty(c *gin.Context) {
	if s.custodian == "" {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Custodian not configured",
			Code:  "NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, PartyResponse{Party: s.custodian})
}
