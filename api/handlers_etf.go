package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleCreateComposition creates a portfolio composition owned by the party
func (s *Server) handleCreateComposition(c *gin.Context) {
	var req CompositionRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.etf.CreateComposition(c.Request.Context(), req.Party, req.Name, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListCompositions(c *gin.Context) {
	list(c, s.etf.ListCompositions)
}

// handleCreateMintRecipe publishes the recipe for minting the party's ETF
func (s *Server) handleCreateMintRecipe(c *gin.Context) {
	var req MintRecipeRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.etf.GetOrCreateMintRecipe(c.Request.Context(), req.Party, req.InstrumentID, req.CompositionCid, req.ComponentIssuer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleCreateETFMint(c *gin.Context) {
	var req ETFMintRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.etf.CreateMintRequest(c.Request.Context(), req.Party, req.Issuer, req.InstrumentID, req.Amount, req.ComponentHoldingCids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListETFMints(c *gin.Context) {
	list(c, s.etf.ListMintRequests)
}

func (s *Server) handleCreateETFBurn(c *gin.Context) {
	var req BurnRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.etf.CreateBurnRequest(c.Request.Context(), req.Party, req.Issuer, req.InstrumentID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListETFBurns(c *gin.Context) {
	list(c, s.etf.ListBurnRequests)
}
