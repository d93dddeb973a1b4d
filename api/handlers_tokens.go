package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleTokenFactory creates the issuer's token rules and factory
func (s *Server) handleTokenFactory(c *gin.Context) {
	var req FactoryRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.tokens.GetOrCreateRules(ctx, req.Party); err != nil {
		respondError(c, err)
		return
	}
	factory, err := s.tokens.GetOrCreateFactory(ctx, req.Party, req.InstrumentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, factory)
}

func (s *Server) handleBalances(c *gin.Context) {
	list(c, s.tokens.Balances)
}

func (s *Server) handleTokenHoldings(c *gin.Context) {
	list(c, s.tokens.ListHoldings)
}

// handleCreateTokenMint asks an issuer to mint to the requesting party
func (s *Server) handleCreateTokenMint(c *gin.Context) {
	var req MintRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.tokens.CreateMintRequest(c.Request.Context(), req.Party, req.Issuer, req.InstrumentID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListTokenMints(c *gin.Context) {
	list(c, s.tokens.ListMintRequests)
}

// handleCreateTokenBurn asks an issuer to burn the requesting party's holdings
func (s *Server) handleCreateTokenBurn(c *gin.Context) {
	var req BurnRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.tokens.CreateBurnRequest(c.Request.Context(), req.Party, req.Issuer, req.InstrumentID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListTokenBurns(c *gin.Context) {
	list(c, s.tokens.ListBurnRequests)
}

// handleCreateTokenTransfer locks the sender's holdings in a transfer request
func (s *Server) handleCreateTokenTransfer(c *gin.Context) {
	var req TransferRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.tokens.CreateTransferRequest(c.Request.Context(), req.Party, req.Receiver, req.Issuer, req.InstrumentID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListTokenTransfers(c *gin.Context) {
	list(c, s.tokens.ListTransferRequests)
}

// handleCreatePreapproval proposes a transfer preapproval to the issuer
func (s *Server) handleCreatePreapproval(c *gin.Context) {
	var req PreapprovalRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.tokens.CreatePreapprovalProposal(c.Request.Context(), req.Party, req.Issuer, req.InstrumentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

// handleListPreapprovals returns both pending proposals and accepted
// preapprovals visible to the party
func (s *Server) handleListPreapprovals(c *gin.Context) {
	party, ok := queryParty(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	proposals, err := s.tokens.ListPreapprovalProposals(ctx, party)
	if err != nil {
		respondError(c, err)
		return
	}
	preapprovals, err := s.tokens.ListPreapprovals(ctx, party)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := PreapprovalsResponse{Proposals: []any{}, Preapprovals: []any{}}
	if len(proposals) > 0 {
		resp.Proposals = proposals
	}
	if len(preapprovals) > 0 {
		resp.Preapprovals = preapprovals
	}
	c.JSON(http.StatusOK, resp)
}

// handleSendWithPreapproval transfers directly to a receiver holding a
// preapproval
func (s *Server) handleSendWithPreapproval(c *gin.Context) {
	var req TransferRequest
	if !bind(c, &req) {
		return
	}
	holding, err := s.tokens.SendWithPreapproval(c.Request.Context(), req.Party, req.Receiver, req.Issuer, req.InstrumentID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, holding)
}
