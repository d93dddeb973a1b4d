package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
)

// handleCreateInstrument creates a bond instrument issued by the party
func (s *Server) handleCreateInstrument(c *gin.Context) {
	var req InstrumentRequest
	if !bind(c, &req) {
		return
	}
	instrument, err := s.bonds.CreateInstrument(c.Request.Context(), types.Instrument{
		Issuer:          req.Party,
		InstrumentID:    req.InstrumentID,
		Notional:        req.Notional,
		CouponRate:      req.CouponRate,
		CouponFrequency: req.CouponFrequency,
		MaturityDate:    req.MaturityDate,
		Currency:        req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, instrument)
}

func (s *Server) handleBondHoldings(c *gin.Context) {
	list(c, s.bonds.ListHoldings)
}

func (s *Server) handleCreateBondMint(c *gin.Context) {
	var req MintRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.bonds.CreateMintRequest(c.Request.Context(), req.Party, req.Issuer, req.InstrumentID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListBondMints(c *gin.Context) {
	list(c, s.bonds.ListMintRequests)
}

func (s *Server) handleCreateBondTransfer(c *gin.Context) {
	var req TransferRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.bonds.CreateTransferRequest(c.Request.Context(), req.Party, req.Receiver, req.Issuer, req.InstrumentID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListBondTransfers(c *gin.Context) {
	list(c, s.bonds.ListTransferRequests)
}

// handleLifecycleEvent processes a coupon or redemption for the issuer's bond
func (s *Server) handleLifecycleEvent(c *gin.Context) {
	var req LifecycleEventRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()

	var process = s.bonds.ProcessCouponEvent
	switch req.EventType {
	case types.EventCoupon:
	case types.EventRedemption:
		process = s.bonds.ProcessRedemptionEvent
	default:
		respondBadRequest(c, fmt.Errorf("unknown event type %q", req.EventType))
		return
	}

	effect, err := process(ctx, req.Party, req.InstrumentID, req.EventDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, effect)
}

func (s *Server) handleListEffects(c *gin.Context) {
	list(c, s.bonds.ListEffects)
}

// handleCreateClaim asks the issuer to settle an effect for one bond holding
func (s *Server) handleCreateClaim(c *gin.Context) {
	var req ClaimRequest
	if !bind(c, &req) {
		return
	}
	contract, err := s.bonds.CreateLifecycleClaimRequest(c.Request.Context(), req.Party, req.Issuer, req.EffectCid, req.BondHoldingCid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) handleListClaims(c *gin.Context) {
	list(c, s.bonds.ListLifecycleClaimRequests)
}
