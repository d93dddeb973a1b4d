package keeper

import (
	"context"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	"github.com/owlprotocol/denote-workspace-sub000/x/shared"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// GetOrCreateLifecycleRule returns the issuer's lifecycle rule, creating it on first use.
func (k Keeper) GetOrCreateLifecycleRule(ctx context.Context, issuer ledger.Party) (shared.Contract[types.LifecycleRule], error) {
	return shared.GetOrCreate(ctx, k.client, issuer, types.LifecycleRuleTemplateID,
		func(r types.LifecycleRule) bool { return r.Issuer == issuer },
		types.LifecycleRule{Issuer: issuer},
	)
}

// ProcessCouponEvent records a coupon payment for instrumentID on eventDate.
// Coupons after maturity are rejected.
func (k Keeper) ProcessCouponEvent(ctx context.Context, issuer ledger.Party, instrumentID, eventDate string) (shared.Contract[types.LifecycleEffect], error) {
	return k.processEvent(ctx, issuer, instrumentID, eventDate, types.EventCoupon)
}

// ProcessRedemptionEvent records the redemption of instrumentID. Redemption
// before maturity is rejected.
func (k Keeper) ProcessRedemptionEvent(ctx context.Context, issuer ledger.Party, instrumentID, eventDate string) (shared.Contract[types.LifecycleEffect], error) {
	return k.processEvent(ctx, issuer, instrumentID, eventDate, types.EventRedemption)
}

func (k Keeper) processEvent(ctx context.Context, issuer ledger.Party, instrumentID, eventDate string, eventType types.EventType) (shared.Contract[types.LifecycleEffect], error) {
	var none shared.Contract[types.LifecycleEffect]

	date, err := parseDate(eventDate)
	if err != nil {
		return none, err
	}
	inst, err := k.GetInstrument(ctx, issuer, instrumentID)
	if err != nil {
		return none, err
	}
	maturity, err := parseDate(inst.Payload.MaturityDate)
	if err != nil {
		return none, err
	}

	choice := types.ChoiceProcessCoupon
	switch eventType {
	case types.EventCoupon:
		if date.After(maturity) {
			return none, types.ErrInstrumentMatured.Wrapf("%s matured on %s", instrumentID, inst.Payload.MaturityDate)
		}
	case types.EventRedemption:
		if date.Before(maturity) {
			return none, types.ErrInvalidEvent.Wrapf("%s cannot be redeemed before %s", instrumentID, inst.Payload.MaturityDate)
		}
		choice = types.ChoiceProcessRedemption
	default:
		return none, types.ErrInvalidEvent.Wrapf("unknown event type %q", eventType)
	}

	rule, err := k.GetOrCreateLifecycleRule(ctx, issuer)
	if err != nil {
		return none, err
	}
	tx, err := shared.Exercise(ctx, k.client, issuer, types.LifecycleRuleTemplateID, rule.ContractID, choice,
		types.LifecycleEvent{InstrumentCid: inst.ContractID, EventDate: eventDate})
	if err != nil {
		return none, err
	}
	effect, err := shared.CreatedOne[types.LifecycleEffect](tx, types.LifecycleEffectTemplateID)
	if err != nil {
		return none, err
	}
	k.logger.Info("lifecycle event processed",
		"instrument", instrumentID,
		"event", eventType,
		"date", eventDate,
		"effect", effect.ContractID,
		"amount_per_unit", effect.Payload.AmountPerUnit,
	)
	return effect, nil
}

// ListEffects returns the lifecycle effects visible to party.
func (k Keeper) ListEffects(ctx context.Context, party ledger.Party) ([]shared.Contract[types.LifecycleEffect], error) {
	return shared.Query[types.LifecycleEffect](ctx, k.client, party, types.LifecycleEffectTemplateID, nil)
}

// ==================== Lifecycle claims ====================

// CreateLifecycleClaimRequest asks issuer to settle effectCid for the holder's bond holding.
func (k Keeper) CreateLifecycleClaimRequest(ctx context.Context, holder, issuer ledger.Party, effectCid, bondHoldingCid ledger.ContractID) (shared.Contract[types.LifecycleClaimRequest], error) {
	req := types.LifecycleClaimRequest{Issuer: issuer, Holder: holder, EffectCid: effectCid, BondHoldingCid: bondHoldingCid}
	if err := req.ValidateBasic(); err != nil {
		return shared.Contract[types.LifecycleClaimRequest]{}, err
	}
	c, err := k.claimRequests.Create(ctx, k.client, holder, req)
	if err != nil {
		return c, err
	}
	k.logger.Info("lifecycle claim request created", "contract_id", c.ContractID, "holder", holder, "effect", effectCid)
	return c, nil
}

// ListLifecycleClaimRequests returns the pending claims party is involved in.
func (k Keeper) ListLifecycleClaimRequests(ctx context.Context, party ledger.Party) ([]shared.Contract[types.LifecycleClaimRequest], error) {
	return k.claimRequests.List(ctx, k.client, party, func(r types.LifecycleClaimRequest) bool {
		return r.Issuer == party || r.Holder == party
	})
}

// AcceptLifecycleClaimRequest settles the claim as issuer and returns the
// payment holding created for the holder.
func (k Keeper) AcceptLifecycleClaimRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) (shared.Contract[tokentypes.Holding], error) {
	tx, err := k.claimRequests.Accept(ctx, k.client, issuer, cid)
	if err != nil {
		return shared.Contract[tokentypes.Holding]{}, err
	}
	k.logger.Info("lifecycle claim accepted", "contract_id", cid)
	return shared.CreatedOne[tokentypes.Holding](tx, tokentypes.HoldingTemplateID)
}

// DeclineLifecycleClaimRequest declines the claim as issuer.
func (k Keeper) DeclineLifecycleClaimRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	_, err := k.claimRequests.Decline(ctx, k.client, issuer, cid)
	return err
}

// WithdrawLifecycleClaimRequest withdraws the claim as its holder.
func (k Keeper) WithdrawLifecycleClaimRequest(ctx context.Context, holder ledger.Party, cid ledger.ContractID) error {
	_, err := k.claimRequests.Withdraw(ctx, k.client, holder, cid)
	return err
}
