package ledgermock

import (
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	bondtypes "github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	etftypes "github.com/owlprotocol/denote-workspace-sub000/x/etf/types"
	"github.com/owlprotocol/denote-workspace-sub000/x/shared"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// NewWithWorkflows returns a ledger with the token, bond and ETF choices installed.
func NewWithWorkflows() *Ledger {
	l := New()
	InstallTokenWorkflows(l)
	InstallBondWorkflows(l)
	InstallETFWorkflows(l)
	return l
}

// holding is the payload shape shared by token and bond holdings.
type holding struct {
	Issuer       ledger.Party   `json:"issuer"`
	Owner        ledger.Party   `json:"owner"`
	InstrumentID string         `json:"instrumentId"`
	Amount       ledger.Numeric `json:"amount"`
}

func accept(templateID ledger.TemplateID) string {
	return shared.ChoiceName(templateID, shared.ActionAccept)
}

// InstallTokenWorkflows registers the accept choices of the token templates.
func InstallTokenWorkflows(l *Ledger) {
	l.OnChoice(accept(tokentypes.MintRequestTemplateID), func(ex *Exercise) error {
		var req tokentypes.IssuerMintRequest
		if err := ex.Payload(&req); err != nil {
			return err
		}
		_, err := ex.Create(tokentypes.HoldingTemplateID, holding{
			Issuer: req.Issuer, Owner: req.Receiver, InstrumentID: req.InstrumentID, Amount: req.Amount,
		})
		return err
	})

	l.OnChoice(accept(tokentypes.BurnRequestTemplateID), func(ex *Exercise) error {
		var req tokentypes.IssuerBurnRequest
		if err := ex.Payload(&req); err != nil {
			return err
		}
		return move(ex, tokentypes.HoldingTemplateID, req.InputHoldingCids, req.Owner, "", req.Issuer, req.InstrumentID, req.Amount)
	})

	l.OnChoice(accept(tokentypes.TransferRequestTemplateID), func(ex *Exercise) error {
		var req tokentypes.TransferRequest
		if err := ex.Payload(&req); err != nil {
			return err
		}
		return move(ex, tokentypes.HoldingTemplateID, req.InputHoldingCids, req.Sender, req.Receiver, req.Issuer, req.InstrumentID, req.Amount)
	})

	l.OnChoice(accept(tokentypes.PreapprovalProposalTemplateID), func(ex *Exercise) error {
		var p tokentypes.PreapprovalProposal
		if err := ex.Payload(&p); err != nil {
			return err
		}
		_, err := ex.Create(tokentypes.PreapprovalTemplateID, tokentypes.Preapproval{
			Issuer: p.Issuer, Receiver: p.Receiver, InstrumentID: p.InstrumentID,
		})
		return err
	})

	l.OnNonConsumingChoice(tokentypes.ChoicePreapprovalSend, func(ex *Exercise) error {
		var p tokentypes.Preapproval
		if err := ex.Payload(&p); err != nil {
			return err
		}
		var arg tokentypes.PreapprovalSend
		if err := ex.Argument(&arg); err != nil {
			return err
		}
		return move(ex, tokentypes.HoldingTemplateID, arg.InputHoldingCids, arg.Sender, p.Receiver, p.Issuer, p.InstrumentID, arg.Amount)
	})
}

// InstallBondWorkflows registers the bond accept and lifecycle choices.
func InstallBondWorkflows(l *Ledger) {
	l.OnChoice(accept(bondtypes.MintRequestTemplateID), func(ex *Exercise) error {
		var req bondtypes.MintRequest
		if err := ex.Payload(&req); err != nil {
			return err
		}
		_, err := ex.Create(bondtypes.HoldingTemplateID, holding{
			Issuer: req.Issuer, Owner: req.Receiver, InstrumentID: req.InstrumentID, Amount: req.Amount,
		})
		return err
	})

	l.OnChoice(accept(bondtypes.TransferRequestTemplateID), func(ex *Exercise) error {
		var req bondtypes.TransferRequest
		if err := ex.Payload(&req); err != nil {
			return err
		}
		return move(ex, bondtypes.HoldingTemplateID, req.InputHoldingCids, req.Sender, req.Receiver, req.Issuer, req.InstrumentID, req.Amount)
	})

	processEvent := func(eventType bondtypes.EventType) ChoiceFunc {
		return func(ex *Exercise) error {
			var arg bondtypes.LifecycleEvent
			if err := ex.Argument(&arg); err != nil {
				return err
			}
			ev, err := ex.Fetch(arg.InstrumentCid)
			if err != nil {
				return err
			}
			var inst bondtypes.Instrument
			if err := ev.Decode(&inst); err != nil {
				return err
			}
			perUnit := inst.Notional
			if eventType == bondtypes.EventCoupon {
				perUnit = inst.CouponPerUnit()
			}
			_, err = ex.Create(bondtypes.LifecycleEffectTemplateID, bondtypes.LifecycleEffect{
				Issuer:        inst.Issuer,
				InstrumentID:  inst.InstrumentID,
				EventType:     eventType,
				EventDate:     arg.EventDate,
				Currency:      inst.Currency,
				AmountPerUnit: perUnit,
			})
			return err
		}
	}
	l.OnNonConsumingChoice(bondtypes.ChoiceProcessCoupon, processEvent(bondtypes.EventCoupon))
	l.OnNonConsumingChoice(bondtypes.ChoiceProcessRedemption, processEvent(bondtypes.EventRedemption))

	l.OnChoice(accept(bondtypes.LifecycleClaimRequestTemplateID), func(ex *Exercise) error {
		var req bondtypes.LifecycleClaimRequest
		if err := ex.Payload(&req); err != nil {
			return err
		}
		effectEv, err := ex.Fetch(req.EffectCid)
		if err != nil {
			return err
		}
		var effect bondtypes.LifecycleEffect
		if err := effectEv.Decode(&effect); err != nil {
			return err
		}
		bondEv, err := ex.Consume(bondtypes.HoldingTemplateID, req.BondHoldingCid)
		if err != nil {
			return err
		}
		var bond holding
		if err := bondEv.Decode(&bond); err != nil {
			return err
		}
		if bond.Owner != req.Holder || bond.InstrumentID != effect.InstrumentID {
			return ex.Reject("holding %s is not a %s bond of %s", req.BondHoldingCid, effect.InstrumentID, req.Holder)
		}

		if _, err := ex.Create(tokentypes.HoldingTemplateID, holding{
			Issuer:       effect.Issuer,
			Owner:        req.Holder,
			InstrumentID: effect.Currency,
			Amount:       bond.Amount.Mul(effect.AmountPerUnit),
		}); err != nil {
			return err
		}
		if effect.EventType == bondtypes.EventCoupon {
			_, err = ex.Create(bondtypes.HoldingTemplateID, bond)
		}
		return err
	})
}

// InstallETFWorkflows registers the ETF mint and burn accept choices.
func InstallETFWorkflows(l *Ledger) {
	l.OnChoice(accept(etftypes.MintRequestTemplateID), func(ex *Exercise) error {
		var req etftypes.MintRequest
		if err := ex.Payload(&req); err != nil {
			return err
		}
		recipe, comp, err := fetchRecipe(ex, req.RecipeCid)
		if err != nil {
			return err
		}
		// bucket before consuming: move archives each input it spends
		byInstrument, err := holdingsByInstrument(ex, req.ComponentHoldingCids, req.Requester, recipe.ComponentIssuer)
		if err != nil {
			return err
		}
		for instrumentID, need := range comp.Required(req.Amount) {
			if err := move(ex, tokentypes.HoldingTemplateID, byInstrument[instrumentID], req.Requester, req.Issuer, recipe.ComponentIssuer, instrumentID, need); err != nil {
				return err
			}
		}
		_, err = ex.Create(tokentypes.HoldingTemplateID, holding{
			Issuer: req.Issuer, Owner: req.Requester, InstrumentID: req.InstrumentID, Amount: req.Amount,
		})
		return err
	})

	l.OnChoice(accept(etftypes.BurnRequestTemplateID), func(ex *Exercise) error {
		var req etftypes.BurnRequest
		if err := ex.Payload(&req); err != nil {
			return err
		}
		recipe, comp, err := fetchRecipe(ex, req.RecipeCid)
		if err != nil {
			return err
		}
		if err := move(ex, tokentypes.HoldingTemplateID, req.InputHoldingCids, req.Requester, "", req.Issuer, req.InstrumentID, req.Amount); err != nil {
			return err
		}
		for instrumentID, need := range comp.Required(req.Amount) {
			custody := ex.activeHoldings(tokentypes.HoldingTemplateID, req.Issuer, recipe.ComponentIssuer, instrumentID)
			if err := move(ex, tokentypes.HoldingTemplateID, custody, req.Issuer, req.Requester, recipe.ComponentIssuer, instrumentID, need); err != nil {
				return err
			}
		}
		return nil
	})
}

func fetchRecipe(ex *Exercise, recipeCid ledger.ContractID) (etftypes.MintRecipe, etftypes.Composition, error) {
	var (
		recipe etftypes.MintRecipe
		comp   etftypes.Composition
	)
	ev, err := ex.Fetch(recipeCid)
	if err != nil {
		return recipe, comp, err
	}
	if err := ev.Decode(&recipe); err != nil {
		return recipe, comp, err
	}
	compEv, err := ex.Fetch(recipe.CompositionCid)
	if err != nil {
		return recipe, comp, err
	}
	return recipe, comp, compEv.Decode(&comp)
}

// holdingsByInstrument groups the holdings of owner issued by issuer by instrument.
func holdingsByInstrument(ex *Exercise, cids []ledger.ContractID, owner, issuer ledger.Party) (map[string][]ledger.ContractID, error) {
	out := make(map[string][]ledger.ContractID)
	for _, cid := range cids {
		ev, err := ex.Fetch(cid)
		if err != nil {
			return nil, err
		}
		var h holding
		if err := ev.Decode(&h); err != nil {
			return nil, err
		}
		if h.Owner == owner && h.Issuer == issuer {
			out[h.InstrumentID] = append(out[h.InstrumentID], cid)
		}
	}
	return out, nil
}

// activeHoldings lists every active holding of owner in the given instrument.
func (e *Exercise) activeHoldings(templateID ledger.TemplateID, owner, issuer ledger.Party, instrumentID string) []ledger.ContractID {
	var out []ledger.ContractID
	for _, cid := range e.ledger.order {
		c := e.ledger.contracts[cid]
		if c.archivedAt != 0 || c.event.TemplateID != templateID {
			continue
		}
		var h holding
		if err := c.event.Decode(&h); err != nil {
			continue
		}
		if h.Owner == owner && h.Issuer == issuer && h.InstrumentID == instrumentID {
			out = append(out, cid)
		}
	}
	return out
}

// move consumes the inputs owned by from, creates amount for to (a burn when
// to is empty) and returns any change to from.
func move(ex *Exercise, templateID ledger.TemplateID, inputs []ledger.ContractID, from, to, issuer ledger.Party, instrumentID string, amount ledger.Numeric) error {
	total := ledger.ZeroNumeric()
	for _, cid := range inputs {
		ev, err := ex.Consume(templateID, cid)
		if err != nil {
			return err
		}
		var h holding
		if err := ev.Decode(&h); err != nil {
			return err
		}
		if h.Owner != from || h.Issuer != issuer || h.InstrumentID != instrumentID {
			return ex.Reject("holding %s is not a %s holding of %s", cid, instrumentID, from)
		}
		total = total.Add(h.Amount)
	}
	if !total.GTE(amount) {
		return ex.Reject("inputs hold %s %s, need %s", total, instrumentID, amount)
	}

	if to != "" {
		if _, err := ex.Create(templateID, holding{Issuer: issuer, Owner: to, InstrumentID: instrumentID, Amount: amount}); err != nil {
			return err
		}
	}
	if change := total.Sub(amount); change.IsPositive() {
		if _, err := ex.Create(templateID, holding{Issuer: issuer, Owner: from, InstrumentID: instrumentID, Amount: change}); err != nil {
			return err
		}
	}
	return nil
}
