package keeper

import (
	"context"
	"fmt"
	"sort"

	"cosmossdk.io/log"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	"github.com/owlprotocol/denote-workspace-sub000/x/etf/types"
	"github.com/owlprotocol/denote-workspace-sub000/x/shared"
	tokenkeeper "github.com/owlprotocol/denote-workspace-sub000/x/token/keeper"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// Keeper composes the ETF workflows on top of a ledger client
type Keeper struct {
	client ledger.Client
	tokens *tokenkeeper.Keeper
	logger log.Logger

	mintRequests shared.RequestTemplate[types.MintRequest]
	burnRequests shared.RequestTemplate[types.BurnRequest]
}

// NewKeeper creates a new ETF Keeper instance. Component and ETF holdings are
// token holdings read through tokens.
func NewKeeper(client ledger.Client, tokens *tokenkeeper.Keeper, logger log.Logger) *Keeper {
	return &Keeper{
		client:       client,
		tokens:       tokens,
		logger:       logger.With("module", fmt.Sprintf("x/%s", types.ModuleName)),
		mintRequests: shared.NewRequestTemplate[types.MintRequest](types.MintRequestTemplateID),
		burnRequests: shared.NewRequestTemplate[types.BurnRequest](types.BurnRequestTemplateID),
	}
}

// CreateComposition creates a portfolio composition owned by owner.
func (k Keeper) CreateComposition(ctx context.Context, owner ledger.Party, name string, items []types.PortfolioItem) (shared.Contract[types.Composition], error) {
	comp := types.Composition{Owner: owner, Name: name, Items: items}
	if err := comp.ValidateBasic(); err != nil {
		return shared.Contract[types.Composition]{}, err
	}
	c, err := shared.Create(ctx, k.client, owner, types.CompositionTemplateID, comp)
	if err != nil {
		return c, err
	}
	k.logger.Info("portfolio composition created", "contract_id", c.ContractID, "name", name, "items", len(items))
	return c, nil
}

// ListCompositions returns the compositions visible to party.
func (k Keeper) ListCompositions(ctx context.Context, party ledger.Party) ([]shared.Contract[types.Composition], error) {
	return shared.Query[types.Composition](ctx, k.client, party, types.CompositionTemplateID, nil)
}

// GetOrCreateMintRecipe returns the issuer's recipe for instrumentID,
// creating it against compositionCid on first use.
func (k Keeper) GetOrCreateMintRecipe(ctx context.Context, issuer ledger.Party, instrumentID string, compositionCid ledger.ContractID, componentIssuer ledger.Party) (shared.Contract[types.MintRecipe], error) {
	if err := ledger.ValidateParty(issuer); err != nil {
		return shared.Contract[types.MintRecipe]{}, types.ErrInvalidParty.Wrap(err.Error())
	}
	if err := ledger.ValidateParty(componentIssuer); err != nil {
		return shared.Contract[types.MintRecipe]{}, types.ErrInvalidParty.Wrap(err.Error())
	}
	if instrumentID == "" || compositionCid == "" {
		return shared.Contract[types.MintRecipe]{}, types.ErrInvalidComposition.Wrap("instrument id and composition are required")
	}
	if _, err := shared.Get[types.Composition](ctx, k.client, issuer, types.CompositionTemplateID, compositionCid); err != nil {
		return shared.Contract[types.MintRecipe]{}, err
	}
	return shared.GetOrCreate(ctx, k.client, issuer, types.MintRecipeTemplateID,
		func(r types.MintRecipe) bool { return r.Issuer == issuer && r.InstrumentID == instrumentID },
		types.MintRecipe{Issuer: issuer, InstrumentID: instrumentID, CompositionCid: compositionCid, ComponentIssuer: componentIssuer},
	)
}

// GetMintRecipe returns the issuer's recipe for instrumentID and its composition.
func (k Keeper) GetMintRecipe(ctx context.Context, party, issuer ledger.Party, instrumentID string) (shared.Contract[types.MintRecipe], types.Composition, error) {
	recipe, err := shared.FindOne(ctx, k.client, party, types.MintRecipeTemplateID, func(r types.MintRecipe) bool {
		return r.Issuer == issuer && r.InstrumentID == instrumentID
	})
	if err != nil {
		return recipe, types.Composition{}, types.ErrRecipeNotFound.Wrapf("%s of %s: %s", instrumentID, issuer, err)
	}
	comp, err := shared.Get[types.Composition](ctx, k.client, party, types.CompositionTemplateID, recipe.Payload.CompositionCid)
	if err != nil {
		return recipe, types.Composition{}, err
	}
	return recipe, comp.Payload, nil
}

// ==================== Mint ====================

// CreateMintRequest asks issuer to mint amount ETF units for requester. When
// componentHoldingCids is empty the requester's component holdings are
// selected to cover the recipe.
func (k Keeper) CreateMintRequest(ctx context.Context, requester, issuer ledger.Party, instrumentID string, amount ledger.Numeric, componentHoldingCids []ledger.ContractID) (shared.Contract[types.MintRequest], error) {
	var none shared.Contract[types.MintRequest]
	if !amount.IsPositive() {
		return none, types.ErrInvalidAmount.Wrapf("amount must be positive, got %s", amount)
	}

	// the recipe is visible to the issuer; the requester reads it through the issuer's view
	recipe, comp, err := k.GetMintRecipe(ctx, issuer, issuer, instrumentID)
	if err != nil {
		return none, err
	}

	if len(componentHoldingCids) == 0 {
		componentHoldingCids, err = k.selectComponents(ctx, requester, recipe.Payload.ComponentIssuer, comp, amount)
		if err != nil {
			return none, err
		}
	}

	req := types.MintRequest{
		Issuer:               issuer,
		Requester:            requester,
		InstrumentID:         instrumentID,
		Amount:               amount,
		RecipeCid:            recipe.ContractID,
		ComponentHoldingCids: componentHoldingCids,
	}
	if err := req.ValidateBasic(); err != nil {
		return none, err
	}
	c, err := k.mintRequests.Create(ctx, k.client, requester, req)
	if err != nil {
		return c, err
	}
	k.logger.Info("etf mint request created", "contract_id", c.ContractID, "requester", requester, "instrument", instrumentID, "amount", amount)
	return c, nil
}

func (k Keeper) selectComponents(ctx context.Context, requester, componentIssuer ledger.Party, comp types.Composition, amount ledger.Numeric) ([]ledger.ContractID, error) {
	required := comp.Required(amount)
	instruments := make([]string, 0, len(required))
	for id := range required {
		instruments = append(instruments, id)
	}
	sort.Strings(instruments)

	var out []ledger.ContractID
	for _, id := range instruments {
		holdings, err := k.tokens.InstrumentHoldings(ctx, requester, componentIssuer, id)
		if err != nil {
			return nil, err
		}
		refs := make([]tokentypes.HoldingRef, len(holdings))
		for i, h := range holdings {
			refs[i] = tokentypes.HoldingRef{ContractID: h.ContractID, Holding: h.Payload}
		}
		cids, _, err := tokentypes.SelectHoldings(refs, required[id])
		if err != nil {
			return nil, types.ErrInvalidHoldings.Wrapf("component %s: %s", id, err)
		}
		out = append(out, cids...)
	}
	return out, nil
}

// ListMintRequests returns the pending ETF mint requests party is involved in.
func (k Keeper) ListMintRequests(ctx context.Context, party ledger.Party) ([]shared.Contract[types.MintRequest], error) {
	return k.mintRequests.List(ctx, k.client, party, func(r types.MintRequest) bool {
		return r.Issuer == party || r.Requester == party
	})
}

// AcceptMintRequest mints the ETF units as issuer.
func (k Keeper) AcceptMintRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) (shared.Contract[tokentypes.Holding], error) {
	req, err := k.mintRequests.Get(ctx, k.client, issuer, cid)
	if err != nil {
		return shared.Contract[tokentypes.Holding]{}, err
	}
	tx, err := k.mintRequests.Accept(ctx, k.client, issuer, cid)
	if err != nil {
		return shared.Contract[tokentypes.Holding]{}, err
	}
	created, err := shared.CreatedAll[tokentypes.Holding](tx, tokentypes.HoldingTemplateID)
	if err != nil {
		return shared.Contract[tokentypes.Holding]{}, err
	}
	for _, h := range created {
		if h.Payload.Owner == req.Payload.Requester && h.Payload.IsInstrument(issuer, req.Payload.InstrumentID) {
			k.logger.Info("etf mint request accepted", "contract_id", cid, "holding", h.ContractID)
			return h, nil
		}
	}
	return shared.Contract[tokentypes.Holding]{}, ledger.ErrMalformedResponse.Wrap("transaction created no ETF holding")
}

// DeclineMintRequest declines the request as issuer.
func (k Keeper) DeclineMintRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	_, err := k.mintRequests.Decline(ctx, k.client, issuer, cid)
	return err
}

// WithdrawMintRequest withdraws the request as its requester.
func (k Keeper) WithdrawMintRequest(ctx context.Context, requester ledger.Party, cid ledger.ContractID) error {
	_, err := k.mintRequests.Withdraw(ctx, k.client, requester, cid)
	return err
}

// ==================== Burn ====================

// CreateBurnRequest asks issuer to burn amount ETF units of requester and
// release the underlying components.
func (k Keeper) CreateBurnRequest(ctx context.Context, requester, issuer ledger.Party, instrumentID string, amount ledger.Numeric) (shared.Contract[types.BurnRequest], error) {
	var none shared.Contract[types.BurnRequest]
	if !amount.IsPositive() {
		return none, types.ErrInvalidAmount.Wrapf("amount must be positive, got %s", amount)
	}
	recipe, _, err := k.GetMintRecipe(ctx, issuer, issuer, instrumentID)
	if err != nil {
		return none, err
	}

	holdings, err := k.tokens.InstrumentHoldings(ctx, requester, issuer, instrumentID)
	if err != nil {
		return none, err
	}
	refs := make([]tokentypes.HoldingRef, len(holdings))
	for i, h := range holdings {
		refs[i] = tokentypes.HoldingRef{ContractID: h.ContractID, Holding: h.Payload}
	}
	inputs, _, err := tokentypes.SelectHoldings(refs, amount)
	if err != nil {
		return none, types.ErrInvalidHoldings.Wrap(err.Error())
	}

	req := types.BurnRequest{
		Issuer:           issuer,
		Requester:        requester,
		InstrumentID:     instrumentID,
		Amount:           amount,
		RecipeCid:        recipe.ContractID,
		InputHoldingCids: inputs,
	}
	if err := req.ValidateBasic(); err != nil {
		return none, err
	}
	c, err := k.burnRequests.Create(ctx, k.client, requester, req)
	if err != nil {
		return c, err
	}
	k.logger.Info("etf burn request created", "contract_id", c.ContractID, "requester", requester, "instrument", instrumentID, "amount", amount)
	return c, nil
}

// ListBurnRequests returns the pending ETF burn requests party is involved in.
func (k Keeper) ListBurnRequests(ctx context.Context, party ledger.Party) ([]shared.Contract[types.BurnRequest], error) {
	return k.burnRequests.List(ctx, k.client, party, func(r types.BurnRequest) bool {
		return r.Issuer == party || r.Requester == party
	})
}

// AcceptBurnRequest burns the ETF units and releases the components as issuer.
func (k Keeper) AcceptBurnRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	if _, err := k.burnRequests.Accept(ctx, k.client, issuer, cid); err != nil {
		return err
	}
	k.logger.Info("etf burn request accepted", "contract_id", cid)
	return nil
}

// DeclineBurnRequest declines the request as issuer.
func (k Keeper) DeclineBurnRequest(ctx context.Context, issuer ledger.Party, cid ledger.ContractID) error {
	_, err := k.burnRequests.Decline(ctx, k.client, issuer, cid)
	return err
}

// WithdrawBurnRequest withdraws the request as its requester.
func (k Keeper) WithdrawBurnRequest(ctx context.Context, requester ledger.Party, cid ledger.ContractID) error {
	_, err := k.burnRequests.Withdraw(ctx, k.client, requester, cid)
	return err
}
