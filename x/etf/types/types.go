package types

import (
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// PortfolioItem is one component of a composition: weight units of the
// component instrument per ETF unit.
type PortfolioItem struct {
	InstrumentID string         `json:"instrumentId"`
	Weight       ledger.Numeric `json:"weight"`
}

// Composition is a named basket of component instruments.
type Composition struct {
	Owner ledger.Party    `json:"owner"`
	Name  string          `json:"name"`
	Items []PortfolioItem `json:"items"`
}

// ValidateBasic checks the composition before it is created.
func (c Composition) ValidateBasic() error {
	if err := ledger.ValidateParty(c.Owner); err != nil {
		return ErrInvalidParty.Wrap(err.Error())
	}
	if c.Name == "" {
		return ErrInvalidComposition.Wrap("name cannot be empty")
	}
	if len(c.Items) == 0 {
		return ErrInvalidComposition.Wrap("at least one item is required")
	}
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.InstrumentID == "" {
			return ErrInvalidComposition.Wrap("item instrument id cannot be empty")
		}
		if _, dup := seen[item.InstrumentID]; dup {
			return ErrInvalidComposition.Wrapf("instrument %s listed twice", item.InstrumentID)
		}
		seen[item.InstrumentID] = struct{}{}
		if !item.Weight.IsPositive() {
			return ErrInvalidComposition.Wrapf("weight of %s must be positive, got %s", item.InstrumentID, item.Weight)
		}
	}
	return nil
}

// Required returns the component amounts needed for amount ETF units.
func (c Composition) Required(amount ledger.Numeric) map[string]ledger.Numeric {
	out := make(map[string]ledger.Numeric, len(c.Items))
	for _, item := range c.Items {
		out[item.InstrumentID] = item.Weight.Mul(amount)
	}
	return out
}

// MintRecipe ties an ETF instrument to its composition. Component holdings
// are issued by ComponentIssuer.
type MintRecipe struct {
	Issuer          ledger.Party      `json:"issuer"`
	InstrumentID    string            `json:"instrumentId"`
	CompositionCid  ledger.ContractID `json:"compositionCid"`
	ComponentIssuer ledger.Party      `json:"componentIssuer"`
}

// MintRequest asks the issuer to mint ETF units against component holdings.
type MintRequest struct {
	Issuer               ledger.Party        `json:"issuer"`
	Requester            ledger.Party        `json:"requester"`
	InstrumentID         string              `json:"instrumentId"`
	Amount               ledger.Numeric      `json:"amount"`
	RecipeCid            ledger.ContractID   `json:"recipeCid"`
	ComponentHoldingCids []ledger.ContractID `json:"componentHoldingCids"`
}

// ValidateBasic checks the request before it is submitted.
func (r MintRequest) ValidateBasic() error {
	if err := validateParties(r.Issuer, r.Requester); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("amount must be positive, got %s", r.Amount)
	}
	if r.RecipeCid == "" {
		return ErrRecipeNotFound.Wrap("recipe contract id cannot be empty")
	}
	if len(r.ComponentHoldingCids) == 0 {
		return ErrInvalidHoldings.Wrap("at least one component holding is required")
	}
	return nil
}

// BurnRequest asks the issuer to burn ETF units and release the components.
type BurnRequest struct {
	Issuer           ledger.Party        `json:"issuer"`
	Requester        ledger.Party        `json:"requester"`
	InstrumentID     string              `json:"instrumentId"`
	Amount           ledger.Numeric      `json:"amount"`
	RecipeCid        ledger.ContractID   `json:"recipeCid"`
	InputHoldingCids []ledger.ContractID `json:"inputHoldingCids"`
}

// ValidateBasic checks the request before it is submitted.
func (r BurnRequest) ValidateBasic() error {
	if err := validateParties(r.Issuer, r.Requester); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("amount must be positive, got %s", r.Amount)
	}
	if r.RecipeCid == "" {
		return ErrRecipeNotFound.Wrap("recipe contract id cannot be empty")
	}
	if len(r.InputHoldingCids) == 0 {
		return ErrInvalidHoldings.Wrap("at least one ETF holding is required")
	}
	return nil
}

func validateParties(parties ...ledger.Party) error {
	for _, p := range parties {
		if err := ledger.ValidateParty(p); err != nil {
			return ErrInvalidParty.Wrap(err.Error())
		}
	}
	return nil
}
