// Package shared holds the contract lookup and command helpers every workflow
// module builds on: query active contracts of one template, match them on plain
// field equality, create when missing and exercise choices.
package shared

import (
	"context"
	"errors"

	errorsmod "cosmossdk.io/errors"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// Contract is an active contract with its decoded payload.
type Contract[T any] struct {
	ContractID ledger.ContractID `json:"contractId"`
	TemplateID ledger.TemplateID `json:"templateId"`
	Payload    T                 `json:"payload"`
}

// Decode converts a created event into a typed contract.
func Decode[T any](ev *ledger.CreatedEvent) (Contract[T], error) {
	var payload T
	if err := ev.Decode(&payload); err != nil {
		return Contract[T]{}, errorsmod.Wrapf(ledger.ErrMalformedResponse, "%s %s: %s", ev.TemplateID.Entity(), ev.ContractID, err)
	}
	return Contract[T]{ContractID: ev.ContractID, TemplateID: ev.TemplateID, Payload: payload}, nil
}

// Query returns the active contracts of templateID visible to party for which
// match returns true. A nil match accepts every contract.
func Query[T any](ctx context.Context, c ledger.Client, party ledger.Party, templateID ledger.TemplateID, match func(T) bool) ([]Contract[T], error) {
	offset, err := c.LedgerEnd(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := c.ActiveContracts(ctx, ledger.ActiveContractsQuery{
		TemplateIDs:   []ledger.TemplateID{templateID},
		FilterByParty: true,
		Parties:       []ledger.Party{party},
		Offset:        offset,
	})
	if err != nil {
		return nil, err
	}

	var out []Contract[T]
	for _, entry := range entries {
		if entry.Active == nil || entry.Active.TemplateID != templateID {
			continue
		}
		contract, err := Decode[T](entry.Active)
		if err != nil {
			return nil, err
		}
		if match == nil || match(contract.Payload) {
			out = append(out, contract)
		}
	}
	return out, nil
}

// FindOne returns the first matching contract or ledger.ErrContractNotFound.
func FindOne[T any](ctx context.Context, c ledger.Client, party ledger.Party, templateID ledger.TemplateID, match func(T) bool) (Contract[T], error) {
	found, err := Query(ctx, c, party, templateID, match)
	if err != nil {
		return Contract[T]{}, err
	}
	if len(found) == 0 {
		return Contract[T]{}, errorsmod.Wrapf(ledger.ErrContractNotFound, "no active %s for %s", templateID.Entity(), party)
	}
	return found[0], nil
}

// Get returns the active contract with the given id.
func Get[T any](ctx context.Context, c ledger.Client, party ledger.Party, templateID ledger.TemplateID, cid ledger.ContractID) (Contract[T], error) {
	found, err := Query[T](ctx, c, party, templateID, nil)
	if err != nil {
		return Contract[T]{}, err
	}
	for _, contract := range found {
		if contract.ContractID == cid {
			return contract, nil
		}
	}
	return Contract[T]{}, errorsmod.Wrapf(ledger.ErrContractNotFound, "%s %s", templateID.Entity(), cid)
}

// Create submits a single create command as actAs and returns the new contract.
func Create[T any](ctx context.Context, c ledger.Client, actAs ledger.Party, templateID ledger.TemplateID, payload T) (Contract[T], error) {
	tx, err := c.Submit(ctx, ledger.Commands{
		ActAs:    []ledger.Party{actAs},
		Commands: []ledger.Command{ledger.NewCreate(templateID, payload)},
	})
	if err != nil {
		return Contract[T]{}, err
	}
	return CreatedOne[T](tx, templateID)
}

// GetOrCreate returns the first matching contract, creating payload when none exists.
func GetOrCreate[T any](ctx context.Context, c ledger.Client, actAs ledger.Party, templateID ledger.TemplateID, match func(T) bool, payload T) (Contract[T], error) {
	existing, err := FindOne(ctx, c, actAs, templateID, match)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ledger.ErrContractNotFound) {
		return Contract[T]{}, err
	}
	return Create(ctx, c, actAs, templateID, payload)
}

// Exercise exercises choice on cid as actAs.
func Exercise(ctx context.Context, c ledger.Client, actAs ledger.Party, templateID ledger.TemplateID, cid ledger.ContractID, choice string, arg any) (*ledger.Transaction, error) {
	return c.Submit(ctx, ledger.Commands{
		ActAs:    []ledger.Party{actAs},
		Commands: []ledger.Command{ledger.NewExercise(templateID, cid, choice, arg)},
	})
}

// CreatedOne decodes the first contract of templateID created by tx.
func CreatedOne[T any](tx *ledger.Transaction, templateID ledger.TemplateID) (Contract[T], error) {
	created := tx.Created(templateID)
	if len(created) == 0 {
		return Contract[T]{}, errorsmod.Wrapf(ledger.ErrMalformedResponse, "transaction created no %s", templateID.Entity())
	}
	return Decode[T](&created[0])
}

// CreatedAll decodes every contract of templateID created by tx.
func CreatedAll[T any](tx *ledger.Transaction, templateID ledger.TemplateID) ([]Contract[T], error) {
	created := tx.Created(templateID)
	out := make([]Contract[T], 0, len(created))
	for i := range created {
		contract, err := Decode[T](&created[i])
		if err != nil {
			return nil, err
		}
		out = append(out, contract)
	}
	return out, nil
}
