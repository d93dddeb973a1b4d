package shared

import (
	"context"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// Request choices shared by every request template.
const (
	ActionAccept   = "Accept"
	ActionDecline  = "Decline"
	ActionWithdraw = "Withdraw"
)

// ChoiceName returns the choice name for a template entity, e.g. "TransferRequest_Accept".
func ChoiceName(templateID ledger.TemplateID, action string) string {
	return templateID.Entity() + "_" + action
}

// RequestTemplate is a request contract that is created by one party and then
// accepted or declined by the counterparty, or withdrawn by its creator.
type RequestTemplate[T any] struct {
	TemplateID ledger.TemplateID
}

// NewRequestTemplate returns the request workflow for templateID.
func NewRequestTemplate[T any](templateID ledger.TemplateID) RequestTemplate[T] {
	return RequestTemplate[T]{TemplateID: templateID}
}

// Create creates the request as actAs.
func (r RequestTemplate[T]) Create(ctx context.Context, c ledger.Client, actAs ledger.Party, payload T) (Contract[T], error) {
	return Create(ctx, c, actAs, r.TemplateID, payload)
}

// List returns the pending requests visible to party that satisfy match.
func (r RequestTemplate[T]) List(ctx context.Context, c ledger.Client, party ledger.Party, match func(T) bool) ([]Contract[T], error) {
	return Query(ctx, c, party, r.TemplateID, match)
}

// Find returns the first pending request visible to party that satisfies match.
func (r RequestTemplate[T]) Find(ctx context.Context, c ledger.Client, party ledger.Party, match func(T) bool) (Contract[T], error) {
	return FindOne(ctx, c, party, r.TemplateID, match)
}

// Get returns the pending request cid.
func (r RequestTemplate[T]) Get(ctx context.Context, c ledger.Client, party ledger.Party, cid ledger.ContractID) (Contract[T], error) {
	return Get[T](ctx, c, party, r.TemplateID, cid)
}

// Accept exercises the accept choice as actAs.
func (r RequestTemplate[T]) Accept(ctx context.Context, c ledger.Client, actAs ledger.Party, cid ledger.ContractID) (*ledger.Transaction, error) {
	return Exercise(ctx, c, actAs, r.TemplateID, cid, ChoiceName(r.TemplateID, ActionAccept), nil)
}

// Decline exercises the decline choice as actAs.
func (r RequestTemplate[T]) Decline(ctx context.Context, c ledger.Client, actAs ledger.Party, cid ledger.ContractID) (*ledger.Transaction, error) {
	return Exercise(ctx, c, actAs, r.TemplateID, cid, ChoiceName(r.TemplateID, ActionDecline), nil)
}

// Withdraw exercises the withdraw choice as actAs.
func (r RequestTemplate[T]) Withdraw(ctx context.Context, c ledger.Client, actAs ledger.Party, cid ledger.ContractID) (*ledger.Transaction, error) {
	return Exercise(ctx, c, actAs, r.TemplateID, cid, ChoiceName(r.TemplateID, ActionWithdraw), nil)
}
