package ledger

import "context"

// Client is the subset of the ledger API the rest of the repository consumes.
// Implementations own party identity, command signing and submission.
type Client interface {
	// LedgerEnd returns the current read position.
	LedgerEnd(ctx context.Context) (Offset, error)

	// ActiveContracts returns the contracts active at q.Offset. Entries that are
	// not active contracts are returned with a nil Active field.
	ActiveContracts(ctx context.Context, q ActiveContractsQuery) ([]ContractEntry, error)

	// Submit submits the commands and waits for the resulting transaction.
	Submit(ctx context.Context, cmds Commands) (*Transaction, error)

	// AllocateParty allocates a new party with the given id hint.
	AllocateParty(ctx context.Context, hint string) (Party, error)
}
