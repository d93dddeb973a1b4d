package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/log"

	"github.com/owlprotocol/denote-workspace-sub000/testutil/ledgermock"
	"github.com/owlprotocol/denote-workspace-sub000/x/token/keeper"
)

// TokenKeeper creates a token keeper backed by an in-memory ledger
func TokenKeeper(t testing.TB) (*keeper.Keeper, *ledgermock.Ledger, context.Context) {
	l, ctx := SetupLedger(t)
	return keeper.NewKeeper(l, log.NewNopLogger()), l, ctx
}
