package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/log"

	"github.com/owlprotocol/denote-workspace-sub000/testutil/ledgermock"
	"github.com/owlprotocol/denote-workspace-sub000/x/etf/keeper"
	tokenkeeper "github.com/owlprotocol/denote-workspace-sub000/x/token/keeper"
)

// ETFKeeper creates an ETF keeper and the token keeper it reads holdings
// through, both backed by the same in-memory ledger
func ETFKeeper(t testing.TB) (*keeper.Keeper, *ledgermock.Ledger, context.Context) {
	l, ctx := SetupLedger(t)
	tk := tokenkeeper.NewKeeper(l, log.NewNopLogger())
	return keeper.NewKeeper(l, tk, log.NewNopLogger()), l, ctx
}
