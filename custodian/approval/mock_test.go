package approval_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/owlprotocol/denote-workspace-sub000/custodian"
	"github.com/owlprotocol/denote-workspace-sub000/custodian/approval"
)

func TestMockClientApprovesEveryKind(t *testing.T) {
	m := approval.NewMockClient(0, log.NewNopLogger())
	ctx := t.Context()

	calls := []func() (bool, error){
		func() (bool, error) { return m.ApproveIssuerMint(ctx, custodian.IssuerMint{ID: "c1"}) },
		func() (bool, error) { return m.ApproveTransfer(ctx, custodian.Transfer{ID: "c2"}) },
		func() (bool, error) { return m.ApproveIssuerBurn(ctx, custodian.IssuerBurn{ID: "c3"}) },
		func() (bool, error) { return m.ApproveBondIssuerMint(ctx, custodian.BondIssuerMint{ID: "c4"}) },
		func() (bool, error) { return m.ApproveBondTransfer(ctx, custodian.BondTransfer{ID: "c5"}) },
		func() (bool, error) { return m.ApproveBondLifecycleClaim(ctx, custodian.BondLifecycleClaim{ID: "c6"}) },
	}
	for _, call := range calls {
		ok, err := call()
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestMockClientWaitsForDelay(t *testing.T) {
	mock := clock.NewMock()
	m := approval.NewMockClientWithClock(approval.DefaultDelay, mock, log.NewNopLogger())

	done := make(chan bool, 1)
	go func() {
		ok, _ := m.ApproveIssuerMint(context.Background(), custodian.IssuerMint{ID: "c1"})
		done <- ok
	}()

	// advance until the pending timer fires
	require.Eventually(t, func() bool {
		mock.Add(approval.DefaultDelay)
		select {
		case ok := <-done:
			return ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestMockClientHonoursCancellation(t *testing.T) {
	m := approval.NewMockClientWithClock(time.Hour, clock.NewMock(), log.NewNopLogger())
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	ok, err := m.ApproveTransfer(ctx, custodian.Transfer{ID: "c1"})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, ok)
}
