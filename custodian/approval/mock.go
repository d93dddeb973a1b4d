// Package approval holds the compliance approval clients the custodian consults
// before accepting a request.
package approval

import (
	"context"
	"time"

	"cosmossdk.io/log"
	"github.com/benbjohnson/clock"

	"github.com/owlprotocol/denote-workspace-sub000/custodian"
	"github.com/owlprotocol/denote-workspace-sub000/ledger"
)

// DefaultDelay is the simulated latency of the mock approval service.
const DefaultDelay = time.Second

var _ custodian.Approver = (*MockClient)(nil)

// MockClient approves every request after a fixed delay.
type MockClient struct {
	delay  time.Duration
	clock  clock.Clock
	logger log.Logger
}

// NewMockClient returns a mock approver waiting delay per call on the real clock.
func NewMockClient(delay time.Duration, logger log.Logger) *MockClient {
	return NewMockClientWithClock(delay, clock.New(), logger)
}

// NewMockClientWithClock is NewMockClient with an explicit clock.
func NewMockClientWithClock(delay time.Duration, c clock.Clock, logger log.Logger) *MockClient {
	return &MockClient{delay: delay, clock: c, logger: logger.With("module", "approval")}
}

func (m *MockClient) ApproveIssuerMint(ctx context.Context, r custodian.IssuerMint) (bool, error) {
	return m.approve(ctx, r.ID, r.Kind(), "receiver", r.Receiver, "amount", r.Amount)
}

func (m *MockClient) ApproveTransfer(ctx context.Context, r custodian.Transfer) (bool, error) {
	return m.approve(ctx, r.ID, r.Kind(), "sender", r.Sender, "receiver", r.Receiver, "amount", r.Amount)
}

func (m *MockClient) ApproveIssuerBurn(ctx context.Context, r custodian.IssuerBurn) (bool, error) {
	return m.approve(ctx, r.ID, r.Kind(), "owner", r.Owner, "amount", r.Amount)
}

func (m *MockClient) ApproveBondIssuerMint(ctx context.Context, r custodian.BondIssuerMint) (bool, error) {
	return m.approve(ctx, r.ID, r.Kind(), "receiver", r.Receiver, "amount", r.Amount)
}

func (m *MockClient) ApproveBondTransfer(ctx context.Context, r custodian.BondTransfer) (bool, error) {
	return m.approve(ctx, r.ID, r.Kind(), "sender", r.Sender, "receiver", r.Receiver, "amount", r.Amount)
}

func (m *MockClient) ApproveBondLifecycleClaim(ctx context.Context, r custodian.BondLifecycleClaim) (bool, error) {
	return m.approve(ctx, r.ID, r.Kind(), "holder", r.Holder)
}

func (m *MockClient) approve(ctx context.Context, cid ledger.ContractID, kind custodian.Kind, keyvals ...any) (bool, error) {
	if m.delay > 0 {
		t := m.clock.Timer(m.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-t.C:
		}
	}
	m.logger.Info("approval granted", append([]any{"contract_id", cid, "kind", kind.String()}, keyvals...)...)
	return true, nil
}
