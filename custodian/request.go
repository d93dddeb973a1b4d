package custodian

import (
	"context"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	bondtypes "github.com/owlprotocol/denote-workspace-sub000/x/bond/types"
	tokentypes "github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

// Kind identifies one of the request templates the custodian watches.
type Kind int

const (
	KindUnknown Kind = iota
	KindIssuerMint
	KindTransfer
	KindIssuerBurn
	KindBondIssuerMint
	KindBondTransfer
	KindBondLifecycleClaim
)

func (k Kind) String() string {
	switch k {
	case KindIssuerMint:
		return "IssuerMint"
	case KindTransfer:
		return "Transfer"
	case KindIssuerBurn:
		return "IssuerBurn"
	case KindBondIssuerMint:
		return "BondIssuerMint"
	case KindBondTransfer:
		return "BondTransfer"
	case KindBondLifecycleClaim:
		return "BondLifecycleClaim"
	default:
		return "Unknown"
	}
}

// Request is an active request contract awaiting the custodian. The set of
// implementations is closed: each one routes itself to its own Approver and
// Acceptor method.
type Request interface {
	ContractID() ledger.ContractID
	Kind() Kind

	approve(ctx context.Context, a Approver) (bool, error)
	accept(ctx context.Context, a Acceptor) error
}

// Approver is the external compliance check consulted before every accept.
// Returning false rejects the request.
type Approver interface {
	ApproveIssuerMint(ctx context.Context, r IssuerMint) (bool, error)
	ApproveTransfer(ctx context.Context, r Transfer) (bool, error)
	ApproveIssuerBurn(ctx context.Context, r IssuerBurn) (bool, error)
	ApproveBondIssuerMint(ctx context.Context, r BondIssuerMint) (bool, error)
	ApproveBondTransfer(ctx context.Context, r BondTransfer) (bool, error)
	ApproveBondLifecycleClaim(ctx context.Context, r BondLifecycleClaim) (bool, error)
}

// Acceptor exercises the accept choice of each request kind on the ledger.
type Acceptor interface {
	AcceptIssuerMint(ctx context.Context, cid ledger.ContractID) error
	AcceptTransfer(ctx context.Context, cid ledger.ContractID) error
	AcceptIssuerBurn(ctx context.Context, cid ledger.ContractID) error
	AcceptBondIssuerMint(ctx context.Context, cid ledger.ContractID) error
	AcceptBondTransfer(ctx context.Context, cid ledger.ContractID) error
	AcceptBondLifecycleClaim(ctx context.Context, cid ledger.ContractID) error
}

// IssuerMint is a pending token mint.
type IssuerMint struct {
	ID ledger.ContractID `json:"contractId"`
	tokentypes.IssuerMintRequest
}

func (r IssuerMint) ContractID() ledger.ContractID { return r.ID }
func (IssuerMint) Kind() Kind                      { return KindIssuerMint }

func (r IssuerMint) approve(ctx context.Context, a Approver) (bool, error) {
	return a.ApproveIssuerMint(ctx, r)
}

func (r IssuerMint) accept(ctx context.Context, a Acceptor) error {
	return a.AcceptIssuerMint(ctx, r.ID)
}

// Transfer is a pending token transfer.
type Transfer struct {
	ID ledger.ContractID `json:"contractId"`
	tokentypes.TransferRequest
}

func (r Transfer) ContractID() ledger.ContractID { return r.ID }
func (Transfer) Kind() Kind                      { return KindTransfer }

func (r Transfer) approve(ctx context.Context, a Approver) (bool, error) {
	return a.ApproveTransfer(ctx, r)
}

func (r Transfer) accept(ctx context.Context, a Acceptor) error {
	return a.AcceptTransfer(ctx, r.ID)
}

// IssuerBurn is a pending token burn.
type IssuerBurn struct {
	ID ledger.ContractID `json:"contractId"`
	tokentypes.IssuerBurnRequest
}

func (r IssuerBurn) ContractID() ledger.ContractID { return r.ID }
func (IssuerBurn) Kind() Kind                      { return KindIssuerBurn }

func (r IssuerBurn) approve(ctx context.Context, a Approver) (bool, error) {
	return a.ApproveIssuerBurn(ctx, r)
}

func (r IssuerBurn) accept(ctx context.Context, a Acceptor) error {
	return a.AcceptIssuerBurn(ctx, r.ID)
}

// BondIssuerMint is a pending bond mint.
type BondIssuerMint struct {
	ID ledger.ContractID `json:"contractId"`
	bondtypes.MintRequest
}

func (r BondIssuerMint) ContractID() ledger.ContractID { return r.ID }
func (BondIssuerMint) Kind() Kind                      { return KindBondIssuerMint }

func (r BondIssuerMint) approve(ctx context.Context, a Approver) (bool, error) {
	return a.ApproveBondIssuerMint(ctx, r)
}

func (r BondIssuerMint) accept(ctx context.Context, a Acceptor) error {
	return a.AcceptBondIssuerMint(ctx, r.ID)
}

// BondTransfer is a pending bond transfer.
type BondTransfer struct {
	ID ledger.ContractID `json:"contractId"`
	bondtypes.TransferRequest
}

func (r BondTransfer) ContractID() ledger.ContractID { return r.ID }
func (BondTransfer) Kind() Kind                      { return KindBondTransfer }

func (r BondTransfer) approve(ctx context.Context, a Approver) (bool, error) {
	return a.ApproveBondTransfer(ctx, r)
}

func (r BondTransfer) accept(ctx context.Context, a Acceptor) error {
	return a.AcceptBondTransfer(ctx, r.ID)
}

// BondLifecycleClaim is a pending claim of a coupon or redemption.
type BondLifecycleClaim struct {
	ID ledger.ContractID `json:"contractId"`
	bondtypes.LifecycleClaimRequest
}

func (r BondLifecycleClaim) ContractID() ledger.ContractID { return r.ID }
func (BondLifecycleClaim) Kind() Kind                      { return KindBondLifecycleClaim }

func (r BondLifecycleClaim) approve(ctx context.Context, a Approver) (bool, error) {
	return a.ApproveBondLifecycleClaim(ctx, r)
}

func (r BondLifecycleClaim) accept(ctx context.Context, a Acceptor) error {
	return a.AcceptBondLifecycleClaim(ctx, r.ID)
}
