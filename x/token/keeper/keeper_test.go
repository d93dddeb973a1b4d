package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	keepertest "github.com/owlprotocol/denote-workspace-sub000/testutil/keeper"
	"github.com/owlprotocol/denote-workspace-sub000/testutil/ledgermock"
	"github.com/owlprotocol/denote-workspace-sub000/x/token/keeper"
	"github.com/owlprotocol/denote-workspace-sub000/x/token/types"
)

var (
	issuer = keepertest.Issuer
	alice  = keepertest.Alice
	bob    = keepertest.Bob
)

type KeeperTestSuite struct {
	suite.Suite
	keeper *keeper.Keeper
	ledger *ledgermock.Ledger
}

func (s *KeeperTestSuite) SetupTest() {
	s.keeper, s.ledger, _ = keepertest.TokenKeeper(s.T())
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) TestGetOrCreateFactoryIsIdempotent() {
	ctx := s.T().Context()

	first, err := s.keeper.GetOrCreateFactory(ctx, issuer, "USDC")
	s.Require().NoError(err)
	second, err := s.keeper.GetOrCreateFactory(ctx, issuer, "USDC")
	s.Require().NoError(err)
	s.Require().Equal(first.ContractID, second.ContractID)

	other, err := s.keeper.GetOrCreateFactory(ctx, issuer, "EURC")
	s.Require().NoError(err)
	s.Require().NotEqual(first.ContractID, other.ContractID)

	s.Require().Len(s.ledger.Active(types.RulesTemplateID), 1)
	s.Require().Len(s.ledger.Active(types.FactoryTemplateID), 2)
}

func (s *KeeperTestSuite) TestMintFlow() {
	ctx := s.T().Context()

	req, err := s.keeper.CreateMintRequest(ctx, alice, issuer, "USDC", ledger.NewNumeric(100))
	s.Require().NoError(err)

	found, err := s.keeper.FindMintRequest(ctx, issuer, types.IssuerMintRequest{
		Issuer: issuer, Receiver: alice, InstrumentID: "USDC", Amount: ledger.MustParseNumeric("100.0"),
	})
	s.Require().NoError(err)
	s.Require().Equal(req.ContractID, found.ContractID)

	pending, err := s.keeper.ListMintRequests(ctx, issuer)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)

	holding, err := s.keeper.AcceptMintRequest(ctx, issuer, req.ContractID)
	s.Require().NoError(err)
	s.Require().Equal(alice, holding.Payload.Owner)
	s.Require().False(s.ledger.IsActive(req.ContractID))

	balance, err := s.keeper.Balance(ctx, alice, issuer, "USDC")
	s.Require().NoError(err)
	s.Require().Equal("100.0", balance.String())
}

func (s *KeeperTestSuite) TestMintDeclineAndWithdraw() {
	ctx := s.T().Context()

	declined, err := s.keeper.CreateMintRequest(ctx, alice, issuer, "USDC", ledger.NewNumeric(1))
	s.Require().NoError(err)
	s.Require().NoError(s.keeper.DeclineMintRequest(ctx, issuer, declined.ContractID))

	withdrawn, err := s.keeper.CreateMintRequest(ctx, alice, issuer, "USDC", ledger.NewNumeric(2))
	s.Require().NoError(err)
	s.Require().NoError(s.keeper.WithdrawMintRequest(ctx, alice, withdrawn.ContractID))

	pending, err := s.keeper.ListMintRequests(ctx, alice)
	s.Require().NoError(err)
	s.Require().Empty(pending)
	s.Require().Equal([]string{"IssuerMintRequest_Decline", "IssuerMintRequest_Withdraw"}, s.ledger.Exercised())

	// a second decline hits an archived contract
	err = s.keeper.DeclineMintRequest(ctx, issuer, declined.ContractID)
	s.Require().ErrorIs(err, ledger.ErrContractNotFound)
}

func (s *KeeperTestSuite) TestTransferFlow() {
	ctx := s.T().Context()
	keepertest.SeedTokenHolding(s.T(), s.ledger, issuer, alice, "USDC", "30")
	keepertest.SeedTokenHolding(s.T(), s.ledger, issuer, alice, "USDC", "50")

	req, err := s.keeper.CreateTransferRequest(ctx, alice, bob, issuer, "USDC", ledger.NewNumeric(60))
	s.Require().NoError(err)
	s.Require().Len(req.Payload.InputHoldingCids, 2)

	received, err := s.keeper.AcceptTransferRequest(ctx, issuer, req.ContractID)
	s.Require().NoError(err)
	s.Require().Equal(bob, received.Payload.Owner)
	s.Require().Equal("60.0", received.Payload.Amount.String())

	aliceBalance, err := s.keeper.Balance(ctx, alice, issuer, "USDC")
	s.Require().NoError(err)
	s.Require().Equal("20.0", aliceBalance.String())

	bobBalances, err := s.keeper.Balances(ctx, bob)
	s.Require().NoError(err)
	s.Require().Len(bobBalances, 1)
	s.Require().Equal("USDC", bobBalances[0].InstrumentID)
	s.Require().Equal(1, bobBalances[0].Holdings)
}

func (s *KeeperTestSuite) TestTransferInsufficientHoldings() {
	ctx := s.T().Context()
	keepertest.SeedTokenHolding(s.T(), s.ledger, issuer, alice, "USDC", "5")

	_, err := s.keeper.CreateTransferRequest(ctx, alice, bob, issuer, "USDC", ledger.NewNumeric(6))
	s.Require().ErrorIs(err, types.ErrInsufficientHoldings)
	s.Require().Empty(s.ledger.Active(types.TransferRequestTemplateID))
}

func (s *KeeperTestSuite) TestBurnFlow() {
	ctx := s.T().Context()
	keepertest.SeedTokenHolding(s.T(), s.ledger, issuer, alice, "USDC", "10")

	req, err := s.keeper.CreateBurnRequest(ctx, alice, issuer, "USDC", ledger.MustParseNumeric("2.5"))
	s.Require().NoError(err)
	s.Require().NoError(s.keeper.AcceptBurnRequest(ctx, issuer, req.ContractID))

	balance, err := s.keeper.Balance(ctx, alice, issuer, "USDC")
	s.Require().NoError(err)
	s.Require().Equal("7.5", balance.String())
}

func (s *KeeperTestSuite) TestPreapprovalFlow() {
	ctx := s.T().Context()
	keepertest.SeedTokenHolding(s.T(), s.ledger, issuer, alice, "USDC", "10")

	_, err := s.keeper.SendWithPreapproval(ctx, alice, bob, issuer, "USDC", ledger.NewNumeric(1))
	s.Require().ErrorIs(err, types.ErrPreapprovalNotFound)

	proposal, err := s.keeper.CreatePreapprovalProposal(ctx, bob, issuer, "USDC")
	s.Require().NoError(err)
	preapproval, err := s.keeper.AcceptPreapprovalProposal(ctx, issuer, proposal.ContractID)
	s.Require().NoError(err)
	s.Require().Equal(bob, preapproval.Payload.Receiver)

	list, err := s.keeper.ListPreapprovals(ctx, bob)
	s.Require().NoError(err)
	s.Require().Len(list, 1)

	received, err := s.keeper.SendWithPreapproval(ctx, alice, bob, issuer, "USDC", ledger.NewNumeric(4))
	s.Require().NoError(err)
	s.Require().Equal("4.0", received.Payload.Amount.String())

	// the preapproval stays usable
	_, err = s.keeper.SendWithPreapproval(ctx, alice, bob, issuer, "USDC", ledger.NewNumeric(4))
	s.Require().NoError(err)

	balance, err := s.keeper.Balance(ctx, bob, issuer, "USDC")
	s.Require().NoError(err)
	s.Require().Equal("8.0", balance.String())
}

func TestCreateMintRequestValidation(t *testing.T) {
	k, l, ctx := keepertest.TokenKeeper(t)

	_, err := k.CreateMintRequest(ctx, "alice", issuer, "USDC", ledger.NewNumeric(1))
	require.ErrorIs(t, err, types.ErrInvalidParty)
	_, err = k.CreateMintRequest(ctx, alice, issuer, "USDC", ledger.ZeroNumeric())
	require.ErrorIs(t, err, types.ErrInvalidAmount)
	require.Empty(t, l.Submissions())
}
