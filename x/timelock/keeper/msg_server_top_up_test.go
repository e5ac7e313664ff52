package keeper_test

import (
	"github.com/streampay-labs/timelock/x/timelock/types"
)

func (s *KeeperTestSuite) TestTopUp_Success() {
	terms := s.linearTerms()
	terms.DepositedAmount = 500
	stream := s.env.CreateStream(s.T(), "tu", terms, 500)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(151), record.ClosableAt)

	s.env.Ledger.SetNow(120)
	err := s.env.Keeper.TopUp(stream.TopUpAccounts(), 500)
	s.Require().NoError(err)

	record = s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(1000), record.Terms.DepositedAmount)
	s.Require().Equal(uint64(200), record.ClosableAt,
		"fully funding the stream pushes closable back to the end time")
	s.Require().Equal(uint64(1000), s.env.TokenBalance(stream.Escrow))
	s.requireEscrowInvariant(stream)
}

func (s *KeeperTestSuite) TestTopUp_ZeroAmount() {
	stream := s.env.CreateStream(s.T(), "tu-zero", s.linearTerms(), 100)
	s.env.Ledger.SetNow(120)

	err := s.env.Keeper.TopUp(stream.TopUpAccounts(), 0)
	s.Require().ErrorIs(err, types.ErrInvalidArgument)
}

func (s *KeeperTestSuite) TestTopUp_AfterClosable() {
	stream := s.env.CreateStream(s.T(), "tu-late", s.linearTerms(), 100)
	s.env.Ledger.SetNow(200)

	err := s.env.Keeper.TopUp(stream.TopUpAccounts(), 100)
	s.Require().ErrorIs(err, types.ErrStreamClosed)
}

func (s *KeeperTestSuite) TestTopUp_MissingSignature() {
	stream := s.env.CreateStream(s.T(), "tu-nosig", s.linearTerms(), 100)
	s.env.Ledger.SetNow(120)

	acc := stream.TopUpAccounts()
	acc.Sender.Signer = false
	err := s.env.Keeper.TopUp(acc, 100)
	s.Require().ErrorIs(err, types.ErrMissingSignature)
}

func (s *KeeperTestSuite) TestTopUp_NotWritable() {
	stream := s.env.CreateStream(s.T(), "tu-ro", s.linearTerms(), 100)
	s.env.Ledger.SetNow(120)

	acc := stream.TopUpAccounts()
	acc.EscrowTokens.Writable = false
	err := s.env.Keeper.TopUp(acc, 100)
	s.Require().ErrorIs(err, types.ErrAccountsNotWritable)
}

func (s *KeeperTestSuite) TestTopUp_InsufficientTokens() {
	stream := s.env.CreateStream(s.T(), "tu-poor", s.linearTerms(), 50)
	s.env.Ledger.SetNow(120)

	err := s.env.Keeper.TopUp(stream.TopUpAccounts(), 100)
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)
}

func (s *KeeperTestSuite) TestTopUp_ExtendsFixedRateStream() {
	terms := s.linearTerms()
	terms.ReleaseRate = 100
	stream := s.env.CreateStream(s.T(), "tu-rate", terms, 500)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(201), record.ClosableAt)

	s.env.Ledger.SetNow(150)
	err := s.env.Keeper.TopUp(stream.TopUpAccounts(), 500)
	s.Require().NoError(err)

	record = s.env.LoadRecord(s.T(), stream.Record)
	// 10 per second over 1500 deposited: closable drifts past the end time.
	s.Require().Equal(uint64(251), record.ClosableAt)
}
