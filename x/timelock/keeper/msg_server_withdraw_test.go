package keeper_test

import (
	"github.com/streampay-labs/timelock/x/timelock/types"
)

func (s *KeeperTestSuite) TestWithdraw_AllAvailable() {
	stream := s.env.CreateStream(s.T(), "wd", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	// amount zero withdraws everything currently unlocked.
	err := s.env.Keeper.Withdraw(stream.WithdrawAccounts(), 0)
	s.Require().NoError(err)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(500), record.WithdrawnAmount)
	s.Require().Equal(uint64(150), record.LastWithdrawnAt)
	s.Require().Equal(uint64(500), s.env.TokenBalance(stream.RecipientTokens))
	s.requireEscrowInvariant(stream)
}

func (s *KeeperTestSuite) TestWithdraw_PartialAmount() {
	stream := s.env.CreateStream(s.T(), "wd-part", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	err := s.env.Keeper.Withdraw(stream.WithdrawAccounts(), 200)
	s.Require().NoError(err)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(200), record.WithdrawnAmount)
	s.Require().Equal(uint64(200), s.env.TokenBalance(stream.RecipientTokens))
	s.requireEscrowInvariant(stream)

	// A second withdraw picks up the rest of what is unlocked.
	err = s.env.Keeper.Withdraw(stream.WithdrawAccounts(), 0)
	s.Require().NoError(err)
	record = s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(500), record.WithdrawnAmount)
	s.requireEscrowInvariant(stream)
}

func (s *KeeperTestSuite) TestWithdraw_OverAvailable() {
	stream := s.env.CreateStream(s.T(), "wd-over", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	err := s.env.Keeper.Withdraw(stream.WithdrawAccounts(), 501)
	s.Require().ErrorIs(err, types.ErrInvalidArgument)
	s.Require().Equal(uint64(0), s.env.TokenBalance(stream.RecipientTokens))
}

func (s *KeeperTestSuite) TestWithdraw_BeforeStart() {
	stream := s.env.CreateStream(s.T(), "wd-early", s.linearTerms(), 0)
	s.env.Ledger.SetNow(90)

	err := s.env.Keeper.Withdraw(stream.WithdrawAccounts(), 1)
	s.Require().ErrorIs(err, types.ErrInvalidArgument)
}

func (s *KeeperTestSuite) TestWithdraw_FullClosesEscrow() {
	stream := s.env.CreateStream(s.T(), "wd-full", s.linearTerms(), 0)
	s.env.Ledger.SetNow(200)

	senderBalanceBefore := s.env.Ref(stream.Sender, false, false).Balance()
	escrowDeposit := s.env.Ref(stream.Escrow, false, false).Balance()
	s.Require().NotZero(escrowDeposit)

	err := s.env.Keeper.Withdraw(stream.WithdrawAccounts(), 0)
	s.Require().NoError(err)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(1000), record.WithdrawnAmount)
	s.Require().Equal(uint64(1000), s.env.TokenBalance(stream.RecipientTokens))

	// The escrow account is gone; its storage deposit went back to the sender.
	s.Require().False(s.env.Ref(stream.Escrow, false, false).Exists())
	s.Require().Equal(senderBalanceBefore+escrowDeposit,
		s.env.Ref(stream.Sender, false, false).Balance())
}

func (s *KeeperTestSuite) TestWithdraw_AuthorityMustBeRecipient() {
	stream := s.env.CreateStream(s.T(), "wd-auth", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	acc := stream.WithdrawAccounts()
	acc.Authority = s.env.Ref(stream.Sender, true, true)
	err := s.env.Keeper.Withdraw(acc, 0)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}

func (s *KeeperTestSuite) TestWithdraw_MissingSignature() {
	stream := s.env.CreateStream(s.T(), "wd-nosig", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	acc := stream.WithdrawAccounts()
	acc.Authority.Signer = false
	err := s.env.Keeper.Withdraw(acc, 0)
	s.Require().ErrorIs(err, types.ErrMissingSignature)
}

func (s *KeeperTestSuite) TestWithdraw_NotWritable() {
	stream := s.env.CreateStream(s.T(), "wd-ro", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	acc := stream.WithdrawAccounts()
	acc.Record.Writable = false
	// Withdraw has always reported writability violations as invalid
	// account data rather than the dedicated writability code.
	err := s.env.Keeper.Withdraw(acc, 0)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}

func (s *KeeperTestSuite) TestWithdraw_UninitializedRecord() {
	stream := s.env.NewStream(s.T(), "wd-uninit", s.linearTerms(), 0)

	err := s.env.Keeper.Withdraw(stream.WithdrawAccounts(), 0)
	s.Require().ErrorIs(err, types.ErrUninitializedAccount)
}

// WithdrawalPublic is recorded but not enforced: the recipient must still be
// the signing authority even when the flag is set. This pins the as-built
// behavior; tightening it is a product decision, not a bug fix.
func (s *KeeperTestSuite) TestWithdraw_PublicFlagNotHonored() {
	terms := s.linearTerms()
	terms.WithdrawalPublic = true
	stream := s.env.CreateStream(s.T(), "wd-public", terms, 0)
	s.env.Ledger.SetNow(150)

	acc := stream.WithdrawAccounts()
	acc.Authority = s.env.Ref(stream.Sender, true, true)
	err := s.env.Keeper.Withdraw(acc, 0)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}

func (s *KeeperTestSuite) TestWithdraw_ReplayAgainstTransferredRecord() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = true
	stream := s.env.CreateStream(s.T(), "wd-replay", terms, 0)
	s.env.Ledger.SetNow(150)

	// The recipient hands the stream to a new wallet, then replays a
	// withdraw built against the old binding.
	oldAccounts := stream.WithdrawAccounts()
	newRecipient := s.env.Wallet("wd-replay-new")
	err := s.env.Keeper.TransferRecipient(stream.TransferAccounts(stream.Recipient, newRecipient))
	s.Require().NoError(err)

	err = s.env.Keeper.Withdraw(oldAccounts, 0)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}
