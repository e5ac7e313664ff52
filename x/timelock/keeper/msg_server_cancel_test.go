package keeper_test

import (
	"github.com/streampay-labs/timelock/x/timelock/types"
)

func (s *KeeperTestSuite) TestCancel_Early() {
	stream := s.env.CreateStream(s.T(), "cx", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	senderBalanceBefore := s.env.Ref(stream.Sender, false, false).Balance()
	escrowDeposit := s.env.Ref(stream.Escrow, false, false).Balance()

	err := s.env.Keeper.Cancel(stream.CancelAccounts())
	s.Require().NoError(err)

	// Unlocked half to the recipient, the rest back to the sender.
	s.Require().Equal(uint64(500), s.env.TokenBalance(stream.RecipientTokens))
	s.Require().Equal(uint64(500), s.env.TokenBalance(stream.SenderTokens))

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(150), record.CanceledAt)
	s.Require().Equal(uint64(150), record.LastWithdrawnAt)

	// Escrow destroyed, storage deposit refunded to the sender.
	s.Require().False(s.env.Ref(stream.Escrow, false, false).Exists())
	s.Require().Equal(senderBalanceBefore+escrowDeposit,
		s.env.Ref(stream.Sender, false, false).Balance())
}

func (s *KeeperTestSuite) TestCancel_EarlyRequiresSenderSignature() {
	stream := s.env.CreateStream(s.T(), "cx-sig", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	acc := stream.CancelAccounts()
	acc.Authority.Signer = false
	err := s.env.Keeper.Cancel(acc)
	s.Require().ErrorIs(err, types.ErrMissingSignature)

	// Nothing moved.
	s.Require().Equal(uint64(1000), s.env.TokenBalance(stream.Escrow))
}

func (s *KeeperTestSuite) TestCancel_EarlyRejectsNonSenderAuthority() {
	stream := s.env.CreateStream(s.T(), "cx-auth", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	acc := stream.CancelAccounts()
	acc.Authority = s.env.Ref(stream.Recipient, true, true)
	err := s.env.Keeper.Cancel(acc)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}

func (s *KeeperTestSuite) TestCancel_AfterClosableNeedsNoAuthorization() {
	stream := s.env.CreateStream(s.T(), "cx-late", s.linearTerms(), 0)
	s.env.Ledger.SetNow(200)

	// Any unsigned wallet may trigger the cleanup once fully vested.
	acc := stream.CancelAccounts()
	acc.Authority = s.env.Ref(s.env.Wallet("cx-late-stranger"), false, false)
	err := s.env.Keeper.Cancel(acc)
	s.Require().NoError(err)

	s.Require().Equal(uint64(1000), s.env.TokenBalance(stream.RecipientTokens))
	s.Require().Equal(uint64(0), s.env.TokenBalance(stream.SenderTokens))

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Zero(record.CanceledAt, "a post-vesting cancel is cleanup, not cancellation")
	s.Require().Zero(record.LastWithdrawnAt)
}

func (s *KeeperTestSuite) TestCancel_AfterPartialWithdraw() {
	stream := s.env.CreateStream(s.T(), "cx-mixed", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	err := s.env.Keeper.Withdraw(stream.WithdrawAccounts(), 300)
	s.Require().NoError(err)

	s.env.Ledger.SetNow(160)
	err = s.env.Keeper.Cancel(stream.CancelAccounts())
	s.Require().NoError(err)

	// 600 unlocked by t=160: 300 already withdrawn, 300 paid on cancel,
	// 400 returned.
	s.Require().Equal(uint64(600), s.env.TokenBalance(stream.RecipientTokens))
	s.Require().Equal(uint64(400), s.env.TokenBalance(stream.SenderTokens))

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(600), record.WithdrawnAmount)
}

// The CancelableBySender and CancelableByRecipient flags are recorded but the
// authorization rule depends only on timing. Pinned as built.
func (s *KeeperTestSuite) TestCancel_IgnoresCancelableFlags() {
	terms := s.linearTerms()
	terms.CancelableBySender = false
	terms.CancelableByRecipient = false
	stream := s.env.CreateStream(s.T(), "cx-flags", terms, 0)
	s.env.Ledger.SetNow(150)

	err := s.env.Keeper.Cancel(stream.CancelAccounts())
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestCancel_AccountMismatch() {
	stream := s.env.CreateStream(s.T(), "cx-swap", s.linearTerms(), 0)
	other := s.env.CreateStream(s.T(), "cx-swap-other", s.linearTerms(), 0)
	s.env.Ledger.SetNow(150)

	acc := stream.CancelAccounts()
	acc.SenderTokens = s.env.Ref(other.SenderTokens, true, false)
	err := s.env.Keeper.Cancel(acc)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}

func (s *KeeperTestSuite) TestCancel_Uninitialized() {
	stream := s.env.NewStream(s.T(), "cx-uninit", s.linearTerms(), 0)

	err := s.env.Keeper.Cancel(stream.CancelAccounts())
	s.Require().ErrorIs(err, types.ErrUninitializedAccount)
}
