package keeper_test

import (
	"github.com/streampay-labs/timelock/x/timelock/types"
)

func (s *KeeperTestSuite) TestTransferRecipient_ByRecipient() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = true
	stream := s.env.CreateStream(s.T(), "tr", terms, 0)
	s.env.Ledger.SetNow(150)

	newRecipient := s.env.Wallet("tr-new")
	acc := stream.TransferAccounts(stream.Recipient, newRecipient)
	err := s.env.Keeper.TransferRecipient(acc)
	s.Require().NoError(err)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(newRecipient, record.Recipient)
	s.Require().Equal(s.env.Tokens.CanonicalAddress(newRecipient, stream.Mint), record.RecipientTokens)

	// No tokens moved.
	s.Require().Equal(uint64(1000), s.env.TokenBalance(stream.Escrow))
	s.requireEscrowInvariant(stream)
}

func (s *KeeperTestSuite) TestTransferRecipient_BySender() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = false
	terms.TransferableBySender = true
	stream := s.env.CreateStream(s.T(), "tr-sender", terms, 0)

	newRecipient := s.env.Wallet("tr-sender-new")
	err := s.env.Keeper.TransferRecipient(stream.TransferAccounts(stream.Sender, newRecipient))
	s.Require().NoError(err)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(newRecipient, record.Recipient)
}

func (s *KeeperTestSuite) TestTransferRecipient_CreatesTokenAccount() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = true
	stream := s.env.CreateStream(s.T(), "tr-rta", terms, 0)

	newRecipient := s.env.Wallet("tr-rta-new")
	newTokens := s.env.Tokens.CanonicalAddress(newRecipient, stream.Mint)
	s.Require().True(s.env.Ref(newTokens, false, false).IsEmpty())

	walletBefore := s.env.Ref(stream.Recipient, false, false).Balance()
	err := s.env.Keeper.TransferRecipient(stream.TransferAccounts(stream.Recipient, newRecipient))
	s.Require().NoError(err)

	acct, err := s.env.Tokens.Unpack(s.env.Ref(newTokens, false, false))
	s.Require().NoError(err)
	s.Require().Equal(newRecipient, acct.Owner)

	// The authorized wallet funded the new account's storage deposit.
	s.Require().Less(s.env.Ref(stream.Recipient, false, false).Balance(), walletBefore)
}

func (s *KeeperTestSuite) TestTransferRecipient_NotTransferable() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = false
	terms.TransferableBySender = false
	stream := s.env.CreateStream(s.T(), "tr-locked", terms, 0)

	err := s.env.Keeper.TransferRecipient(
		stream.TransferAccounts(stream.Recipient, s.env.Wallet("tr-locked-new")))
	s.Require().ErrorIs(err, types.ErrTransferNotAllowed)
}

func (s *KeeperTestSuite) TestTransferRecipient_WrongRole() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = true
	terms.TransferableBySender = false
	stream := s.env.CreateStream(s.T(), "tr-role", terms, 0)

	// Sender may not transfer when only the recipient is permitted.
	err := s.env.Keeper.TransferRecipient(
		stream.TransferAccounts(stream.Sender, s.env.Wallet("tr-role-new")))
	s.Require().ErrorIs(err, types.ErrTransferNotAllowed)
}

func (s *KeeperTestSuite) TestTransferRecipient_StrangerRejected() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = true
	terms.TransferableBySender = true
	stream := s.env.CreateStream(s.T(), "tr-stranger", terms, 0)

	err := s.env.Keeper.TransferRecipient(
		stream.TransferAccounts(s.env.Wallet("tr-stranger-wallet"), s.env.Wallet("tr-stranger-new")))
	s.Require().ErrorIs(err, types.ErrTransferNotAllowed)
}

func (s *KeeperTestSuite) TestTransferRecipient_MissingSignature() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = true
	stream := s.env.CreateStream(s.T(), "tr-nosig", terms, 0)

	acc := stream.TransferAccounts(stream.Recipient, s.env.Wallet("tr-nosig-new"))
	acc.AuthorizedWallet.Signer = false
	err := s.env.Keeper.TransferRecipient(acc)
	s.Require().ErrorIs(err, types.ErrMissingSignature)
}

func (s *KeeperTestSuite) TestTransferRecipient_NonCanonicalTokenAccount() {
	terms := s.linearTerms()
	terms.TransferableByRecipient = true
	stream := s.env.CreateStream(s.T(), "tr-badrta", terms, 0)

	acc := stream.TransferAccounts(stream.Recipient, s.env.Wallet("tr-badrta-new"))
	acc.NewRecipientTokens = s.env.Ref(stream.RecipientTokens, true, false)
	err := s.env.Keeper.TransferRecipient(acc)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}
