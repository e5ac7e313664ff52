package keeper_test

import (
	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/testenv"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

func (s *KeeperTestSuite) TestCreate_Success() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create", terms, 0)

	err := s.env.Keeper.Create(stream.CreateAccounts(), terms)
	s.Require().NoError(err)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(types.ProgramVersion), record.Version)
	s.Require().Equal(uint64(50), record.CreatedAt)
	s.Require().Equal(stream.Sender, record.Sender)
	s.Require().Equal(stream.Recipient, record.Recipient)
	s.Require().Equal(stream.Escrow, record.EscrowTokens)
	s.Require().Equal(terms, record.Terms)
	s.Require().Equal(terms.EndTime, record.ClosableAt,
		"a fully funded zero-rate stream is closable at its end time")

	s.Require().Equal(uint64(1000), s.env.TokenBalance(stream.Escrow))
	s.Require().Equal(uint64(0), s.env.TokenBalance(stream.SenderTokens))
	s.requireEscrowInvariant(stream)

	// The record account is owned by the program and padded to alignment.
	recordRef := s.env.Ref(stream.Record, false, false)
	s.Require().Equal(s.env.ProgramID, recordRef.Owner())
	s.Require().Zero(len(recordRef.Data()) % types.RecordAlign)

	s.Require().Equal(types.EventTypeCreateStream, s.env.Events.Events[0].Type)
}

func (s *KeeperTestSuite) TestCreate_CreatesRecipientTokenAccount() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-rta", terms, 0)

	s.Require().True(s.env.Ref(stream.RecipientTokens, false, false).IsEmpty())

	err := s.env.Keeper.Create(stream.CreateAccounts(), terms)
	s.Require().NoError(err)

	acct, err := s.env.Tokens.Unpack(s.env.Ref(stream.RecipientTokens, false, false))
	s.Require().NoError(err)
	s.Require().Equal(stream.Recipient, acct.Owner)
	s.Require().Equal(stream.Mint, acct.Mint)
	s.Require().Zero(acct.Amount)
}

func (s *KeeperTestSuite) TestCreate_PartiallyFundedRecomputesClosable() {
	terms := s.linearTerms()
	terms.DepositedAmount = 500
	stream := s.env.NewStream(s.T(), "create-partial", terms, 0)

	err := s.env.Keeper.Create(stream.CreateAccounts(), terms)
	s.Require().NoError(err)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(151), record.ClosableAt)
}

func (s *KeeperTestSuite) TestCreate_FixedRateRecomputesClosable() {
	terms := s.linearTerms()
	terms.ReleaseRate = 100
	stream := s.env.NewStream(s.T(), "create-rate", terms, 0)

	err := s.env.Keeper.Create(stream.CreateAccounts(), terms)
	s.Require().NoError(err)

	record := s.env.LoadRecord(s.T(), stream.Record)
	s.Require().Equal(uint64(201), record.ClosableAt)
}

func (s *KeeperTestSuite) TestCreate_RecordAlreadyInitialized() {
	terms := s.linearTerms()
	stream := s.env.CreateStream(s.T(), "create-dup", terms, 1000)

	err := s.env.Keeper.Create(stream.CreateAccounts(), terms)
	s.Require().ErrorIs(err, types.ErrAlreadyInitialized)
}

func (s *KeeperTestSuite) TestCreate_NotWritable() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-ro", terms, 0)

	acc := stream.CreateAccounts()
	acc.EscrowTokens.Writable = false
	err := s.env.Keeper.Create(acc, terms)
	s.Require().ErrorIs(err, types.ErrAccountsNotWritable)
}

func (s *KeeperTestSuite) TestCreate_MissingSenderSignature() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-nosig", terms, 0)

	acc := stream.CreateAccounts()
	acc.Sender.Signer = false
	err := s.env.Keeper.Create(acc, terms)
	s.Require().ErrorIs(err, types.ErrMissingSignature)
}

func (s *KeeperTestSuite) TestCreate_MissingRecordSignature() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-norecsig", terms, 0)

	acc := stream.CreateAccounts()
	acc.Record.Signer = false
	err := s.env.Keeper.Create(acc, terms)
	s.Require().ErrorIs(err, types.ErrMissingSignature)
}

func (s *KeeperTestSuite) TestCreate_EscrowSubstitutionRejected() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-sub", terms, 0)

	acc := stream.CreateAccounts()
	acc.EscrowTokens = s.env.Ref(testenv.Addr("some-other-escrow"), true, false)
	err := s.env.Keeper.Create(acc, terms)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}

func (s *KeeperTestSuite) TestCreate_NonCanonicalRecipientTokens() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-badrta", terms, 0)

	acc := stream.CreateAccounts()
	acc.RecipientTokens = s.env.Ref(testenv.Addr("not-canonical"), true, false)
	err := s.env.Keeper.Create(acc, terms)
	s.Require().ErrorIs(err, types.ErrInvalidAccountData)
}

func (s *KeeperTestSuite) TestCreate_BadTimestamps() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-late", terms, 0)

	s.env.Ledger.SetNow(150) // stream must start in the future
	err := s.env.Keeper.Create(stream.CreateAccounts(), terms)
	s.Require().ErrorIs(err, types.ErrInvalidArgument)
}

func (s *KeeperTestSuite) TestCreate_InsufficientTokens() {
	terms := s.linearTerms()
	terms.DepositedAmount = 1000
	stream := s.env.NewStream(s.T(), "create-poor", terms, 0)

	// Drain most of the sender's token balance before creating.
	drain := s.env.TokenAccount(s.T(), s.env.Wallet("create-poor-sink"), 0)
	err := s.env.Tokens.Transfer(
		s.env.Ref(stream.SenderTokens, true, false),
		s.env.Ref(drain, true, false),
		token.SignerAuth(s.env.Ref(stream.Sender, false, true)), 600)
	s.Require().NoError(err)

	err = s.env.Keeper.Create(stream.CreateAccounts(), terms)
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)
}

func (s *KeeperTestSuite) TestCreate_InsufficientStorageDeposit() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-norent", terms, 0)

	// Leave the sender with a native balance below the combined deposits.
	sender := s.env.Ledger.Account(stream.Sender)
	sender.Balance = 10

	err := s.env.Keeper.Create(stream.CreateAccounts(), terms)
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)
}

func (s *KeeperTestSuite) TestCreate_MintMismatch() {
	terms := s.linearTerms()
	stream := s.env.NewStream(s.T(), "create-mint", terms, 0)

	otherMint := testenv.Addr("other-mint")
	err := s.env.Tokens.CreateMint(s.env.Ref(s.env.Wallet("minter"), true, true),
		s.env.Ref(otherMint, true, false), 6, 0)
	s.Require().NoError(err)

	acc := stream.CreateAccounts()
	acc.Mint = s.env.Ref(otherMint, false, false)
	// Recipient tokens must stay canonical for the substituted mint so the
	// check under test is the sender account's mint.
	acc.RecipientTokens = s.env.Ref(s.env.Tokens.CanonicalAddress(stream.Recipient, otherMint), true, false)
	err = s.env.Keeper.Create(acc, terms)
	s.Require().ErrorIs(err, types.ErrMintMismatch)
}
