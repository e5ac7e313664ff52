package keeper

import (
	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

// Create escrows the deposit and persists a fresh stream record. The record
// and escrow slots must be empty; the sender funds the deposit, the record's
// storage, the escrow account, and the recipient's token account if it does
// not exist yet.
func (k Keeper) Create(acc types.CreateAccounts, terms types.StreamTerms) error {
	k.Logger().Info("initializing token stream", "record", acc.Record.Addr, "sender", acc.Sender.Addr)

	if err := requireEmpty(acc.EscrowTokens, acc.Record); err != nil {
		return err
	}
	if err := requireWritable(acc.Sender, acc.SenderTokens, acc.Recipient,
		acc.RecipientTokens, acc.Record, acc.EscrowTokens); err != nil {
		return err
	}

	auth, err := k.requireEscrowBinding(acc.Record, acc.EscrowTokens)
	if err != nil {
		return err
	}
	if err := k.requireCanonicalTokenAccount(acc.RecipientTokens, acc.Recipient.Addr, acc.Mint.Addr); err != nil {
		return err
	}

	if err := requireSigner(acc.Sender); err != nil {
		return err
	}
	if err := requireSigner(acc.Record); err != nil {
		return err
	}

	senderTokens, err := k.tokens.Unpack(acc.SenderTokens)
	if err != nil {
		return wrapTokenErr(err)
	}
	mint, err := k.tokens.UnpackMint(acc.Mint)
	if err != nil {
		return wrapTokenErr(err)
	}
	if senderTokens.Mint != acc.Mint.Addr {
		return types.ErrMintMismatch.Wrapf("sender token account holds %s, not %s",
			senderTokens.Mint, acc.Mint.Addr)
	}

	now := k.substrate.Now()
	if err := terms.Validate(now); err != nil {
		return err
	}

	record := types.NewStreamRecord(
		now,
		acc.Sender.Addr, acc.SenderTokens.Addr,
		acc.Recipient.Addr, acc.RecipientTokens.Addr,
		acc.Mint.Addr, acc.EscrowTokens.Addr,
		terms,
	)
	if terms.DepositedAmount < terms.TotalAmount || terms.ReleaseRate > 0 {
		record.ClosableAt = record.Closable()
		k.Logger().Info("stream closable at", "closable_at", record.ClosableAt)
	}

	recordSize := uint64(types.PaddedRecordLen(record))
	recordRent := k.substrate.MinimumBalance(recordSize)
	tokensRent := k.substrate.MinimumBalance(token.AccountLen)
	if acc.RecipientTokens.IsEmpty() {
		tokensRent += k.substrate.MinimumBalance(token.AccountLen)
	}
	if acc.Sender.Balance() < recordRent+tokensRent {
		return types.ErrInsufficientFunds.Wrapf("sender %s cannot cover storage deposits", acc.Sender.Addr)
	}
	if senderTokens.Amount < terms.DepositedAmount {
		return types.ErrInsufficientFunds.Wrapf("sender token balance %d below deposit %d",
			senderTokens.Amount, terms.DepositedAmount)
	}

	if acc.RecipientTokens.IsEmpty() {
		k.Logger().Info("initializing recipient's canonical token account", "recipient", acc.Recipient.Addr)
		if err := k.tokens.CreateCanonicalAccount(acc.Sender, acc.RecipientTokens, acc.Recipient, acc.Mint); err != nil {
			return wrapTokenErr(err)
		}
	}

	if err := k.substrate.CreateAccount(acc.Sender, acc.Record, recordSize, k.programID); err != nil {
		return types.ErrInvalidAccountData.Wrapf("creating record account: %s", err)
	}
	if err := k.substrate.CreateDerivedAccount(acc.Sender, acc.EscrowTokens, token.AccountLen, k.tokens.ID(), auth); err != nil {
		return types.ErrInvalidAccountData.Wrapf("creating escrow account: %s", err)
	}
	if err := k.tokens.InitializeAccount(acc.EscrowTokens, acc.Mint, acc.EscrowTokens.Addr); err != nil {
		return wrapTokenErr(err)
	}

	if err := k.tokens.Transfer(acc.SenderTokens, acc.EscrowTokens, token.SignerAuth(acc.Sender), terms.DepositedAmount); err != nil {
		return wrapTokenErr(err)
	}

	if err := storeRecord(acc.Record, record); err != nil {
		return err
	}

	k.events.Emit(types.EventTypeCreateStream,
		types.AttributeKeySender, acc.Sender.Addr.String(),
		types.AttributeKeyRecipient, acc.Recipient.Addr.String(),
		types.AttributeKeyRecord, acc.Record.Addr.String(),
		types.AttributeKeyEscrow, acc.EscrowTokens.Addr.String(),
		types.AttributeKeyMint, acc.Mint.Addr.String(),
		types.AttributeKeyAmount, types.EncodeBase10(terms.DepositedAmount, int(mint.Decimals)),
	)
	k.Logger().Info("token stream initialized",
		"amount", types.EncodeBase10(terms.DepositedAmount, int(mint.Decimals)),
		"recipient", acc.Recipient.Addr,
		"escrow", acc.EscrowTokens.Addr,
		"duration", types.PrettyTime(terms.EndTime-terms.StartTime),
	)
	if terms.Cliff > 0 && terms.CliffAmount > 0 {
		k.Logger().Info("stream has a cliff", "cliff", types.PrettyTime(terms.Cliff))
	}

	return nil
}
