package keeper

import (
	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

// Withdraw releases unlocked tokens to the recipient. amount zero withdraws
// everything currently available. The withdrawing authority must be the
// recipient regardless of the record's WithdrawalPublic flag; that flag is
// recorded but not enforced here.
func (k Keeper) Withdraw(acc types.WithdrawAccounts, amount uint64) error {
	k.Logger().Info("withdrawing from token stream", "record", acc.Record.Addr)

	if err := k.requireInitialized(acc.Record, acc.EscrowTokens); err != nil {
		return err
	}
	if err := requireWritableData(acc.Recipient, acc.RecipientTokens, acc.Record, acc.EscrowTokens); err != nil {
		return err
	}

	auth, err := k.requireEscrowBinding(acc.Record, acc.EscrowTokens)
	if err != nil {
		return err
	}
	if err := k.requireCanonicalTokenAccount(acc.RecipientTokens, acc.Recipient.Addr, acc.Mint.Addr); err != nil {
		return err
	}
	if acc.Authority.Addr != acc.Recipient.Addr {
		return types.ErrInvalidAccountData.Wrapf("withdraw authority %s is not the recipient %s",
			acc.Authority.Addr, acc.Recipient.Addr)
	}
	if err := requireSigner(acc.Authority); err != nil {
		return err
	}

	record, err := loadRecord(acc.Record)
	if err != nil {
		return err
	}
	mint, err := k.tokens.UnpackMint(acc.Mint)
	if err != nil {
		return wrapTokenErr(err)
	}

	if err := requireMatch(acc.Recipient, record.Recipient, "recipient"); err != nil {
		return err
	}
	if err := requireMatch(acc.RecipientTokens, record.RecipientTokens, "recipient token"); err != nil {
		return err
	}
	if err := requireMatch(acc.Mint, record.Mint, "mint"); err != nil {
		return err
	}
	if err := requireMatch(acc.EscrowTokens, record.EscrowTokens, "escrow"); err != nil {
		return err
	}

	now := k.substrate.Now()
	available, err := record.Available(now)
	if err != nil {
		return err
	}
	if amount > available {
		return types.ErrInvalidArgument.Wrapf("requested %d exceeds available %d", amount, available)
	}
	requested := amount
	if amount == 0 {
		requested = available
	}

	if err := k.tokens.Transfer(acc.EscrowTokens, acc.RecipientTokens, token.DerivedAuth(auth), requested); err != nil {
		return wrapTokenErr(err)
	}

	record.WithdrawnAmount += requested
	record.LastWithdrawnAt = now
	if err := storeRecord(acc.Record, record); err != nil {
		return err
	}

	if record.WithdrawnAmount == record.Terms.DepositedAmount {
		if !acc.Sender.Writable || acc.Sender.Addr != record.Sender {
			return types.ErrInvalidAccountData.Wrapf("sender %s cannot receive the escrow storage deposit",
				acc.Sender.Addr)
		}
		refund := acc.EscrowTokens.Balance()
		k.Logger().Info("stream fully withdrawn, closing escrow",
			"refund", refund, "sender", acc.Sender.Addr)
		if err := k.tokens.CloseAccount(acc.EscrowTokens, acc.Sender, token.DerivedAuth(auth)); err != nil {
			return wrapTokenErr(err)
		}
	}

	k.events.Emit(types.EventTypeWithdraw,
		types.AttributeKeyRecord, acc.Record.Addr.String(),
		types.AttributeKeyRecipient, acc.Recipient.Addr.String(),
		types.AttributeKeyAmount, types.EncodeBase10(requested, int(mint.Decimals)),
	)
	k.Logger().Info("withdrawn from token stream",
		"amount", types.EncodeBase10(requested, int(mint.Decimals)),
		"remaining", types.EncodeBase10(record.Terms.DepositedAmount-record.WithdrawnAmount, int(mint.Decimals)),
	)

	return nil
}
