package keeper

import (
	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

// Cancel is the designated exit path: it pays the recipient whatever is
// unlocked, returns the rest of the deposit to the sender, and destroys the
// escrow account. Before the stream's closable time this is an early
// cancellation and only the sender may authorize it; after that the remaining
// funds are all unlocked anyway and no extra authorization is needed.
//
// Authorization depends only on timing; the CancelableBySender and
// CancelableByRecipient flags are recorded but not consulted.
func (k Keeper) Cancel(acc types.CancelAccounts) error {
	k.Logger().Info("canceling token stream", "record", acc.Record.Addr)

	if err := k.requireInitialized(acc.Record, acc.EscrowTokens); err != nil {
		return err
	}
	if err := requireWritableData(acc.Sender, acc.SenderTokens, acc.Recipient,
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

	record, err := loadRecord(acc.Record)
	if err != nil {
		return err
	}
	mint, err := k.tokens.UnpackMint(acc.Mint)
	if err != nil {
		return wrapTokenErr(err)
	}

	now := k.substrate.Now()
	early := now < record.ClosableAt
	k.Logger().Info("cancel timing", "now", now, "closable_at", record.ClosableAt, "early", early)
	if early {
		if acc.Authority.Addr != acc.Sender.Addr {
			return types.ErrInvalidAccountData.Wrapf("early cancel authority %s is not the sender %s",
				acc.Authority.Addr, acc.Sender.Addr)
		}
		if err := requireSigner(acc.Authority); err != nil {
			return err
		}
	}

	if err := requireMatch(acc.Sender, record.Sender, "sender"); err != nil {
		return err
	}
	if err := requireMatch(acc.SenderTokens, record.SenderTokens, "sender token"); err != nil {
		return err
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

	available, err := record.Available(now)
	if err != nil {
		return err
	}
	if err := k.tokens.Transfer(acc.EscrowTokens, acc.RecipientTokens, token.DerivedAuth(auth), available); err != nil {
		return wrapTokenErr(err)
	}

	record.WithdrawnAmount += available
	remains := record.Terms.DepositedAmount - record.WithdrawnAmount
	if remains > 0 {
		if err := k.tokens.Transfer(acc.EscrowTokens, acc.SenderTokens, token.DerivedAuth(auth), remains); err != nil {
			return wrapTokenErr(err)
		}
	}

	refund := acc.EscrowTokens.Balance()
	if err := k.tokens.CloseAccount(acc.EscrowTokens, acc.Sender, token.DerivedAuth(auth)); err != nil {
		return wrapTokenErr(err)
	}

	if early {
		record.LastWithdrawnAt = now
		record.CanceledAt = now
	}
	if err := storeRecord(acc.Record, record); err != nil {
		return err
	}

	k.events.Emit(types.EventTypeCancelStream,
		types.AttributeKeyRecord, acc.Record.Addr.String(),
		types.AttributeKeyRecipient, acc.Recipient.Addr.String(),
		types.AttributeKeySender, acc.Sender.Addr.String(),
		types.AttributeKeyAmount, types.EncodeBase10(available, int(mint.Decimals)),
		types.AttributeKeyReturned, types.EncodeBase10(remains, int(mint.Decimals)),
	)
	k.Logger().Info("token stream canceled",
		"transferred", types.EncodeBase10(available, int(mint.Decimals)),
		"returned", types.EncodeBase10(remains, int(mint.Decimals)),
		"refunded_deposit", refund,
	)

	return nil
}
