package keeper

import (
	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

// TransferRecipient rebinds the stream to a new recipient. No tokens move;
// the record's recipient identities are overwritten. The caller must be the
// current recipient or the sender, and the matching transferable flag must
// have been set at creation.
func (k Keeper) TransferRecipient(acc types.TransferAccounts) error {
	k.Logger().Info("transferring stream recipient", "record", acc.Record.Addr)

	if err := k.requireInitialized(acc.Record, acc.EscrowTokens); err != nil {
		return err
	}
	if err := requireSigner(acc.AuthorizedWallet); err != nil {
		return err
	}
	if err := requireWritableData(acc.Record, acc.AuthorizedWallet, acc.NewRecipientTokens); err != nil {
		return err
	}

	record, err := loadRecord(acc.Record)
	if err != nil {
		return err
	}

	if !record.Terms.TransferableByRecipient && !record.Terms.TransferableBySender {
		return types.ErrTransferNotAllowed.Wrap("stream is not transferable")
	}
	authorized := false
	if record.Terms.TransferableByRecipient && acc.AuthorizedWallet.Addr == record.Recipient {
		authorized = true
	}
	if record.Terms.TransferableBySender && acc.AuthorizedWallet.Addr == record.Sender {
		authorized = true
	}
	if !authorized {
		return types.ErrTransferNotAllowed.Wrapf("wallet %s may not transfer this stream",
			acc.AuthorizedWallet.Addr)
	}

	if _, err := k.requireEscrowBinding(acc.Record, acc.EscrowTokens); err != nil {
		return err
	}
	if err := requireMatch(acc.Mint, record.Mint, "mint"); err != nil {
		return err
	}
	if err := requireMatch(acc.EscrowTokens, record.EscrowTokens, "escrow"); err != nil {
		return err
	}
	if err := k.requireCanonicalTokenAccount(acc.NewRecipientTokens, acc.NewRecipient.Addr, acc.Mint.Addr); err != nil {
		return err
	}

	if acc.NewRecipientTokens.IsEmpty() {
		tokensRent := k.substrate.MinimumBalance(token.AccountLen)
		if acc.AuthorizedWallet.Balance() < tokensRent {
			return types.ErrInsufficientFunds.Wrapf("wallet %s cannot cover the token account deposit",
				acc.AuthorizedWallet.Addr)
		}
		k.Logger().Info("initializing new recipient's canonical token account",
			"new_recipient", acc.NewRecipient.Addr)
		if err := k.tokens.CreateCanonicalAccount(acc.AuthorizedWallet, acc.NewRecipientTokens,
			acc.NewRecipient, acc.Mint); err != nil {
			return wrapTokenErr(err)
		}
	}

	record.Recipient = acc.NewRecipient.Addr
	record.RecipientTokens = acc.NewRecipientTokens.Addr
	if err := storeRecord(acc.Record, record); err != nil {
		return err
	}

	k.events.Emit(types.EventTypeTransferRecipient,
		types.AttributeKeyRecord, acc.Record.Addr.String(),
		types.AttributeKeyNewRecipient, acc.NewRecipient.Addr.String(),
	)
	k.Logger().Info("stream recipient transferred",
		"record", acc.Record.Addr, "new_recipient", acc.NewRecipient.Addr)

	return nil
}
