package keeper

import (
	"strconv"

	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

// TopUp moves additional tokens from the sender into the escrow and extends
// the stream's closable time accordingly. A stream that is already fully
// vested cannot be topped up.
func (k Keeper) TopUp(acc types.TopUpAccounts, amount uint64) error {
	k.Logger().Info("topping up token stream", "record", acc.Record.Addr, "amount", amount)

	if err := k.requireInitialized(acc.Record, acc.EscrowTokens); err != nil {
		return err
	}
	if err := requireWritable(acc.Sender, acc.SenderTokens, acc.Record, acc.EscrowTokens); err != nil {
		return err
	}
	if _, err := k.requireEscrowBinding(acc.Record, acc.EscrowTokens); err != nil {
		return err
	}
	if err := requireSigner(acc.Sender); err != nil {
		return err
	}

	senderTokens, err := k.tokens.Unpack(acc.SenderTokens)
	if err != nil {
		return wrapTokenErr(err)
	}
	if senderTokens.Mint != acc.Mint.Addr {
		return types.ErrMintMismatch.Wrapf("sender token account holds %s, not %s",
			senderTokens.Mint, acc.Mint.Addr)
	}
	if amount == 0 {
		return types.ErrInvalidArgument.Wrap("top-up amount must be positive")
	}

	record, err := loadRecord(acc.Record)
	if err != nil {
		return err
	}
	if err := requireMatch(acc.Mint, record.Mint, "mint"); err != nil {
		return err
	}
	if err := requireMatch(acc.EscrowTokens, record.EscrowTokens, "escrow"); err != nil {
		return err
	}

	now := k.substrate.Now()
	if now >= record.Closable() {
		return types.ErrStreamClosed.Wrapf("stream fully vested at %d, now %d", record.Closable(), now)
	}

	if err := k.tokens.Transfer(acc.SenderTokens, acc.EscrowTokens, token.SignerAuth(acc.Sender), amount); err != nil {
		return wrapTokenErr(err)
	}

	record.Terms.DepositedAmount += amount
	record.ClosableAt = record.Closable()
	if err := storeRecord(acc.Record, record); err != nil {
		return err
	}

	mint, err := k.tokens.UnpackMint(acc.Mint)
	if err != nil {
		return wrapTokenErr(err)
	}

	k.events.Emit(types.EventTypeTopUp,
		types.AttributeKeyRecord, acc.Record.Addr.String(),
		types.AttributeKeySender, acc.Sender.Addr.String(),
		types.AttributeKeyAmount, types.EncodeBase10(amount, int(mint.Decimals)),
		types.AttributeKeyClosableAt, strconv.FormatUint(record.ClosableAt, 10),
	)
	k.Logger().Info("token stream topped up",
		"amount", types.EncodeBase10(amount, int(mint.Decimals)),
		"escrow", acc.EscrowTokens.Addr,
		"closable_at", record.ClosableAt,
	)

	return nil
}
