package types

import (
	"github.com/streampay-labs/timelock/ledger"
)

// Per-operation account sets. The boundary adapter binds caller-supplied
// references to these roles strictly by position; handlers never look past
// them.

type CreateAccounts struct {
	Sender          *ledger.AccountRef
	SenderTokens    *ledger.AccountRef
	Recipient       *ledger.AccountRef
	RecipientTokens *ledger.AccountRef
	Record          *ledger.AccountRef
	EscrowTokens    *ledger.AccountRef
	Mint            *ledger.AccountRef
}

type WithdrawAccounts struct {
	Authority       *ledger.AccountRef
	Sender          *ledger.AccountRef
	Recipient       *ledger.AccountRef
	RecipientTokens *ledger.AccountRef
	Record          *ledger.AccountRef
	EscrowTokens    *ledger.AccountRef
	Mint            *ledger.AccountRef
}

type CancelAccounts struct {
	Authority       *ledger.AccountRef
	Sender          *ledger.AccountRef
	SenderTokens    *ledger.AccountRef
	Recipient       *ledger.AccountRef
	RecipientTokens *ledger.AccountRef
	Record          *ledger.AccountRef
	EscrowTokens    *ledger.AccountRef
	Mint            *ledger.AccountRef
}

type TransferAccounts struct {
	AuthorizedWallet   *ledger.AccountRef
	NewRecipient       *ledger.AccountRef
	NewRecipientTokens *ledger.AccountRef
	Record             *ledger.AccountRef
	EscrowTokens       *ledger.AccountRef
	Mint               *ledger.AccountRef
}

type TopUpAccounts struct {
	Sender       *ledger.AccountRef
	SenderTokens *ledger.AccountRef
	Record       *ledger.AccountRef
	EscrowTokens *ledger.AccountRef
	Mint         *ledger.AccountRef
}
