package types

// Event types
const (
	EventTypeCreateStream      = "create_stream"
	EventTypeWithdraw          = "withdraw_stream"
	EventTypeCancelStream      = "cancel_stream"
	EventTypeTransferRecipient = "transfer_recipient"
	EventTypeTopUp             = "top_up_stream"
)

// Event attribute keys
const (
	AttributeKeySender       = "sender"
	AttributeKeyRecipient    = "recipient"
	AttributeKeyNewRecipient = "new_recipient"
	AttributeKeyMint         = "mint"
	AttributeKeyEscrow       = "escrow"
	AttributeKeyRecord       = "record"
	AttributeKeyAmount       = "amount"
	AttributeKeyReturned     = "returned"
	AttributeKeyClosableAt   = "closable_at"
)
