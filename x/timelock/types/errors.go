package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// x/timelock module sentinel errors. Every failure aborts the whole
// transition; the host rolls back and surfaces the code verbatim.
var (
	ErrAlreadyInitialized   = sdkerrors.Register(ModuleName, 1100, "account already initialized")
	ErrAccountsNotWritable  = sdkerrors.Register(ModuleName, 1101, "accounts not writable")
	ErrInvalidAccountData   = sdkerrors.Register(ModuleName, 1102, "invalid account data")
	ErrMissingSignature     = sdkerrors.Register(ModuleName, 1103, "missing required signature")
	ErrUninitializedAccount = sdkerrors.Register(ModuleName, 1104, "uninitialized account")
	ErrInvalidMetadata      = sdkerrors.Register(ModuleName, 1105, "stream record failed to decode")
	ErrMintMismatch         = sdkerrors.Register(ModuleName, 1106, "mint mismatch")
	ErrInsufficientFunds    = sdkerrors.Register(ModuleName, 1107, "insufficient funds")
	ErrInvalidArgument      = sdkerrors.Register(ModuleName, 1108, "invalid argument")
	ErrStreamClosed         = sdkerrors.Register(ModuleName, 1109, "stream closed")
	ErrTransferNotAllowed   = sdkerrors.Register(ModuleName, 1110, "transfer not allowed")
	ErrInvalidInstruction   = sdkerrors.Register(ModuleName, 1111, "invalid instruction")
)
