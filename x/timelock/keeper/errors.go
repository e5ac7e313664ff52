package keeper

import (
	"errors"

	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

// wrapTokenErr maps token-ledger failures onto the module's caller-visible
// error codes.
func wrapTokenErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, token.ErrMintMismatch):
		return types.ErrMintMismatch.Wrap(err.Error())
	case errors.Is(err, token.ErrInsufficientFunds):
		return types.ErrInsufficientFunds.Wrap(err.Error())
	case errors.Is(err, token.ErrNotTokenAccount),
		errors.Is(err, token.ErrMalformedAccount),
		errors.Is(err, token.ErrMalformedMint),
		errors.Is(err, token.ErrUnauthorized):
		return types.ErrInvalidAccountData.Wrap(err.Error())
	default:
		return types.ErrInvalidAccountData.Wrap(err.Error())
	}
}
