package ledger

import "errors"

var (
	ErrNoAccount           = errors.New("no account at address")
	ErrAccountExists       = errors.New("account already exists at address")
	ErrInsufficientBalance = errors.New("insufficient native balance")
	ErrDataTooLarge        = errors.New("data exceeds allocated account size")
	ErrBadAuthority        = errors.New("derived authority does not cover address")
)
