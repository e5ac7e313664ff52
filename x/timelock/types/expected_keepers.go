package types

import (
	"github.com/streampay-labs/timelock/ledger"
	"github.com/streampay-labs/timelock/token"
)

// SubstrateKeeper defines the expected interface of the hosting ledger's
// storage substrate: account creation, rent math, and the wall clock.
type SubstrateKeeper interface {
	Now() uint64
	MinimumBalance(size uint64) uint64
	CreateAccount(funder, target *ledger.AccountRef, size uint64, owner ledger.Address) error
	CreateDerivedAccount(funder, target *ledger.AccountRef, size uint64, owner ledger.Address, auth ledger.Authority) error
}

// TokenKeeper defines the expected interface of the external token ledger.
type TokenKeeper interface {
	ID() ledger.Address
	Unpack(ref *ledger.AccountRef) (token.Account, error)
	UnpackMint(ref *ledger.AccountRef) (token.Mint, error)
	Transfer(from, to *ledger.AccountRef, auth token.Auth, amount uint64) error
	InitializeAccount(target, mint *ledger.AccountRef, owner ledger.Address) error
	CloseAccount(target, refundTo *ledger.AccountRef, auth token.Auth) error
	CanonicalAddress(owner, mint ledger.Address) ledger.Address
	CreateCanonicalAccount(funder, target *ledger.AccountRef, owner, mint *ledger.AccountRef) error
}

// EventEmitter receives transition events. Transitions are observed by
// rereading the record, so emission is advisory; the keeper ships a no-op
// emitter for hosts without an event bus.
type EventEmitter interface {
	Emit(eventType string, attrs ...string)
}

// NoopEmitter discards all events.
type NoopEmitter struct{}

func (NoopEmitter) Emit(string, ...string) {}
