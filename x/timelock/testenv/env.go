// Package testenv provides a self-contained in-memory host for exercising the
// timelock program: a ledger substrate, a token program with one mint, and a
// wired keeper. Tests drive real collaborators instead of mocks so the escrow
// balance invariants can be checked end to end.
package testenv

import (
	"testing"

	"cosmossdk.io/log"
	"golang.org/x/crypto/blake2b"

	"github.com/streampay-labs/timelock/ledger"
	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/keeper"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

const (
	// WalletBalance is the native balance every fixture wallet starts with,
	// comfortably above any storage deposit the handlers charge.
	WalletBalance = 100_000_000

	// MintDecimals is the fixture mint's decimal count.
	MintDecimals = 6
)

// Addr derives a deterministic test address from a name.
func Addr(name string) ledger.Address {
	var a ledger.Address
	sum := blake2b.Sum256([]byte("testenv/" + name))
	copy(a[:], sum[:])
	return a
}

// Env is one wired instance of the program and its collaborators.
type Env struct {
	Ledger *ledger.InMemory
	Tokens *token.Program
	Keeper keeper.Keeper
	Events *Emitter

	ProgramID ledger.Address
	Mint      ledger.Address

	faucet ledger.Address
}

// Emitter records emitted events for assertions.
type Emitter struct {
	Events []RecordedEvent
}

type RecordedEvent struct {
	Type  string
	Attrs []string
}

func (e *Emitter) Emit(eventType string, attrs ...string) {
	e.Events = append(e.Events, RecordedEvent{Type: eventType, Attrs: attrs})
}

// New builds a fresh environment with a funded faucet and one mint.
func New(tb testing.TB) *Env {
	tb.Helper()

	l := ledger.NewInMemory()
	programID := Addr("timelock-program")
	tokenID := Addr("token-program")
	tokens := token.NewProgram(tokenID, l)
	events := &Emitter{}

	env := &Env{
		Ledger:    l,
		Tokens:    tokens,
		Events:    events,
		ProgramID: programID,
		Mint:      Addr("mint"),
		faucet:    Addr("faucet"),
	}
	env.Keeper = keeper.NewKeeper(programID, log.NewNopLogger(), l, tokens, events)

	l.Fund(env.faucet, WalletBalance*100)
	if err := tokens.CreateMint(env.Ref(env.faucet, true, true), env.Ref(env.Mint, true, false), MintDecimals, 0); err != nil {
		tb.Fatalf("creating fixture mint: %v", err)
	}
	return env
}

// Ref binds an account reference with explicit flags.
func (e *Env) Ref(addr ledger.Address, writable, signer bool) *ledger.AccountRef {
	return e.Ledger.Ref(addr, writable, signer)
}

// Wallet funds a fresh deterministic wallet.
func (e *Env) Wallet(name string) ledger.Address {
	addr := Addr(name)
	e.Ledger.Fund(addr, WalletBalance)
	return addr
}

// TokenAccount creates the canonical token account for owner and mints the
// given balance into it.
func (e *Env) TokenAccount(tb testing.TB, owner ledger.Address, amount uint64) ledger.Address {
	tb.Helper()
	addr := e.Tokens.CanonicalAddress(owner, e.Mint)
	target := e.Ref(addr, true, false)
	if err := e.Tokens.CreateCanonicalAccount(e.Ref(e.faucet, true, true), target,
		e.Ref(owner, false, false), e.Ref(e.Mint, false, false)); err != nil {
		tb.Fatalf("creating token account: %v", err)
	}
	if amount > 0 {
		if err := e.Tokens.MintTo(target, amount); err != nil {
			tb.Fatalf("minting fixture balance: %v", err)
		}
	}
	return addr
}

// TokenBalance reads a token account's balance, zero if absent.
func (e *Env) TokenBalance(addr ledger.Address) uint64 {
	acct, err := e.Tokens.Unpack(e.Ref(addr, false, false))
	if err != nil {
		return 0
	}
	return acct.Amount
}

// LoadRecord decodes the stream record stored at addr.
func (e *Env) LoadRecord(tb testing.TB, addr ledger.Address) types.StreamRecord {
	tb.Helper()
	record, err := types.UnmarshalRecord(e.Ref(addr, false, false).Data())
	if err != nil {
		tb.Fatalf("decoding record at %s: %v", addr, err)
	}
	return record
}

// Stream is a created fixture stream with all its bound addresses.
type Stream struct {
	env *Env

	Sender          ledger.Address
	SenderTokens    ledger.Address
	Recipient       ledger.Address
	RecipientTokens ledger.Address
	Record          ledger.Address
	Escrow          ledger.Address
	Mint            ledger.Address
}

// NewStream funds a sender and recipient, mints the deposit (plus reserve)
// into the sender's token account, and assembles the per-stream addresses
// without creating anything on the program side.
func (e *Env) NewStream(tb testing.TB, name string, terms types.StreamTerms, senderReserve uint64) *Stream {
	tb.Helper()

	sender := e.Wallet(name + "-sender")
	recipient := e.Wallet(name + "-recipient")
	record := Addr(name + "-record")
	escrow, _ := ledger.Derive(e.ProgramID, record)

	return &Stream{
		env:             e,
		Sender:          sender,
		SenderTokens:    e.TokenAccount(tb, sender, terms.DepositedAmount+senderReserve),
		Recipient:       recipient,
		RecipientTokens: e.Tokens.CanonicalAddress(recipient, e.Mint),
		Record:          record,
		Escrow:          escrow,
		Mint:            e.Mint,
	}
}

// CreateStream is NewStream followed by a successful Create.
func (e *Env) CreateStream(tb testing.TB, name string, terms types.StreamTerms, senderReserve uint64) *Stream {
	tb.Helper()
	s := e.NewStream(tb, name, terms, senderReserve)
	if err := e.Keeper.Create(s.CreateAccounts(), terms); err != nil {
		tb.Fatalf("creating fixture stream: %v", err)
	}
	return s
}

// CreateAccounts returns the create account set with the flags a well-formed
// transaction declares. Tests flip flags or swap addresses to probe the
// validator.
func (s *Stream) CreateAccounts() types.CreateAccounts {
	return types.CreateAccounts{
		Sender:          s.env.Ref(s.Sender, true, true),
		SenderTokens:    s.env.Ref(s.SenderTokens, true, false),
		Recipient:       s.env.Ref(s.Recipient, true, false),
		RecipientTokens: s.env.Ref(s.RecipientTokens, true, false),
		Record:          s.env.Ref(s.Record, true, true),
		EscrowTokens:    s.env.Ref(s.Escrow, true, false),
		Mint:            s.env.Ref(s.Mint, false, false),
	}
}

// WithdrawAccounts returns the withdraw account set authorized by the
// recipient.
func (s *Stream) WithdrawAccounts() types.WithdrawAccounts {
	return types.WithdrawAccounts{
		Authority:       s.env.Ref(s.Recipient, true, true),
		Sender:          s.env.Ref(s.Sender, true, false),
		Recipient:       s.env.Ref(s.Recipient, true, false),
		RecipientTokens: s.env.Ref(s.RecipientTokens, true, false),
		Record:          s.env.Ref(s.Record, true, false),
		EscrowTokens:    s.env.Ref(s.Escrow, true, false),
		Mint:            s.env.Ref(s.Mint, false, false),
	}
}

// CancelAccounts returns the cancel account set authorized by the sender.
func (s *Stream) CancelAccounts() types.CancelAccounts {
	return types.CancelAccounts{
		Authority:       s.env.Ref(s.Sender, true, true),
		Sender:          s.env.Ref(s.Sender, true, false),
		SenderTokens:    s.env.Ref(s.SenderTokens, true, false),
		Recipient:       s.env.Ref(s.Recipient, true, false),
		RecipientTokens: s.env.Ref(s.RecipientTokens, true, false),
		Record:          s.env.Ref(s.Record, true, false),
		EscrowTokens:    s.env.Ref(s.Escrow, true, false),
		Mint:            s.env.Ref(s.Mint, false, false),
	}
}

// TransferAccounts returns the transfer-recipient account set authorized by
// the given wallet, targeting newRecipient's canonical token account.
func (s *Stream) TransferAccounts(authorized, newRecipient ledger.Address) types.TransferAccounts {
	return types.TransferAccounts{
		AuthorizedWallet:   s.env.Ref(authorized, true, true),
		NewRecipient:       s.env.Ref(newRecipient, false, false),
		NewRecipientTokens: s.env.Ref(s.env.Tokens.CanonicalAddress(newRecipient, s.Mint), true, false),
		Record:             s.env.Ref(s.Record, true, false),
		EscrowTokens:       s.env.Ref(s.Escrow, false, false),
		Mint:               s.env.Ref(s.Mint, false, false),
	}
}

// TopUpAccounts returns the top-up account set signed by the sender.
func (s *Stream) TopUpAccounts() types.TopUpAccounts {
	return types.TopUpAccounts{
		Sender:       s.env.Ref(s.Sender, true, true),
		SenderTokens: s.env.Ref(s.SenderTokens, true, false),
		Record:       s.env.Ref(s.Record, true, false),
		EscrowTokens: s.env.Ref(s.Escrow, true, false),
		Mint:         s.env.Ref(s.Mint, false, false),
	}
}
