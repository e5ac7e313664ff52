// Package token models the external token-ledger primitive the timelock
// program calls into: token accounts and mints live in ledger accounts owned
// by the token program, and every balance movement goes through it.
package token

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/blake2b"

	"github.com/streampay-labs/timelock/ledger"
)

// AccountLen is the serialized size of a token account: owner, mint, amount.
const AccountLen = ledger.AddressLen*2 + 8

// MintLen is the serialized size of a mint: supply plus decimals.
const MintLen = 8 + 1

var (
	ErrNotTokenAccount   = errors.New("account is not owned by the token ledger")
	ErrMalformedAccount  = errors.New("malformed token account data")
	ErrMalformedMint     = errors.New("malformed mint data")
	ErrMintMismatch      = errors.New("token account mint mismatch")
	ErrInsufficientFunds = errors.New("insufficient token balance")
	ErrUnauthorized      = errors.New("transfer authority does not match account owner")
)

// Account is the unpacked state of one token account.
type Account struct {
	Owner  ledger.Address
	Mint   ledger.Address
	Amount uint64
}

// Mint is the unpacked state of one token mint.
type Mint struct {
	Supply   uint64
	Decimals uint8
}

// Auth authorizes a movement out of a token account: either the owner wallet
// signed the transaction, or the caller holds the derived-address authority
// for an account owned by its own address (the escrow pattern).
type Auth struct {
	signer  *ledger.AccountRef
	derived *ledger.Authority
}

// SignerAuth authorizes as the given wallet; the reference must carry the
// transaction's signer flag.
func SignerAuth(ref *ledger.AccountRef) Auth {
	return Auth{signer: ref}
}

// DerivedAuth authorizes as a program-derived address.
func DerivedAuth(a ledger.Authority) Auth {
	return Auth{derived: &a}
}

func (a Auth) covers(owner ledger.Address) bool {
	if a.signer != nil {
		return a.signer.Signer && a.signer.Addr == owner
	}
	if a.derived != nil {
		return a.derived.Covers(owner)
	}
	return false
}

// Program is the in-process token ledger. Its identity address doubles as the
// owner tag on every token account it manages.
type Program struct {
	id   ledger.Address
	host ledger.Host
}

func NewProgram(id ledger.Address, host ledger.Host) *Program {
	return &Program{id: id, host: host}
}

// ID returns the token program's identity address.
func (p *Program) ID() ledger.Address {
	return p.id
}

// Unpack decodes a token account, checking the owner tag first.
func (p *Program) Unpack(ref *ledger.AccountRef) (Account, error) {
	if ref.Owner() != p.id {
		return Account{}, ErrNotTokenAccount
	}
	return decodeAccount(ref.Data())
}

// UnpackMint decodes a mint account.
func (p *Program) UnpackMint(ref *ledger.AccountRef) (Mint, error) {
	data := ref.Data()
	if len(data) < MintLen {
		return Mint{}, ErrMalformedMint
	}
	return Mint{
		Supply:   binary.LittleEndian.Uint64(data[0:8]),
		Decimals: data[8],
	}, nil
}

// Transfer moves amount from one token account to another. The authority must
// cover the source account's owner, and both accounts must share a mint.
func (p *Program) Transfer(from, to *ledger.AccountRef, auth Auth, amount uint64) error {
	src, err := p.Unpack(from)
	if err != nil {
		return err
	}
	dst, err := p.Unpack(to)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if !auth.covers(src.Owner) {
		return ErrUnauthorized
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := from.SetData(encodeAccount(src)); err != nil {
		return err
	}
	return to.SetData(encodeAccount(dst))
}

// InitializeAccount writes a fresh zero-balance token account for the given
// mint into an allocated, token-program-owned account.
func (p *Program) InitializeAccount(target, mint *ledger.AccountRef, owner ledger.Address) error {
	if target.Owner() != p.id {
		return ErrNotTokenAccount
	}
	if _, err := p.UnpackMint(mint); err != nil {
		return err
	}
	return target.SetData(encodeAccount(Account{Owner: owner, Mint: mint.Addr}))
}

// CloseAccount destroys an emptied token account, moving its storage deposit
// to refundTo. The authority must cover the account's owner.
func (p *Program) CloseAccount(target, refundTo *ledger.AccountRef, auth Auth) error {
	acct, err := p.Unpack(target)
	if err != nil {
		return err
	}
	if !auth.covers(acct.Owner) {
		return ErrUnauthorized
	}
	if acct.Amount != 0 {
		return ErrInsufficientFunds
	}
	if err := refundTo.Credit(target.Balance()); err != nil {
		return err
	}
	p.host.DeleteAccount(target.Addr)
	return nil
}

// CanonicalAddress derives the canonical token-account address for a wallet
// and mint. One-way and token-program-scoped, like any derived address.
func (p *Program) CanonicalAddress(owner, mint ledger.Address) ledger.Address {
	h, err := blake2b.New256([]byte("token/canonical-account/v1"))
	if err != nil {
		panic(err)
	}
	h.Write(p.id[:])
	h.Write(owner[:])
	h.Write(mint[:])
	var addr ledger.Address
	copy(addr[:], h.Sum(nil))
	return addr
}

// CreateCanonicalAccount allocates and initializes the canonical token
// account for (owner, mint), funded by the funder's native balance.
func (p *Program) CreateCanonicalAccount(funder, target *ledger.AccountRef, owner, mint *ledger.AccountRef) error {
	deposit := p.host.MinimumBalance(AccountLen)
	if err := funder.Debit(deposit); err != nil {
		return err
	}
	p.host.PutAccount(target.Addr, &ledger.Account{
		Owner:   p.id,
		Balance: deposit,
		Data:    make([]byte, AccountLen),
	})
	return p.InitializeAccount(target, mint, owner.Addr)
}

// CreateMint allocates a mint account with the given decimals and supply
// minted into a freshly created token account for the authority. Used by the
// CLI simulator and tests to bootstrap an asset.
func (p *Program) CreateMint(funder, mintRef *ledger.AccountRef, decimals uint8, supply uint64) error {
	deposit := p.host.MinimumBalance(MintLen)
	if err := funder.Debit(deposit); err != nil {
		return err
	}
	data := make([]byte, MintLen)
	binary.LittleEndian.PutUint64(data[0:8], supply)
	data[8] = decimals
	p.host.PutAccount(mintRef.Addr, &ledger.Account{
		Owner:   p.id,
		Balance: deposit,
		Data:    data,
	})
	return nil
}

// MintTo credits freshly minted tokens to a token account. Simulator-side
// convenience; the timelock program itself never mints.
func (p *Program) MintTo(target *ledger.AccountRef, amount uint64) error {
	acct, err := p.Unpack(target)
	if err != nil {
		return err
	}
	acct.Amount += amount
	return target.SetData(encodeAccount(acct))
}

func encodeAccount(a Account) []byte {
	out := make([]byte, AccountLen)
	copy(out[0:ledger.AddressLen], a.Owner[:])
	copy(out[ledger.AddressLen:2*ledger.AddressLen], a.Mint[:])
	binary.LittleEndian.PutUint64(out[2*ledger.AddressLen:], a.Amount)
	return out
}

func decodeAccount(data []byte) (Account, error) {
	if len(data) < AccountLen {
		return Account{}, ErrMalformedAccount
	}
	var a Account
	copy(a.Owner[:], data[0:ledger.AddressLen])
	copy(a.Mint[:], data[ledger.AddressLen:2*ledger.AddressLen])
	a.Amount = binary.LittleEndian.Uint64(data[2*ledger.AddressLen:])
	return a, nil
}
