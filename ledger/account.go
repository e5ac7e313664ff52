package ledger

// Account is the persisted state of one ledger account: the program that owns
// its data, the native balance that covers its storage deposit, and the raw
// data bytes the owning program maintains.
type Account struct {
	Owner   Address
	Balance uint64
	Data    []byte
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := &Account{Owner: a.Owner, Balance: a.Balance}
	if a.Data != nil {
		c.Data = make([]byte, len(a.Data))
		copy(c.Data, a.Data)
	}
	return c
}

// Host is the mutable account store a transaction executes against.
type Host interface {
	// Account returns the account at addr, or nil if none exists.
	Account(addr Address) *Account
	// PutAccount creates or replaces the account at addr.
	PutAccount(addr Address, acct *Account)
	// DeleteAccount removes the account at addr, releasing its address.
	DeleteAccount(addr Address)
	// MinimumBalance returns the storage deposit required to keep an account
	// of the given data size alive.
	MinimumBalance(size uint64) uint64
}

// AccountRef is the per-invocation view of one account reference supplied by
// the caller's transaction: the address plus the writability and signer flags
// the transaction declared for it. Every invocation re-reads the underlying
// account through the host, never through cached state.
type AccountRef struct {
	Addr     Address
	Writable bool
	Signer   bool

	host Host
}

// NewAccountRef binds addr on host with the given transaction flags.
func NewAccountRef(host Host, addr Address, writable, signer bool) *AccountRef {
	return &AccountRef{Addr: addr, Writable: writable, Signer: signer, host: host}
}

// Exists reports whether an account currently lives at the address.
func (r *AccountRef) Exists() bool {
	return r.host.Account(r.Addr) != nil
}

// IsEmpty reports whether the address has no account or an account with no
// data. An empty slot is a valid creation target.
func (r *AccountRef) IsEmpty() bool {
	acct := r.host.Account(r.Addr)
	return acct == nil || len(acct.Data) == 0
}

// Owner returns the owning program's address, or ZeroAddress if the account
// does not exist.
func (r *AccountRef) Owner() Address {
	acct := r.host.Account(r.Addr)
	if acct == nil {
		return ZeroAddress
	}
	return acct.Owner
}

// Balance returns the native balance, or 0 if the account does not exist.
func (r *AccountRef) Balance() uint64 {
	acct := r.host.Account(r.Addr)
	if acct == nil {
		return 0
	}
	return acct.Balance
}

// Data returns the account's raw data. The slice aliases the stored account;
// callers mutate it only through SetData.
func (r *AccountRef) Data() []byte {
	acct := r.host.Account(r.Addr)
	if acct == nil {
		return nil
	}
	return acct.Data
}

// SetData overwrites the account's data in place. The account's allocated
// size is fixed at creation; writes larger than the allocation fail.
func (r *AccountRef) SetData(b []byte) error {
	acct := r.host.Account(r.Addr)
	if acct == nil {
		return ErrNoAccount
	}
	if len(b) > len(acct.Data) {
		return ErrDataTooLarge
	}
	copy(acct.Data, b)
	return nil
}

// Credit adds amount to the account's native balance.
func (r *AccountRef) Credit(amount uint64) error {
	acct := r.host.Account(r.Addr)
	if acct == nil {
		return ErrNoAccount
	}
	acct.Balance += amount
	return nil
}

// Debit removes amount from the account's native balance.
func (r *AccountRef) Debit(amount uint64) error {
	acct := r.host.Account(r.Addr)
	if acct == nil {
		return ErrNoAccount
	}
	if acct.Balance < amount {
		return ErrInsufficientBalance
	}
	acct.Balance -= amount
	return nil
}

// Host exposes the account store the reference is bound to.
func (r *AccountRef) Host() Host {
	return r.host
}
