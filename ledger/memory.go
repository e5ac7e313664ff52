package ledger

import (
	"sync"
)

// Rent parameters for the in-memory substrate. Every account carries a fixed
// metadata footprint on top of its data allocation.
const (
	rentPerByte      = 7
	accountOverhead  = 128
	defaultStartTime = 0
)

// InMemory is an in-process account store implementing Host and the substrate
// operations the program needs (account creation, rent math, wall clock). It
// stands in for the hosting ledger in tests and in the CLI simulator.
//
// The host, not the program, provides transaction atomicity: Execute snapshots
// all accounts and restores them when the transition returns an error, giving
// the all-or-nothing apply semantics the real ledger guarantees.
type InMemory struct {
	mu       sync.Mutex
	accounts map[Address]*Account
	now      uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		accounts: make(map[Address]*Account),
		now:      defaultStartTime,
	}
}

// SetNow moves the substrate clock. Time never runs backwards in tests that
// use this; the substrate itself does not enforce monotonicity.
func (l *InMemory) SetNow(t uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = t
}

// Now returns the current wall-clock time in seconds.
func (l *InMemory) Now() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// MinimumBalance returns the storage deposit required for an account with
// size bytes of data.
func (l *InMemory) MinimumBalance(size uint64) uint64 {
	return (size + accountOverhead) * rentPerByte
}

func (l *InMemory) Account(addr Address) *Account {
	return l.accounts[addr]
}

func (l *InMemory) PutAccount(addr Address, acct *Account) {
	l.accounts[addr] = acct
}

func (l *InMemory) DeleteAccount(addr Address) {
	delete(l.accounts, addr)
}

// Ref binds an account reference for one invocation with the transaction's
// declared flags.
func (l *InMemory) Ref(addr Address, writable, signer bool) *AccountRef {
	return NewAccountRef(l, addr, writable, signer)
}

// Fund creates a data-less wallet account at addr (or tops up an existing
// one) with the given native balance.
func (l *InMemory) Fund(addr Address, amount uint64) {
	acct := l.accounts[addr]
	if acct == nil {
		acct = &Account{}
		l.accounts[addr] = acct
	}
	acct.Balance += amount
}

// CreateAccount allocates a zeroed account of the given data size at the
// target address, owned by owner, moving the rent-exempt minimum from the
// funder's native balance into the new account.
func (l *InMemory) CreateAccount(funder, target *AccountRef, size uint64, owner Address) error {
	existing := l.accounts[target.Addr]
	if existing != nil && len(existing.Data) > 0 {
		return ErrAccountExists
	}
	deposit := l.MinimumBalance(size)
	if err := funder.Debit(deposit); err != nil {
		return err
	}
	carried := uint64(0)
	if existing != nil {
		carried = existing.Balance
	}
	l.accounts[target.Addr] = &Account{
		Owner:   owner,
		Balance: deposit + carried,
		Data:    make([]byte, size),
	}
	return nil
}

// CreateDerivedAccount is CreateAccount for a program-derived address: the
// target must match the authority's derived address, which is the only proof
// the program can give that it controls the address.
func (l *InMemory) CreateDerivedAccount(funder, target *AccountRef, size uint64, owner Address, auth Authority) error {
	if !auth.Covers(target.Addr) {
		return ErrBadAuthority
	}
	return l.CreateAccount(funder, target, size, owner)
}

// Execute runs one transition with all-or-nothing apply semantics: if fn
// returns an error every account is restored to its state before the call.
func (l *InMemory) Execute(fn func() error) error {
	snapshot := make(map[Address]*Account, len(l.accounts))
	for addr, acct := range l.accounts {
		snapshot[addr] = acct.Clone()
	}
	if err := fn(); err != nil {
		l.accounts = snapshot
		return err
	}
	return nil
}

// Snapshot returns a deep copy of every account, keyed by address. Used by
// durable stores to persist the ledger between CLI invocations.
func (l *InMemory) Snapshot() map[Address]*Account {
	out := make(map[Address]*Account, len(l.accounts))
	for addr, acct := range l.accounts {
		out[addr] = acct.Clone()
	}
	return out
}

// Restore replaces the ledger contents with the given accounts.
func (l *InMemory) Restore(accounts map[Address]*Account) {
	l.accounts = make(map[Address]*Account, len(accounts))
	for addr, acct := range accounts {
		l.accounts[addr] = acct.Clone()
	}
}
