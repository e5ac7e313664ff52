package ledger

import (
	"golang.org/x/crypto/blake2b"
)

// derivation domain separators
const (
	deriveTag = "ledger/derived-account/v1"
)

// Authority is the scoped capability to act as a derived sub-address within a
// single invocation. It is produced together with the address by Derive; a
// collaborator verifies it by recomputing the derivation, so the capability
// cannot be forged for an address the program did not derive.
type Authority struct {
	program Address
	seed    Address
	address Address
}

// Address returns the derived sub-address the authority signs for.
func (a Authority) Address() Address {
	return a.address
}

// Program returns the deriving program's identity.
func (a Authority) Program() Address {
	return a.program
}

// Valid reports whether the authority is internally consistent, i.e. its
// address really is the derivation of (program, seed).
func (a Authority) Valid() bool {
	return deriveAddress(a.program, a.seed) == a.address
}

// Covers reports whether the authority authorizes acting as addr.
func (a Authority) Covers(addr Address) bool {
	return a.address == addr && a.Valid()
}

// Derive computes the deterministic sub-address for (program, seed) and the
// authority capability that signs for it. The derivation is one-way and
// program-scoped: no other program can derive the same address.
func Derive(program, seed Address) (Address, Authority) {
	addr := deriveAddress(program, seed)
	return addr, Authority{program: program, seed: seed, address: addr}
}

func deriveAddress(program, seed Address) Address {
	h, err := blake2b.New256([]byte(deriveTag))
	if err != nil {
		panic(err)
	}
	h.Write(program[:])
	h.Write(seed[:])
	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}
