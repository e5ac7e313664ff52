package keeper

import (
	"github.com/streampay-labs/timelock/ledger"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

// Stateless account predicates applied at the top of every handler. Each
// handler re-validates every cross-account relationship from scratch on every
// call: any writable account may have been mutated by another transaction
// since the caller last observed it.

// requireWritable fails if any of the given references lacks the writable
// flag in the invoking transaction.
func requireWritable(refs ...*ledger.AccountRef) error {
	for _, ref := range refs {
		if !ref.Writable {
			return types.ErrAccountsNotWritable.Wrapf("account %s is not writable", ref.Addr)
		}
	}
	return nil
}

// requireWritableData is requireWritable for withdraw and cancel, which have
// always reported writability violations as invalid account data. The code is
// part of the caller-visible contract and stays as built.
func requireWritableData(refs ...*ledger.AccountRef) error {
	for _, ref := range refs {
		if !ref.Writable {
			return types.ErrInvalidAccountData.Wrapf("account %s is not writable", ref.Addr)
		}
	}
	return nil
}

// requireSigner fails if the reference did not supply a signature.
func requireSigner(ref *ledger.AccountRef) error {
	if !ref.Signer {
		return types.ErrMissingSignature.Wrapf("account %s must sign", ref.Addr)
	}
	return nil
}

// requireEmpty fails if either creation target already holds data.
func requireEmpty(refs ...*ledger.AccountRef) error {
	for _, ref := range refs {
		if !ref.IsEmpty() {
			return types.ErrAlreadyInitialized.Wrapf("account %s already holds data", ref.Addr)
		}
	}
	return nil
}

// requireInitialized fails unless the record account is non-empty and owned
// by this program, and the escrow account is non-empty and owned by the token
// ledger.
func (k Keeper) requireInitialized(record, escrow *ledger.AccountRef) error {
	if escrow.IsEmpty() || escrow.Owner() != k.tokens.ID() ||
		record.IsEmpty() || record.Owner() != k.programID {
		return types.ErrUninitializedAccount.Wrapf(
			"record %s or escrow %s missing or wrongly owned", record.Addr, escrow.Addr)
	}
	return nil
}

// requireEscrowBinding fails unless the supplied escrow address equals the
// deterministic derivation from the record's own address. This blocks
// substitution of a foreign escrow: the derivation is program-scoped and a
// third party cannot produce a colliding address.
func (k Keeper) requireEscrowBinding(record, escrow *ledger.AccountRef) (ledger.Authority, error) {
	derived, auth := k.escrowDerivation(record.Addr)
	if escrow.Addr != derived {
		return ledger.Authority{}, types.ErrInvalidAccountData.Wrapf(
			"escrow %s does not match derivation %s for record %s", escrow.Addr, derived, record.Addr)
	}
	return auth, nil
}

// requireCanonicalTokenAccount fails unless the supplied token account is the
// canonical one for (owner, mint).
func (k Keeper) requireCanonicalTokenAccount(ref *ledger.AccountRef, owner, mint ledger.Address) error {
	canonical := k.tokens.CanonicalAddress(owner, mint)
	if ref.Addr != canonical {
		return types.ErrInvalidAccountData.Wrapf(
			"token account %s is not the canonical account %s for owner %s", ref.Addr, canonical, owner)
	}
	return nil
}

// requireMatch fails unless the caller-supplied address equals the identity
// stored in the record. Protects against replaying a call against a record
// whose bindings have since changed.
func requireMatch(got *ledger.AccountRef, want ledger.Address, role string) error {
	if got.Addr != want {
		return types.ErrInvalidAccountData.Wrapf(
			"%s account %s does not match record identity %s", role, got.Addr, want)
	}
	return nil
}

// loadRecord decodes the stream record out of its account.
func loadRecord(record *ledger.AccountRef) (types.StreamRecord, error) {
	return types.UnmarshalRecord(record.Data())
}

// storeRecord writes the record back as the final step of a transition.
func storeRecord(record *ledger.AccountRef, r types.StreamRecord) error {
	if err := record.SetData(types.MarshalRecord(r)); err != nil {
		return types.ErrInvalidAccountData.Wrapf("persisting record %s: %s", record.Addr, err)
	}
	return nil
}
