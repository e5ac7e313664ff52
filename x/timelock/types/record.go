package types

import (
	"math"

	sdkmath "cosmossdk.io/math"

	"github.com/streampay-labs/timelock/ledger"
)

// StreamRecord is the persisted entity of one stream: the mutable accounting
// fields, the identities bound at creation, and the embedded immutable terms.
// It is the full contents of the stream's record account.
type StreamRecord struct {
	Version         uint64
	CreatedAt       uint64
	WithdrawnAmount uint64
	CanceledAt      uint64
	ClosableAt      uint64
	LastWithdrawnAt uint64

	Sender          ledger.Address
	SenderTokens    ledger.Address
	Recipient       ledger.Address
	RecipientTokens ledger.Address
	Mint            ledger.Address
	EscrowTokens    ledger.Address

	Terms StreamTerms
}

// NewStreamRecord builds the record persisted by create. ClosableAt starts at
// the end time; the create handler recomputes it for partially funded or
// fixed-rate streams.
func NewStreamRecord(
	createdAt uint64,
	sender, senderTokens, recipient, recipientTokens, mint, escrowTokens ledger.Address,
	terms StreamTerms,
) StreamRecord {
	return StreamRecord{
		Version:         ProgramVersion,
		CreatedAt:       createdAt,
		ClosableAt:      terms.EndTime,
		Sender:          sender,
		SenderTokens:    senderTokens,
		Recipient:       recipient,
		RecipientTokens: recipientTokens,
		Mint:            mint,
		EscrowTokens:    escrowTokens,
		Terms:           terms,
	}
}

// Available returns the amount unlocked but not yet withdrawn at time now.
//
// All intermediate division runs in 18-decimal fixed point with truncation;
// the final unlocked amount is floored. That rounding rule is the contract,
// not an artifact. A would-be-negative result means the stored record
// violates its own invariants and is reported as an error, never clamped.
func (r *StreamRecord) Available(now uint64) (uint64, error) {
	t := r.Terms
	if t.StartTime > now || t.Cliff > now {
		return 0, nil
	}

	if now >= t.EndTime && t.ReleaseRate == 0 {
		if r.WithdrawnAmount > t.DepositedAmount {
			return 0, ErrInvalidMetadata.Wrapf("withdrawn %d exceeds deposited %d",
				r.WithdrawnAmount, t.DepositedAmount)
		}
		return t.DepositedAmount - r.WithdrawnAmount, nil
	}

	cliff := t.EffectiveCliff()
	cliffAmount := t.effectiveCliffAmount()
	periodsPassed := (now - cliff) / t.Period

	var unlocked sdkmath.Int
	if t.ReleaseRate > 0 {
		unlocked = sdkmath.NewIntFromUint64(periodsPassed).
			Mul(sdkmath.NewIntFromUint64(t.ReleaseRate))
	} else {
		// periodAmount = (total - cliffAmount) / ((end - cliff) / period);
		// folded into one truncated division to keep the arithmetic exact.
		numer := sdkmath.LegacyNewDecFromInt(
			sdkmath.NewIntFromUint64(periodsPassed).
				Mul(sdkmath.NewIntFromUint64(t.TotalAmount - cliffAmount)).
				Mul(sdkmath.NewIntFromUint64(t.Period)))
		denom := sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(t.EndTime - cliff))
		unlocked = numer.QuoTruncate(denom).TruncateInt()
	}

	avail := unlocked.
		Add(sdkmath.NewIntFromUint64(cliffAmount)).
		Sub(sdkmath.NewIntFromUint64(r.WithdrawnAmount))
	if avail.IsNegative() {
		return 0, ErrInvalidMetadata.Wrapf("negative available amount %s at %d", avail, now)
	}
	if !avail.IsUint64() {
		return 0, ErrInvalidMetadata.Wrapf("available amount %s overflows at %d", avail, now)
	}
	return avail.Uint64(), nil
}

// Closable returns the earliest time at which the entire remaining deposit is
// unlockable. Recomputed whenever DepositedAmount changes; cancel uses it to
// decide whether sender authorization is required.
func (r *StreamRecord) Closable() uint64 {
	t := r.Terms
	cliffTime := t.EffectiveCliff()
	cliffAmount := t.effectiveCliffAmount()

	if t.DepositedAmount < cliffAmount {
		// Nothing beyond the cliff can ever be covered by the deposit.
		return cliffTime
	}

	var perSecond sdkmath.LegacyDec
	if t.ReleaseRate > 0 {
		perSecond = sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(t.ReleaseRate)).
			QuoTruncate(sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(t.Period)))
	} else {
		seconds := t.EndTime - cliffTime
		if seconds == 0 {
			return t.EndTime
		}
		perSecond = sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(t.TotalAmount - cliffAmount)).
			QuoTruncate(sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(seconds)))
	}
	if perSecond.IsZero() {
		return t.EndTime
	}

	secondsLeft := sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(t.DepositedAmount - cliffAmount)).
		QuoTruncate(perSecond).
		TruncateInt().
		AddRaw(1)

	at := secondsLeft.Add(sdkmath.NewIntFromUint64(cliffTime))
	if !at.IsUint64() {
		return math.MaxUint64
	}
	closable := at.Uint64()
	if t.ReleaseRate == 0 && closable > t.EndTime {
		return t.EndTime
	}
	return closable
}
