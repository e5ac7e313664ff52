package types

// StreamTerms are the immutable parameters a stream is created with. Only
// DepositedAmount changes after creation (top-up); everything else is fixed.
type StreamTerms struct {
	StartTime       uint64
	EndTime         uint64
	DepositedAmount uint64
	TotalAmount     uint64
	Period          uint64
	Cliff           uint64
	CliffAmount     uint64

	CancelableBySender      bool
	CancelableByRecipient   bool
	WithdrawalPublic        bool
	TransferableBySender    bool
	TransferableByRecipient bool

	// ReleaseRate is a fixed amount released per period. Zero means derive
	// the per-period amount from TotalAmount over the schedule instead.
	ReleaseRate uint64

	Name string
}

// DefaultTerms returns the defaults applied to an omitted payload field set:
// one-second period, cancelable by the sender, transferable by the recipient.
func DefaultTerms() StreamTerms {
	return StreamTerms{
		Period:                  1,
		CancelableBySender:      true,
		TransferableByRecipient: true,
		Name:                    "Stream",
	}
}

// DurationSanity is the create-time timestamp check: the stream must start in
// the future, end after it starts, and any cliff must fall inside it.
func DurationSanity(now, start, end, cliff uint64) bool {
	cliffCond := cliff == 0 || (start <= cliff && cliff <= end)
	return now < start && start < end && cliffCond
}

// Validate checks the terms at creation time. Violations surface as
// ErrInvalidArgument to the caller.
func (t StreamTerms) Validate(now uint64) error {
	if !DurationSanity(now, t.StartTime, t.EndTime, t.Cliff) {
		return ErrInvalidArgument.Wrapf("invalid timestamps: now %d, start %d, end %d, cliff %d",
			now, t.StartTime, t.EndTime, t.Cliff)
	}
	if len(t.Name) > MaxNameLen {
		return ErrInvalidArgument.Wrapf("stream name exceeds %d bytes", MaxNameLen)
	}
	if t.Period == 0 {
		return ErrInvalidArgument.Wrap("period must be at least one second")
	}
	if t.ReleaseRate == 0 && t.TotalAmount <= t.effectiveCliffAmount() {
		// A zero derived release rate would make the schedule engine divide
		// by zero once the record is stored; reject it up front.
		return ErrInvalidArgument.Wrap("total amount must exceed the cliff amount")
	}
	return nil
}

// EffectiveCliff is the cliff time used by the schedule math: the configured
// cliff, or the start time when no cliff is set.
func (t StreamTerms) EffectiveCliff() uint64 {
	if t.Cliff > 0 {
		return t.Cliff
	}
	return t.StartTime
}

func (t StreamTerms) effectiveCliffAmount() uint64 {
	if t.CliffAmount > 0 {
		return t.CliffAmount
	}
	return 0
}
