package types

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/streampay-labs/timelock/ledger"
)

// The record serializes to a fixed-schema little-endian layout: version tag,
// accounting fields, the six bound identities, then the embedded terms with a
// length-prefixed name. Field order never changes; the record account is
// sized at creation to the padded length of this encoding.

const (
	recordHeadLen = 6*8 + 6*ledger.AddressLen
	termsFixedLen = 7*8 + 5 + 8 + 4
)

// EncodedTermsLen returns the exact serialized size of the terms.
func EncodedTermsLen(t StreamTerms) int {
	return termsFixedLen + len(t.Name)
}

// EncodedRecordLen returns the exact serialized size of the record.
func EncodedRecordLen(r StreamRecord) int {
	return recordHeadLen + EncodedTermsLen(r.Terms)
}

// PaddedRecordLen returns the record account size: the encoding rounded up to
// the next multiple of RecordAlign.
func PaddedRecordLen(r StreamRecord) int {
	n := EncodedRecordLen(r)
	for n%RecordAlign != 0 {
		n++
	}
	return n
}

// MarshalTerms serializes the terms.
func MarshalTerms(t StreamTerms) []byte {
	out := make([]byte, 0, EncodedTermsLen(t))
	out = appendUint64(out, t.StartTime)
	out = appendUint64(out, t.EndTime)
	out = appendUint64(out, t.DepositedAmount)
	out = appendUint64(out, t.TotalAmount)
	out = appendUint64(out, t.Period)
	out = appendUint64(out, t.Cliff)
	out = appendUint64(out, t.CliffAmount)
	out = appendBool(out, t.CancelableBySender)
	out = appendBool(out, t.CancelableByRecipient)
	out = appendBool(out, t.WithdrawalPublic)
	out = appendBool(out, t.TransferableBySender)
	out = appendBool(out, t.TransferableByRecipient)
	out = appendUint64(out, t.ReleaseRate)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(t.Name)))
	out = append(out, t.Name...)
	return out
}

// UnmarshalTerms decodes terms from the front of data, returning the number
// of bytes consumed. Trailing bytes are left to the caller to judge.
func UnmarshalTerms(data []byte) (StreamTerms, int, error) {
	var t StreamTerms
	if len(data) < termsFixedLen {
		return t, 0, fmt.Errorf("terms truncated: %d bytes", len(data))
	}
	d := decoder{buf: data}
	t.StartTime = d.uint64()
	t.EndTime = d.uint64()
	t.DepositedAmount = d.uint64()
	t.TotalAmount = d.uint64()
	t.Period = d.uint64()
	t.Cliff = d.uint64()
	t.CliffAmount = d.uint64()
	t.CancelableBySender = d.bool()
	t.CancelableByRecipient = d.bool()
	t.WithdrawalPublic = d.bool()
	t.TransferableBySender = d.bool()
	t.TransferableByRecipient = d.bool()
	t.ReleaseRate = d.uint64()
	nameLen := d.uint32()
	if d.err != nil {
		return t, 0, d.err
	}
	if nameLen > MaxNameLen {
		return t, 0, fmt.Errorf("name length %d exceeds %d", nameLen, MaxNameLen)
	}
	name := d.bytes(int(nameLen))
	if d.err != nil {
		return t, 0, d.err
	}
	if !utf8.Valid(name) {
		return t, 0, fmt.Errorf("name is not valid UTF-8")
	}
	t.Name = string(name)
	return t, d.off, nil
}

// DecodeTermsPayload decodes a create instruction payload. The payload must
// be exactly one serialized terms value.
func DecodeTermsPayload(payload []byte) (StreamTerms, error) {
	t, n, err := UnmarshalTerms(payload)
	if err != nil {
		return t, ErrInvalidInstruction.Wrap(err.Error())
	}
	if n != len(payload) {
		return t, ErrInvalidInstruction.Wrapf("%d trailing bytes after terms", len(payload)-n)
	}
	return t, nil
}

// MarshalRecord serializes the record without padding.
func MarshalRecord(r StreamRecord) []byte {
	out := make([]byte, 0, EncodedRecordLen(r))
	out = appendUint64(out, r.Version)
	out = appendUint64(out, r.CreatedAt)
	out = appendUint64(out, r.WithdrawnAmount)
	out = appendUint64(out, r.CanceledAt)
	out = appendUint64(out, r.ClosableAt)
	out = appendUint64(out, r.LastWithdrawnAt)
	out = append(out, r.Sender[:]...)
	out = append(out, r.SenderTokens[:]...)
	out = append(out, r.Recipient[:]...)
	out = append(out, r.RecipientTokens[:]...)
	out = append(out, r.Mint[:]...)
	out = append(out, r.EscrowTokens[:]...)
	out = append(out, MarshalTerms(r.Terms)...)
	return out
}

// UnmarshalRecord decodes a record from account data. Trailing alignment
// padding is tolerated; a wrong version tag or malformed bytes surface as
// ErrInvalidMetadata.
func UnmarshalRecord(data []byte) (StreamRecord, error) {
	var r StreamRecord
	if len(data) < recordHeadLen+termsFixedLen {
		return r, ErrInvalidMetadata.Wrapf("record truncated: %d bytes", len(data))
	}
	d := decoder{buf: data}
	r.Version = d.uint64()
	r.CreatedAt = d.uint64()
	r.WithdrawnAmount = d.uint64()
	r.CanceledAt = d.uint64()
	r.ClosableAt = d.uint64()
	r.LastWithdrawnAt = d.uint64()
	r.Sender = d.address()
	r.SenderTokens = d.address()
	r.Recipient = d.address()
	r.RecipientTokens = d.address()
	r.Mint = d.address()
	r.EscrowTokens = d.address()
	if d.err != nil {
		return r, ErrInvalidMetadata.Wrap(d.err.Error())
	}
	if r.Version != ProgramVersion {
		return r, ErrInvalidMetadata.Wrapf("unsupported record version %d", r.Version)
	}
	terms, _, err := UnmarshalTerms(data[d.off:])
	if err != nil {
		return r, ErrInvalidMetadata.Wrap(err.Error())
	}
	r.Terms = terms
	return r, nil
}

func appendUint64(out []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(out, v)
}

func appendBool(out []byte, v bool) []byte {
	if v {
		return append(out, 1)
	}
	return append(out, 0)
}

type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.buf) {
		d.err = fmt.Errorf("unexpected end of data at offset %d", d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) uint64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) uint32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) bool() bool {
	b := d.take(1)
	if b == nil {
		return false
	}
	if b[0] > 1 {
		d.err = fmt.Errorf("malformed boolean byte 0x%02x at offset %d", b[0], d.off-1)
		return false
	}
	return b[0] == 1
}

func (d *decoder) address() ledger.Address {
	b := d.take(ledger.AddressLen)
	var a ledger.Address
	copy(a[:], b)
	return a
}

func (d *decoder) bytes(n int) []byte {
	return d.take(n)
}
