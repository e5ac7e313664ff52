package types

const (
	// ModuleName defines the module name
	ModuleName = "timelock"

	// ProgramVersion is the version tag written into every stream record.
	ProgramVersion = 2

	// MaxNameLen is the longest display name a stream may carry, in bytes.
	MaxNameLen = 200

	// RecordAlign is the alignment the serialized record is padded to when
	// its storage account is sized at creation.
	RecordAlign = 8
)

// Opcodes of the instruction payload's first byte.
const (
	OpCreate byte = iota
	OpWithdraw
	OpCancel
	OpTransferRecipient
	OpTopUp
)
