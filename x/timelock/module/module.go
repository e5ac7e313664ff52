// Package module is the thin boundary between the host's wire format and the
// operation handlers: it decodes the opcode byte and its payload, binds the
// caller's account references to named roles strictly by position, and
// surfaces domain errors verbatim.
package module

import (
	"encoding/binary"

	"github.com/streampay-labs/timelock/ledger"
	"github.com/streampay-labs/timelock/x/timelock/keeper"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

// AppModule routes instructions to the timelock keeper.
type AppModule struct {
	keeper keeper.Keeper
}

func NewAppModule(k keeper.Keeper) AppModule {
	return AppModule{keeper: k}
}

// Keeper exposes the underlying keeper.
func (m AppModule) Keeper() keeper.Keeper {
	return m.keeper
}

// Account counts per opcode; the host must supply exactly these, in order.
var accountCounts = map[byte]int{
	types.OpCreate:            7,
	types.OpWithdraw:          7,
	types.OpCancel:            8,
	types.OpTransferRecipient: 6,
	types.OpTopUp:             5,
}

// Process executes one instruction: instruction[0] is the opcode, the rest is
// the opcode's payload.
func (m AppModule) Process(accounts []*ledger.AccountRef, instruction []byte) error {
	if len(instruction) == 0 {
		return types.ErrInvalidInstruction.Wrap("empty instruction")
	}
	op, payload := instruction[0], instruction[1:]

	want, ok := accountCounts[op]
	if !ok {
		return types.ErrInvalidInstruction.Wrapf("unknown opcode %d", op)
	}
	if len(accounts) != want {
		return types.ErrInvalidInstruction.Wrapf("opcode %d needs %d accounts, got %d",
			op, want, len(accounts))
	}

	switch op {
	case types.OpCreate:
		terms, err := types.DecodeTermsPayload(payload)
		if err != nil {
			return err
		}
		return m.keeper.Create(types.CreateAccounts{
			Sender:          accounts[0],
			SenderTokens:    accounts[1],
			Recipient:       accounts[2],
			RecipientTokens: accounts[3],
			Record:          accounts[4],
			EscrowTokens:    accounts[5],
			Mint:            accounts[6],
		}, terms)

	case types.OpWithdraw:
		amount, err := decodeAmount(payload)
		if err != nil {
			return err
		}
		return m.keeper.Withdraw(types.WithdrawAccounts{
			Authority:       accounts[0],
			Sender:          accounts[1],
			Recipient:       accounts[2],
			RecipientTokens: accounts[3],
			Record:          accounts[4],
			EscrowTokens:    accounts[5],
			Mint:            accounts[6],
		}, amount)

	case types.OpCancel:
		if len(payload) != 0 {
			return types.ErrInvalidInstruction.Wrap("cancel carries no payload")
		}
		return m.keeper.Cancel(types.CancelAccounts{
			Authority:       accounts[0],
			Sender:          accounts[1],
			SenderTokens:    accounts[2],
			Recipient:       accounts[3],
			RecipientTokens: accounts[4],
			Record:          accounts[5],
			EscrowTokens:    accounts[6],
			Mint:            accounts[7],
		})

	case types.OpTransferRecipient:
		if len(payload) != 0 {
			return types.ErrInvalidInstruction.Wrap("transfer-recipient carries no payload")
		}
		return m.keeper.TransferRecipient(types.TransferAccounts{
			AuthorizedWallet:   accounts[0],
			NewRecipient:       accounts[1],
			NewRecipientTokens: accounts[2],
			Record:             accounts[3],
			EscrowTokens:       accounts[4],
			Mint:               accounts[5],
		})

	case types.OpTopUp:
		amount, err := decodeAmount(payload)
		if err != nil {
			return err
		}
		return m.keeper.TopUp(types.TopUpAccounts{
			Sender:       accounts[0],
			SenderTokens: accounts[1],
			Record:       accounts[2],
			EscrowTokens: accounts[3],
			Mint:         accounts[4],
		}, amount)
	}

	return types.ErrInvalidInstruction.Wrapf("unknown opcode %d", op)
}

// decodeAmount reads a little-endian 8-byte amount payload.
func decodeAmount(payload []byte) (uint64, error) {
	if len(payload) != 8 {
		return 0, types.ErrInvalidInstruction.Wrapf("amount payload must be 8 bytes, got %d", len(payload))
	}
	return binary.LittleEndian.Uint64(payload), nil
}
