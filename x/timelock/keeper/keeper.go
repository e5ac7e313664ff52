package keeper

import (
	"fmt"

	"cosmossdk.io/log"

	"github.com/streampay-labs/timelock/ledger"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

type (
	Keeper struct {
		programID ledger.Address
		logger    log.Logger

		substrate types.SubstrateKeeper
		tokens    types.TokenKeeper
		events    types.EventEmitter
	}
)

func NewKeeper(
	programID ledger.Address,
	logger log.Logger,

	substrate types.SubstrateKeeper,
	tokens types.TokenKeeper,
	events types.EventEmitter,
) Keeper {
	if programID.IsZero() {
		panic("program id must not be the zero address")
	}
	if events == nil {
		events = types.NoopEmitter{}
	}

	return Keeper{
		programID: programID,
		logger:    logger,
		substrate: substrate,
		tokens:    tokens,
		events:    events,
	}
}

// ProgramID returns the program's own identity on the ledger.
func (k Keeper) ProgramID() ledger.Address {
	return k.programID
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// escrowDerivation returns the deterministic escrow sub-address bound to a
// record address, with the authority capability that signs for it.
func (k Keeper) escrowDerivation(record ledger.Address) (ledger.Address, ledger.Authority) {
	return ledger.Derive(k.programID, record)
}
