package cmd

import (
	"context"
	"fmt"
	"os"

	"cosmossdk.io/log"
	"golang.org/x/crypto/blake2b"

	"github.com/streampay-labs/timelock/ledger"
	"github.com/streampay-labs/timelock/ledger/sqlitestore"
	"github.com/streampay-labs/timelock/token"
	"github.com/streampay-labs/timelock/x/timelock/keeper"
	"github.com/streampay-labs/timelock/x/timelock/module"
)

// Simulator address namespace. Wallets and streams are addressed by name so
// the CLI never deals in raw hex; well-known system addresses are fixed.
const (
	walletTag = "streamd/wallet/"
	streamTag = "streamd/stream/"
)

var (
	programID      = systemAddr("streamd/program/timelock")
	tokenProgramID = systemAddr("streamd/program/token")
	mintAddr       = systemAddr("streamd/mint")
	faucetAddr     = systemAddr("streamd/faucet")
)

func systemAddr(name string) ledger.Address {
	var a ledger.Address
	sum := blake2b.Sum256([]byte(name))
	copy(a[:], sum[:])
	return a
}

// walletAddr maps a wallet name to its ledger address.
func walletAddr(name string) ledger.Address {
	return systemAddr(walletTag + name)
}

// streamAddr maps a stream name to its record address.
func streamAddr(name string) ledger.Address {
	return systemAddr(streamTag + name)
}

// simulator is one CLI invocation's view of the persisted ledger plus the
// wired program stack.
type simulator struct {
	cfg    Config
	store  *sqlitestore.Store
	ledger *ledger.InMemory
	tokens *token.Program
	module module.AppModule
	logger log.Logger
}

// openSimulator loads the persisted ledger and wires the program against it.
// Callers must Close.
func openSimulator(ctx context.Context) (*simulator, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	filter, err := log.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Log.Level, err)
	}
	logger := log.NewLogger(os.Stderr, log.FilterOption(filter))

	store := sqlitestore.New(sqlitestore.Config{Path: cfg.DB.Path})
	if err := store.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening ledger store: %w", err)
	}

	l := ledger.NewInMemory()
	if err := store.Load(ctx, l); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	tokens := token.NewProgram(tokenProgramID, l)
	k := keeper.NewKeeper(programID, logger, l, tokens, &logEmitter{logger: logger})

	return &simulator{
		cfg:    cfg,
		store:  store,
		ledger: l,
		tokens: tokens,
		module: module.NewAppModule(k),
		logger: logger,
	}, nil
}

func (s *simulator) Close() error {
	return s.store.Close()
}

// run executes one instruction with the ledger's all-or-nothing semantics and
// persists the result on success.
func (s *simulator) run(ctx context.Context, accounts []*ledger.AccountRef, instruction []byte) error {
	if err := s.ledger.Execute(func() error {
		return s.module.Process(accounts, instruction)
	}); err != nil {
		return err
	}
	return s.store.Save(ctx, s.ledger)
}

// save persists the ledger outside an instruction, for bootstrap commands.
func (s *simulator) save(ctx context.Context) error {
	return s.store.Save(ctx, s.ledger)
}

func (s *simulator) ref(addr ledger.Address, writable, signer bool) *ledger.AccountRef {
	return s.ledger.Ref(addr, writable, signer)
}

// logEmitter forwards program events to the structured log.
type logEmitter struct {
	logger log.Logger
}

func (e *logEmitter) Emit(eventType string, attrs ...string) {
	kv := make([]any, 0, len(attrs))
	for _, a := range attrs {
		kv = append(kv, a)
	}
	e.logger.Info("event "+eventType, kv...)
}
