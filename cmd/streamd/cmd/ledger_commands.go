package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streampay-labs/timelock/x/timelock/types"
)

// faucetReserve is the native balance minted to the faucet on init. The
// faucet pays every storage deposit the bootstrap commands create.
const faucetReserve = 1_000_000_000_000

func InitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Bootstrap the ledger: create the mint and the faucet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			if sim.ref(mintAddr, false, false).Exists() {
				return errors.New("ledger is already initialized")
			}

			sim.ledger.Fund(faucetAddr, faucetReserve)
			if err := sim.tokens.CreateMint(
				sim.ref(faucetAddr, true, true), sim.ref(mintAddr, true, false),
				sim.cfg.Mint.Decimals, 0,
			); err != nil {
				return fmt.Errorf("creating mint: %w", err)
			}
			if err := sim.save(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("Initialized ledger at %s (mint decimals: %d)\n", sim.cfg.DB.Path, sim.cfg.Mint.Decimals)
			return nil
		},
	}
}

func FundCommand() *cobra.Command {
	var native, tokens uint64
	command := &cobra.Command{
		Use:   "fund <wallet>",
		Short: "Fund a named wallet with native balance and minted tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			wallet := walletAddr(args[0])
			if native > 0 {
				sim.ledger.Fund(wallet, native)
			}
			if tokens > 0 {
				target := sim.ref(sim.tokens.CanonicalAddress(wallet, mintAddr), true, false)
				if target.IsEmpty() {
					if err := sim.tokens.CreateCanonicalAccount(
						sim.ref(faucetAddr, true, true), target,
						sim.ref(wallet, false, false), sim.ref(mintAddr, false, false),
					); err != nil {
						return fmt.Errorf("creating token account: %w", err)
					}
				}
				if err := sim.tokens.MintTo(target, tokens); err != nil {
					return fmt.Errorf("minting: %w", err)
				}
			}
			if err := sim.save(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("Funded %s (%s)\n", args[0], wallet)
			return nil
		},
	}
	command.Flags().Uint64Var(&native, "native", 100_000_000, "native balance to add")
	command.Flags().Uint64Var(&tokens, "tokens", 0, "token amount to mint, in base units")
	return command
}

func AdvanceCommand() *cobra.Command {
	var to uint64
	command := &cobra.Command{
		Use:   "advance [seconds]",
		Short: "Move the ledger clock forward, or jump to an absolute time with --to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			now := sim.ledger.Now()
			switch {
			case to > 0:
				if to < now {
					return fmt.Errorf("time runs forward only: now %d, requested %d", now, to)
				}
				sim.ledger.SetNow(to)
			case len(args) == 1:
				delta, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				sim.ledger.SetNow(now + delta)
			default:
				return errors.New("give a number of seconds or --to")
			}
			if err := sim.save(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("Clock: %d -> %d\n", now, sim.ledger.Now())
			return nil
		},
	}
	command.Flags().Uint64Var(&to, "to", 0, "absolute time in seconds")
	return command
}

func BalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <wallet>",
		Short: "Show a wallet's native and token balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			wallet := walletAddr(args[0])
			mint, err := sim.tokens.UnpackMint(sim.ref(mintAddr, false, false))
			if err != nil {
				return fmt.Errorf("ledger is not initialized: %w", err)
			}

			cmd.Printf("Wallet %s (%s)\n", args[0], wallet)
			cmd.Printf("  native: %d\n", sim.ref(wallet, false, false).Balance())

			tokenRef := sim.ref(sim.tokens.CanonicalAddress(wallet, mintAddr), false, false)
			acct, err := sim.tokens.Unpack(tokenRef)
			if err != nil {
				cmd.Printf("  tokens: no token account\n")
				return nil
			}
			cmd.Printf("  tokens: %s\n", types.EncodeBase10(acct.Amount, int(mint.Decimals)))
			return nil
		},
	}
}
