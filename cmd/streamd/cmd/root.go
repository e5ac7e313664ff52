// Package cmd implements the streamd command line: a single-asset ledger
// simulator that persists its accounts in SQLite and drives the timelock
// program the way a hosting ledger would, one instruction per invocation.
package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "streamd",
		Short:         "Token stream simulator",
		Long:          "streamd runs the timelock streaming program against a local SQLite-backed ledger.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "streamd.yaml", "path to the YAML config file")

	root.AddCommand(
		InitCommand(),
		FundCommand(),
		AdvanceCommand(),
		BalanceCommand(),
		CreateCommand(),
		WithdrawCommand(),
		CancelCommand(),
		TransferCommand(),
		TopUpCommand(),
		ShowCommand(),
	)
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}
