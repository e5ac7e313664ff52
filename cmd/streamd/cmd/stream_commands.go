package cmd

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/streampay-labs/timelock/ledger"
	"github.com/streampay-labs/timelock/x/timelock/types"
)

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

func amountPayload(op byte, amount uint64) []byte {
	out := []byte{op}
	return binary.LittleEndian.AppendUint64(out, amount)
}

// loadStream reads and decodes the record for a named stream.
func loadStream(sim *simulator, name string) (types.StreamRecord, ledger.Address, error) {
	record := streamAddr(name)
	data := sim.ref(record, false, false).Data()
	if len(data) == 0 {
		return types.StreamRecord{}, record, fmt.Errorf("no stream named %q", name)
	}
	decoded, err := types.UnmarshalRecord(data)
	if err != nil {
		return types.StreamRecord{}, record, fmt.Errorf("decoding stream %q: %w", name, err)
	}
	return decoded, record, nil
}

func CreateCommand() *cobra.Command {
	var (
		sender, recipient    string
		amount, total        uint64
		start, end           uint64
		cliff, cliffAmount   uint64
		period, releaseRate  uint64
		displayName          string
		cancelableByBoth     bool
		transferableBySender bool
	)
	command := &cobra.Command{
		Use:   "create <stream>",
		Short: "Create a token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			terms := types.DefaultTerms()
			terms.StartTime = start
			terms.EndTime = end
			terms.Cliff = cliff
			terms.CliffAmount = cliffAmount
			terms.DepositedAmount = amount
			terms.TotalAmount = total
			if terms.TotalAmount == 0 {
				terms.TotalAmount = amount
			}
			terms.Period = period
			terms.ReleaseRate = releaseRate
			terms.CancelableByRecipient = cancelableByBoth
			terms.TransferableBySender = transferableBySender
			terms.Name = displayName
			if terms.Name == "" {
				terms.Name = args[0]
			}

			senderW := walletAddr(sender)
			recipientW := walletAddr(recipient)
			record := streamAddr(args[0])
			escrow, _ := ledger.Derive(programID, record)

			accounts := []*ledger.AccountRef{
				sim.ref(senderW, true, true),
				sim.ref(sim.tokens.CanonicalAddress(senderW, mintAddr), true, false),
				sim.ref(recipientW, true, false),
				sim.ref(sim.tokens.CanonicalAddress(recipientW, mintAddr), true, false),
				sim.ref(record, true, true),
				sim.ref(escrow, true, false),
				sim.ref(mintAddr, false, false),
			}
			instruction := append([]byte{types.OpCreate}, types.MarshalTerms(terms)...)
			if err := sim.run(cmd.Context(), accounts, instruction); err != nil {
				return err
			}
			cmd.Printf("Created stream %q (record %s)\n", args[0], record)
			return nil
		},
	}
	command.Flags().StringVar(&sender, "sender", "", "sender wallet name")
	command.Flags().StringVar(&recipient, "recipient", "", "recipient wallet name")
	command.Flags().Uint64Var(&amount, "amount", 0, "deposit, in base units")
	command.Flags().Uint64Var(&total, "total", 0, "total stream size, defaults to the deposit")
	command.Flags().Uint64Var(&start, "start", 0, "start time in seconds")
	command.Flags().Uint64Var(&end, "end", 0, "end time in seconds")
	command.Flags().Uint64Var(&cliff, "cliff", 0, "cliff time in seconds, 0 for none")
	command.Flags().Uint64Var(&cliffAmount, "cliff-amount", 0, "amount released at the cliff")
	command.Flags().Uint64Var(&period, "period", 1, "release period in seconds")
	command.Flags().Uint64Var(&releaseRate, "release-rate", 0, "fixed amount per period, 0 to derive from the total")
	command.Flags().StringVar(&displayName, "name", "", "display name, defaults to the stream name")
	command.Flags().BoolVar(&cancelableByBoth, "cancelable-by-recipient", false, "let the recipient cancel too")
	command.Flags().BoolVar(&transferableBySender, "transferable-by-sender", false, "let the sender transfer the recipient")
	_ = command.MarkFlagRequired("sender")
	_ = command.MarkFlagRequired("recipient")
	_ = command.MarkFlagRequired("amount")
	_ = command.MarkFlagRequired("start")
	_ = command.MarkFlagRequired("end")
	return command
}

func WithdrawCommand() *cobra.Command {
	var amount uint64
	command := &cobra.Command{
		Use:   "withdraw <stream>",
		Short: "Withdraw released tokens as the recipient, 0 or no --amount for everything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			record, recordAddr, err := loadStream(sim, args[0])
			if err != nil {
				return err
			}
			accounts := []*ledger.AccountRef{
				sim.ref(record.Recipient, true, true),
				sim.ref(record.Sender, true, false),
				sim.ref(record.Recipient, true, false),
				sim.ref(record.RecipientTokens, true, false),
				sim.ref(recordAddr, true, false),
				sim.ref(record.EscrowTokens, true, false),
				sim.ref(record.Mint, false, false),
			}
			if err := sim.run(cmd.Context(), accounts, amountPayload(types.OpWithdraw, amount)); err != nil {
				return err
			}
			cmd.Printf("Withdrawn from stream %q\n", args[0])
			return nil
		},
	}
	command.Flags().Uint64Var(&amount, "amount", 0, "amount in base units, 0 for everything available")
	return command
}

func CancelCommand() *cobra.Command {
	var as string
	command := &cobra.Command{
		Use:   "cancel <stream>",
		Short: "Cancel a stream, releasing vested tokens and returning the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			record, recordAddr, err := loadStream(sim, args[0])
			if err != nil {
				return err
			}
			authority := record.Sender
			if as != "" {
				authority = walletAddr(as)
			}
			accounts := []*ledger.AccountRef{
				sim.ref(authority, true, true),
				sim.ref(record.Sender, true, false),
				sim.ref(record.SenderTokens, true, false),
				sim.ref(record.Recipient, true, false),
				sim.ref(record.RecipientTokens, true, false),
				sim.ref(recordAddr, true, false),
				sim.ref(record.EscrowTokens, true, false),
				sim.ref(record.Mint, false, false),
			}
			if err := sim.run(cmd.Context(), accounts, []byte{types.OpCancel}); err != nil {
				return err
			}
			cmd.Printf("Canceled stream %q\n", args[0])
			return nil
		},
	}
	command.Flags().StringVar(&as, "as", "", "authorizing wallet name, defaults to the sender")
	return command
}

func TransferCommand() *cobra.Command {
	var as, newRecipient string
	command := &cobra.Command{
		Use:   "transfer <stream>",
		Short: "Transfer the stream to a new recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			record, recordAddr, err := loadStream(sim, args[0])
			if err != nil {
				return err
			}
			authority := record.Recipient
			if as != "" {
				authority = walletAddr(as)
			}
			target := walletAddr(newRecipient)
			accounts := []*ledger.AccountRef{
				sim.ref(authority, true, true),
				sim.ref(target, false, false),
				sim.ref(sim.tokens.CanonicalAddress(target, record.Mint), true, false),
				sim.ref(recordAddr, true, false),
				sim.ref(record.EscrowTokens, false, false),
				sim.ref(record.Mint, false, false),
			}
			if err := sim.run(cmd.Context(), accounts, []byte{types.OpTransferRecipient}); err != nil {
				return err
			}
			cmd.Printf("Stream %q now pays %s\n", args[0], newRecipient)
			return nil
		},
	}
	command.Flags().StringVar(&as, "as", "", "authorizing wallet name, defaults to the recipient")
	command.Flags().StringVar(&newRecipient, "new-recipient", "", "new recipient wallet name")
	_ = command.MarkFlagRequired("new-recipient")
	return command
}

func TopUpCommand() *cobra.Command {
	var amount uint64
	command := &cobra.Command{
		Use:   "topup <stream>",
		Short: "Deposit more tokens into a partially funded stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			record, recordAddr, err := loadStream(sim, args[0])
			if err != nil {
				return err
			}
			accounts := []*ledger.AccountRef{
				sim.ref(record.Sender, true, true),
				sim.ref(record.SenderTokens, true, false),
				sim.ref(recordAddr, true, false),
				sim.ref(record.EscrowTokens, true, false),
				sim.ref(record.Mint, false, false),
			}
			if err := sim.run(cmd.Context(), accounts, amountPayload(types.OpTopUp, amount)); err != nil {
				return err
			}
			cmd.Printf("Topped up stream %q by %d\n", args[0], amount)
			return nil
		},
	}
	command.Flags().Uint64Var(&amount, "amount", 0, "amount in base units")
	_ = command.MarkFlagRequired("amount")
	return command
}

func ShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <stream>",
		Short: "Show a stream's schedule and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := openSimulator(cmd.Context())
			if err != nil {
				return err
			}
			defer sim.Close()

			record, recordAddr, err := loadStream(sim, args[0])
			if err != nil {
				return err
			}
			mint, err := sim.tokens.UnpackMint(sim.ref(record.Mint, false, false))
			if err != nil {
				return fmt.Errorf("reading mint: %w", err)
			}
			dec := int(mint.Decimals)
			now := sim.ledger.Now()

			cmd.Printf("Stream %q (record %s)\n", record.Terms.Name, recordAddr)
			cmd.Printf("  sender:    %s\n", record.Sender)
			cmd.Printf("  recipient: %s\n", record.Recipient)
			cmd.Printf("  deposited: %s of %s\n",
				types.EncodeBase10(record.Terms.DepositedAmount, dec),
				types.EncodeBase10(record.Terms.TotalAmount, dec))
			cmd.Printf("  withdrawn: %s\n", types.EncodeBase10(record.WithdrawnAmount, dec))
			cmd.Printf("  schedule:  %d -> %d, period %ds\n",
				record.Terms.StartTime, record.Terms.EndTime, record.Terms.Period)
			if record.CanceledAt > 0 {
				cmd.Printf("  canceled at %d\n", record.CanceledAt)
				return nil
			}
			cmd.Printf("  closable:  %d\n", record.ClosableAt)

			available, err := record.Available(now)
			if err != nil {
				return err
			}
			cmd.Printf("  available: %s now (t=%d)\n", types.EncodeBase10(available, dec), now)
			if now < record.Terms.EndTime {
				cmd.Printf("  remaining: %s\n", types.PrettyTime(record.Terms.EndTime-now))
			}
			return nil
		},
	}
}
