package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xraph/coin/account"
	"github.com/xraph/coin/journal"
	"github.com/xraph/coin/types"
)

func newInitCmd() *cobra.Command {
	var admin string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the ledger with an admin as minter and burner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledger.Initialize(cmd.Context(), types.AccountID(admin)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized: minter=%s burner=%s\n", admin, admin)
			return nil
		},
	}
	cmd.Flags().StringVar(&admin, "admin", "", "Account that becomes minter and burner")
	_ = cmd.MarkFlagRequired("admin")
	return cmd
}

func newMintCmd() *cobra.Command {
	var caller, to, amount string
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint new units into an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := types.ParseBalance(amount)
			if err != nil {
				return err
			}
			if err := ledger.Mint(cmd.Context(), types.AccountID(caller), types.AccountID(to), value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "minted %s to %s\n", value, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "Authenticated caller (must be the minter)")
	cmd.Flags().StringVar(&to, "to", "", "Beneficiary account")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to mint")
	_ = cmd.MarkFlagRequired("caller")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newBurnCmd() *cobra.Command {
	var caller, from, amount string
	var allowKilling bool
	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Burn units from an account",
		Long: `Burns units from an account. If the remainder would fall below the
minimum balance the burn fails, unless --allow-killing is given: then the
whole balance is burned and the account is removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := types.ParseBalance(amount)
			if err != nil {
				return err
			}
			target := types.AccountID(from)
			before, err := ledger.BalanceOf(cmd.Context(), target)
			if err != nil {
				return err
			}
			if err := ledger.Burn(cmd.Context(), types.AccountID(caller), target, value, allowKilling); err != nil {
				return err
			}
			after, err := ledger.BalanceOf(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "burned %s from %s\n", before-after, from)
			if after.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "account %s removed\n", from)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "Authenticated caller (must be the burner)")
	cmd.Flags().StringVar(&from, "from", "", "Target account")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to burn")
	cmd.Flags().BoolVar(&allowKilling, "allow-killing", false, "Sweep and remove the account instead of leaving dust")
	_ = cmd.MarkFlagRequired("caller")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Print the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bal, err := ledger.BalanceOf(cmd.Context(), types.AccountID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bal)
			return nil
		},
	}
}

func newIssuanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issuance",
		Short: "Print total issuance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := ledger.TotalIssuance(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), total)
			return nil
		},
	}
}

func newAccountsCmd() *cobra.Command {
	var opts account.ListOpts
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := ledger.Accounts(cmd.Context(), opts)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ACCOUNT\tBALANCE")
			for _, a := range accounts {
				fmt.Fprintf(w, "%s\t%s\n", a.ID, a.Balance)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of accounts (0 = all)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Number of accounts to skip")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var acct string
	var opts journal.ListOpts
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List committed transitions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Account = types.AccountID(acct)
			history, err := ledger.History(cmd.Context(), opts)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SEQ\tID\tOP\tACCOUNT\tAMOUNT\tISSUANCE\tNOTE")
			for _, t := range history {
				note := ""
				switch {
				case t.Created:
					note = "created"
				case t.Killed:
					note = "killed"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", t.Seq, t.ID, t.Op, t.Account, t.Amount, t.Issuance, note)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&acct, "account", "", "Only show transitions of this account")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "Maximum number of transitions (0 = all)")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that balances sum to issuance and no account holds dust",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ledger.Verify(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
