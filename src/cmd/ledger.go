package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp-contracts/escrow/src/guard"
	"github.com/warp-contracts/escrow/src/ledger"
	"github.com/warp-contracts/escrow/src/store"
)

var accountDelegates []string

func init() {
	ledgerOpenCmd.Flags().StringSliceVar(&accountDelegates, "delegate", nil, "identity allowed to debit the account, can be repeated")

	ledgerCmd.AddCommand(ledgerOpenCmd, ledgerBalanceCmd)
	RootCmd.AddCommand(ledgerCmd)
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Accounts holding balances",
}

var ledgerOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open an empty account named after and owned by the caller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAs(func(s *services, caller string) (out any, err error) {
			for _, delegate := range accountDelegates {
				err = guard.CheckIdentity(delegate)
				if err != nil {
					return
				}
			}

			err = s.store.Atomic(applicationCtx, func(tx store.Tx) error {
				return tx.Ledger().Open(applicationCtx, caller, caller, accountDelegates...)
			})
			if err != nil {
				return
			}
			return s.store.Account(applicationCtx, caller)
		})
	},
}

var ledgerBalanceCmd = &cobra.Command{
	Use:   "balance <account name>",
	Short: "Print the account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(s *services) (any, error) {
			account, err := s.store.Account(applicationCtx, args[0])
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, args[0])
			}
			return account, err
		})
	},
}
