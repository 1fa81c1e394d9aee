// Package ledger describes the value transfer primitive: named balances that only their owner
// or a delegate may debit.
package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/model"
)

type Ledger interface {
	// Creates an empty account. Fails with ErrAccountExists or the errors of CheckOpen
	Open(ctx context.Context, name, owner string, delegates ...string) error

	// Returns the account or ErrAccountNotFound
	Account(ctx context.Context, name string) (*model.Account, error)

	// Moves amount from one account to another. The authority has to own the source account or be its delegate.
	// Destination account that doesn't exist is opened and owned by its name.
	Transfer(ctx context.Context, authority, from, to string, amount uint64, memo string) (*model.Transfer, error)
}

// Accounts named after an identity belong to that identity, payouts to it can't end up owned by anyone else.
// Only accounts with reserved names, like escrow custody, may have a different owner.
func CheckOpen(name, owner string) error {
	if name == "" || owner == "" {
		return ErrInvalidAccount
	}
	if name != owner && !strings.HasPrefix(name, config.ReservedIdentityPrefix) {
		return fmt.Errorf("%w: %s can't own %s", ErrForeignAccount, owner, name)
	}
	return nil
}

// Checks whether authority may debit amount from the account
func CheckDebit(account *model.Account, authority string, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if !IsAuthorized(account, authority) {
		return fmt.Errorf("%w: %s can't debit %s", ErrUnauthorizedDebit, authority, account.Name)
	}
	if account.Balance < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, account.Name, account.Balance, amount)
	}
	return nil
}

// Checks whether amount can be added to the account. Accounts held by someone other than the identity
// they are named after never receive funds
func CheckCredit(account *model.Account, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	err := CheckOpen(account.Name, account.Owner)
	if err != nil {
		return err
	}
	if account.Balance > math.MaxUint64-amount {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, account.Name)
	}
	return nil
}

func IsAuthorized(account *model.Account, authority string) bool {
	if authority == "" {
		return false
	}
	if account.Owner == authority {
		return true
	}
	for _, delegate := range account.Delegates {
		if delegate == authority {
			return true
		}
	}
	return false
}

func CheckTransfer(from, to string) error {
	if from == "" || to == "" {
		return ErrAccountNotFound
	}
	if from == to {
		return ErrSelfTransfer
	}
	return nil
}
