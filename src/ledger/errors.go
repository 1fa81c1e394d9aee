package ledger

import "github.com/warp-contracts/escrow/src/utils/fault"

var (
	ErrInsufficientFunds = fault.New(fault.Transfer, "insufficient funds")
	ErrUnauthorizedDebit = fault.New(fault.Transfer, "authority can't debit the account")
	ErrBalanceOverflow   = fault.New(fault.Transfer, "balance overflow")
	ErrInvalidAmount     = fault.New(fault.Validation, "transfer amount must be greater than zero")
	ErrSelfTransfer      = fault.New(fault.Validation, "source and destination are the same account")
	ErrAccountNotFound   = fault.New(fault.NotFound, "account not found")
	ErrAccountExists     = fault.New(fault.State, "account already exists")
	ErrInvalidAccount    = fault.New(fault.Validation, "account name and owner are required")
	ErrForeignAccount    = fault.New(fault.Authorization, "account can only be opened by the identity it is named after")
)
