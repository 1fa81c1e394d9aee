package escrow

import (
	"github.com/warp-contracts/escrow/src/utils/fault"
)

var (
	ErrInvalidAmount       = fault.New(fault.Validation, "amount must be positive")
	ErrInvalidReleaseTime  = fault.New(fault.Validation, "release time must be in the future")
	ErrInvalidShares       = fault.New(fault.Validation, "shares must sum to 100")
	ErrInvalidReason       = fault.New(fault.Validation, "invalid dispute reason")
	ErrInvalidEscrowStatus = fault.New(fault.State, "invalid escrow status")
	ErrEscrowNotFound      = fault.New(fault.NotFound, "escrow not found")
)
