package report

import (
	"go.uber.org/atomic"
)

type EscrowState struct {
	EscrowsCreated  atomic.Uint64 `json:"escrows_created"`
	EscrowsReleased atomic.Uint64 `json:"escrows_released"`
	EscrowsRefunded atomic.Uint64 `json:"escrows_refunded"`
	EscrowsDisputed atomic.Uint64 `json:"escrows_disputed"`
	EscrowsResolved atomic.Uint64 `json:"escrows_resolved"`

	// Sum of amounts moved into and out of custody
	AmountDeposited atomic.Uint64 `json:"amount_deposited"`
	AmountReleased  atomic.Uint64 `json:"amount_released"`
	AmountRefunded  atomic.Uint64 `json:"amount_refunded"`
	AmountResolved  atomic.Uint64 `json:"amount_resolved"`

	// Escrows reaching a terminal state per minute, averaged over the history window
	AverageSettledPerMinute atomic.Float64 `json:"average_settled_per_minute"`
}

type EscrowReport struct {
	State  EscrowState     `json:"state"`
	Errors OperationErrors `json:"errors"`
}
