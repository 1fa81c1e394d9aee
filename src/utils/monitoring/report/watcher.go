package report

import (
	"go.uber.org/atomic"
)

type WatcherErrors struct {
	PollError    atomic.Uint64 `json:"poll_error"`
	ReleaseError atomic.Uint64 `json:"release_error"`
}

type WatcherState struct {
	LastPollTimestamp atomic.Int64  `json:"last_poll_timestamp"`
	EscrowsPolled     atomic.Uint64 `json:"escrows_polled"`
	EscrowsSkipped    atomic.Uint64 `json:"escrows_skipped"`
	EscrowsReleased   atomic.Uint64 `json:"escrows_released"`
}

type WatcherReport struct {
	State  WatcherState  `json:"state"`
	Errors WatcherErrors `json:"errors"`
}
