package report

import (
	"go.uber.org/atomic"
)

type MatchingState struct {
	MatchesCreated   atomic.Uint64 `json:"matches_created"`
	ConsumerAccepted atomic.Uint64 `json:"consumer_accepted"`
	Confirmed        atomic.Uint64 `json:"confirmed"`
	Rejected         atomic.Uint64 `json:"rejected"`
	Completed        atomic.Uint64 `json:"completed"`
}

type MatchingReport struct {
	State  MatchingState   `json:"state"`
	Errors OperationErrors `json:"errors"`
}
