package report

import (
	"go.uber.org/atomic"
)

type EventPublisherErrors struct {
	// Attempts that failed and were retried
	FailedAttempts atomic.Uint64 `json:"failed_attempts"`

	// Events given up on after every retry failed
	EventsLost atomic.Uint64 `json:"events_lost"`
}

type EventPublisherState struct {
	EventsPublished        atomic.Uint64 `json:"events_published"`
	LastPublishedTimestamp atomic.Int64  `json:"last_published_timestamp"`
}

type EventPublisherReport struct {
	State  EventPublisherState  `json:"state"`
	Errors EventPublisherErrors `json:"errors"`
}
