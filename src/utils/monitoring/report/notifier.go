package report

import (
	"go.uber.org/atomic"
)

type NotifierState struct {
	EventsQueued  atomic.Uint64 `json:"events_queued"`
	EventsDropped atomic.Uint64 `json:"events_dropped"`
	EventsLogged  atomic.Uint64 `json:"events_logged"`
}

type NotifierReport struct {
	State NotifierState `json:"state"`
}
