package notify

import (
	"github.com/warp-contracts/escrow/src/utils/model"
)

// Receives events of committed state transitions. Implementations never block the caller
type Notifier interface {
	Notify(event *model.Event)
}

// Discards all events
type Nop struct{}

func (Nop) Notify(*model.Event) {}
