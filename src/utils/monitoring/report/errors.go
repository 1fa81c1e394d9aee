package report

import (
	"github.com/warp-contracts/escrow/src/utils/fault"
	"go.uber.org/atomic"
)

// Failed operations counted by the kind of failure
type OperationErrors struct {
	Validation    atomic.Uint64 `json:"validation"`
	Authorization atomic.Uint64 `json:"authorization"`
	State         atomic.Uint64 `json:"state"`
	Transfer      atomic.Uint64 `json:"transfer"`
	NotFound      atomic.Uint64 `json:"not_found"`
	Internal      atomic.Uint64 `json:"internal"`
}

func (self *OperationErrors) Inc(err error) {
	switch fault.KindOf(err) {
	case fault.Validation:
		self.Validation.Inc()
	case fault.Authorization:
		self.Authorization.Inc()
	case fault.State:
		self.State.Inc()
	case fault.Transfer:
		self.Transfer.Inc()
	case fault.NotFound:
		self.NotFound.Inc()
	case fault.Internal:
		self.Internal.Inc()
	}
}
