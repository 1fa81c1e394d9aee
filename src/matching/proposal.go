package matching

import (
	"github.com/warp-contracts/escrow/src/guard"
)

// Terms put forward by the matcher
type Proposal struct {
	DemandId   string `json:"demand_id"`
	ResourceId string `json:"resource_id"`
	Consumer   string `json:"consumer"`
	Provider   string `json:"provider"`

	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`

	PricePerHour uint64 `json:"price_per_hour"`
	TotalPrice   uint64 `json:"total_price"`
	MatchScore   uint8  `json:"match_score"`
	EscrowAmount uint64 `json:"escrow_amount"`
}

func (self *Proposal) Validate() (err error) {
	if self.EndTime <= self.StartTime {
		return ErrInvalidTimeRange
	}
	if self.PricePerHour == 0 || self.TotalPrice == 0 {
		return ErrInvalidPrice
	}
	if self.MatchScore > 100 {
		return ErrInvalidMatchScore
	}
	if self.DemandId == "" || self.ResourceId == "" {
		return ErrMissingReference
	}

	err = guard.CheckIdentity(self.Consumer)
	if err != nil {
		return
	}
	return guard.CheckIdentity(self.Provider)
}
