package model

import (
	"encoding/json"
)

type EventKind string

const (
	EventMatchCreated       EventKind = "match.created"
	EventMatchStatusUpdated EventKind = "match.status_updated"
	EventEscrowCreated      EventKind = "escrow.created"
	EventEscrowReleased     EventKind = "escrow.released"
	EventEscrowRefunded     EventKind = "escrow.refunded"
	EventEscrowDisputed     EventKind = "escrow.disputed"
	EventDisputeResolved    EventKind = "escrow.dispute_resolved"
)

// Immutable record of a completed state transition. Never read back by the service
type Event struct {
	Id        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	EntityId  string    `json:"entity_id"`
	MatchId   string    `json:"match_id,omitempty"`
	Status    string    `json:"status"`
	Caller    string    `json:"caller,omitempty"`
	Timestamp int64     `json:"timestamp"`

	// Parties and amounts, filled when relevant for the transition
	Demand         string `json:"demand,omitempty"`
	Resource       string `json:"resource,omitempty"`
	Consumer       string `json:"consumer,omitempty"`
	Provider       string `json:"provider,omitempty"`
	Amount         uint64 `json:"amount,omitempty"`
	TotalPrice     uint64 `json:"total_price,omitempty"`
	ConsumerAmount uint64 `json:"consumer_amount,omitempty"`
	ProviderAmount uint64 `json:"provider_amount,omitempty"`
	ConsumerShare  uint8  `json:"consumer_share,omitempty"`
	ProviderShare  uint8  `json:"provider_share,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

func (self *Event) MarshalBinary() (data []byte, err error) {
	return json.Marshal(self)
}
