package model

import (
	"github.com/jackc/pgtype"
)

const (
	TableEscrow = "escrows"
)

type Escrow struct {
	// Unique id of the escrow
	Id string `gorm:"primaryKey" json:"id"`

	// Match this escrow pays for
	MatchId string `gorm:"not null; index" json:"match_id"`

	Consumer string `gorm:"not null" json:"consumer"`
	Provider string `gorm:"not null" json:"provider"`

	// Value held in custody from creation until the terminal transfer
	Amount uint64 `gorm:"not null" json:"amount"`

	// Earliest time anyone, not only the consumer, may release the funds. Unix seconds
	ReleaseTime int64 `gorm:"not null" json:"release_time"`

	Status EscrowStatus `gorm:"not null; type: escrow_status" json:"status"`

	// Set when disputed
	DisputeReason pgtype.Text `json:"dispute_reason"`
	DisputedBy    pgtype.Text `json:"disputed_by"`

	// Set when the dispute is resolved
	ConsumerShare pgtype.Int2 `json:"consumer_share"`
	ProviderShare pgtype.Int2 `json:"provider_share"`

	CreatedAt int64 `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Escrow) TableName() string {
	return TableEscrow
}
