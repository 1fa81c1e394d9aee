package model

const (
	TableMatch = "matches"
)

type Match struct {
	// Unique id of the match
	Id string `gorm:"primaryKey" json:"id"`

	// Matched demand and resource from the registries
	DemandId   string `gorm:"not null" json:"demand_id"`
	ResourceId string `gorm:"not null" json:"resource_id"`

	// Parties. Never change after creation
	Consumer string `gorm:"not null" json:"consumer"`
	Provider string `gorm:"not null" json:"provider"`

	// Identity that proposed the match, may be an automated agent
	Matcher string `gorm:"not null" json:"matcher"`

	// Usage window, unix seconds
	StartTime int64 `gorm:"not null" json:"start_time"`
	EndTime   int64 `gorm:"not null" json:"end_time"`

	PricePerHour uint64 `gorm:"not null" json:"price_per_hour"`
	TotalPrice   uint64 `gorm:"not null" json:"total_price"`

	// 0-100
	MatchScore uint8 `gorm:"not null" json:"match_score"`

	// Amount the consumer is expected to put in escrow
	EscrowAmount uint64 `gorm:"not null" json:"escrow_amount"`

	Status MatchStatus `gorm:"not null; type: match_status" json:"status"`

	CreatedAt int64 `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Match) TableName() string {
	return TableMatch
}
