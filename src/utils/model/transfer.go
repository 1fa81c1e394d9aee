package model

const (
	TableTransfer = "transfers"
)

// Append-only journal of value moved between accounts
type Transfer struct {
	Id        string `gorm:"primaryKey" json:"id"`
	From      string `gorm:"column:from_account; not null" json:"from"`
	To        string `gorm:"column:to_account; not null" json:"to"`
	Amount    uint64 `gorm:"not null" json:"amount"`
	Authority string `gorm:"not null" json:"authority"`
	Memo      string `json:"memo"`
	CreatedAt int64  `gorm:"autoCreateTime:false" json:"created_at"`
}

func (Transfer) TableName() string {
	return TableTransfer
}
