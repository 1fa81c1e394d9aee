package model

import (
	"github.com/lib/pq"
)

const (
	TableAccount = "accounts"
)

// Named balance in the ledger
type Account struct {
	Name string `gorm:"primaryKey" json:"name"`

	// Identity allowed to debit the balance
	Owner string `gorm:"not null" json:"owner"`

	// Additional identities allowed to debit the balance
	Delegates pq.StringArray `gorm:"type:text[]" json:"delegates"`

	Balance uint64 `gorm:"not null" json:"balance"`

	CreatedAt int64 `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Account) TableName() string {
	return TableAccount
}

func (self *Account) Clone() *Account {
	out := *self
	if self.Delegates != nil {
		out.Delegates = append(pq.StringArray{}, self.Delegates...)
	}
	return &out
}
