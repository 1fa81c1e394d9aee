package model

import (
	"database/sql/driver"
	"fmt"
)

// CREATE TYPE escrow_status AS ENUM ('CREATED', 'RELEASED', 'REFUNDED', 'DISPUTED', 'RESOLVED');
type EscrowStatus string

const (
	EscrowStatusCreated  EscrowStatus = "CREATED"
	EscrowStatusReleased EscrowStatus = "RELEASED"
	EscrowStatusRefunded EscrowStatus = "REFUNDED"
	EscrowStatusDisputed EscrowStatus = "DISPUTED"
	EscrowStatusResolved EscrowStatus = "RESOLVED"
)

// Custody balance of a terminal escrow is empty and the escrow never changes again
func (self EscrowStatus) IsTerminal() bool {
	switch self {
	case EscrowStatusReleased, EscrowStatusRefunded, EscrowStatusResolved:
		return true
	}
	return false
}

func (self *EscrowStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*self = EscrowStatus(v)
	case []byte:
		*self = EscrowStatus(v)
	default:
		return fmt.Errorf("unsupported escrow status type %T", value)
	}
	return nil
}

func (self EscrowStatus) Value() (driver.Value, error) {
	return string(self), nil
}
