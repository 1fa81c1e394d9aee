package model

import (
	"database/sql/driver"
	"fmt"
)

// CREATE TYPE match_status AS ENUM ('CREATED', 'CONSUMER_ACCEPTED', 'CONFIRMED', 'REJECTED', 'COMPLETED');
type MatchStatus string

const (
	MatchStatusCreated          MatchStatus = "CREATED"
	MatchStatusConsumerAccepted MatchStatus = "CONSUMER_ACCEPTED"
	MatchStatusConfirmed        MatchStatus = "CONFIRMED"
	MatchStatusRejected         MatchStatus = "REJECTED"
	MatchStatusCompleted        MatchStatus = "COMPLETED"
)

// Rejected and Completed matches are kept only as a historical record
func (self MatchStatus) IsTerminal() bool {
	return self == MatchStatusRejected || self == MatchStatusCompleted
}

func (self *MatchStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*self = MatchStatus(v)
	case []byte:
		*self = MatchStatus(v)
	default:
		return fmt.Errorf("unsupported match status type %T", value)
	}
	return nil
}

func (self MatchStatus) Value() (driver.Value, error) {
	return string(self), nil
}
