// Package guard checks that the caller of an operation is an identity allowed to perform it.
package guard

import (
	"fmt"
	"strings"

	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/fault"
)

var (
	ErrUnauthorized     = fault.New(fault.Authorization, "unauthorized")
	ErrMissingIdentity  = fault.New(fault.Validation, "caller identity is empty")
	ErrReservedIdentity = config.ErrReservedIdentity
)

// Validates an identity supplied from outside the service
func CheckIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return ErrMissingIdentity
	}
	if strings.HasPrefix(identity, config.ReservedIdentityPrefix) {
		return fmt.Errorf("%w: %s", ErrReservedIdentity, identity)
	}
	return nil
}

// Caller has to be the expected identity
func Require(caller, expected, action string) error {
	if caller == "" || caller != expected {
		return fmt.Errorf("%w: %s", ErrUnauthorized, action)
	}
	return nil
}

// Caller has to be one of the allowed identities
func RequireOneOf(caller string, allowed []string, action string) error {
	if caller != "" {
		for _, identity := range allowed {
			if caller == identity {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrUnauthorized, action)
}
