package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp-contracts/escrow/src/utils/fault"
)

var (
	ErrUnknownStoreBackend      = errors.New("unknown store backend")
	ErrArbitratorNotSet         = errors.New("escrow arbitrator identity not set")
	ErrCustodySecretShort       = errors.New("escrow custody secret must have at least 16 bytes")
	ErrDevelopmentCustodySecret = errors.New("escrow custody secret has to be set outside of development mode")

	// Shared with the guard, identities supplied by callers fail with it too
	ErrReservedIdentity = fault.New(fault.Validation, "identity uses a reserved prefix")
)

// Checks values that can't be expressed as defaults
func (self *Config) Validate() error {
	switch self.Store.Backend {
	case StoreBackendMemory, StoreBackendPostgres:
	default:
		return ErrUnknownStoreBackend
	}

	if strings.TrimSpace(self.Escrow.Arbitrator) == "" {
		return ErrArbitratorNotSet
	}

	if len(self.Escrow.CustodySecret) < 16 {
		return ErrCustodySecretShort
	}

	for _, identity := range []string{self.Escrow.Arbitrator, self.Watcher.Identity} {
		if strings.HasPrefix(identity, ReservedIdentityPrefix) {
			return fmt.Errorf("%w: %s", ErrReservedIdentity, identity)
		}
	}

	if self.Escrow.CustodySecret == DevelopmentCustodySecret && !self.IsDevelopment {
		return ErrDevelopmentCustodySecret
	}

	return nil
}
