package escrow

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/warp-contracts/escrow/src/utils/config"
)

const (
	custodyAccountPrefix   = config.ReservedIdentityPrefix + "/"
	custodyAuthorityPrefix = config.ReservedIdentityPrefix + "-authority/"
)

// Name of the account holding the escrowed value
func CustodyAccount(escrowId string) string {
	return custodyAccountPrefix + escrowId
}

// Only the vault can compute it, callers can't supply identities with the reserved prefix
func (self *Vault) custodyAuthority(escrowId string) string {
	mac := hmac.New(sha256.New, self.secret)
	mac.Write([]byte("escrow"))
	mac.Write([]byte(escrowId))
	return custodyAuthorityPrefix + hex.EncodeToString(mac.Sum(nil))
}
