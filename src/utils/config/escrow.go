package config

import (
	"github.com/spf13/viper"
)

// Identities starting with this prefix belong to custody accounts
const ReservedIdentityPrefix = "custody"

// Published with the code, accepted only in development mode
const DevelopmentCustodySecret = "development-custody-secret"

type Escrow struct {
	// Identity allowed to refund escrows and resolve disputes
	Arbitrator string

	// Key used to derive custody authorities. Never leaves the vault.
	CustodySecret string

	// Max length of the dispute reason in bytes
	MaxDisputeReasonLength int
}

func setEscrowDefaults() {
	viper.SetDefault("Escrow.Arbitrator", "arbitrator")
	viper.SetDefault("Escrow.CustodySecret", DevelopmentCustodySecret)
	viper.SetDefault("Escrow.MaxDisputeReasonLength", "1024")
}
