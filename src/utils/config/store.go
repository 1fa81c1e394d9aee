package config

import (
	"github.com/spf13/viper"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
)

type Store struct {
	// Where matches, escrows and balances are kept: memory or postgres
	Backend string

	// Max number of escrows returned by a single releasable escrows query
	MaxReleasableBatchSize int
}

func setStoreDefaults() {
	viper.SetDefault("Store.Backend", StoreBackendPostgres)
	viper.SetDefault("Store.MaxReleasableBatchSize", "100")
}
