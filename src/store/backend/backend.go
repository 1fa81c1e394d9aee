// Package backend opens the store selected in the configuration.
package backend

import (
	"context"

	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/store/memory"
	"github.com/warp-contracts/escrow/src/store/postgres"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/logger"
	"github.com/warp-contracts/escrow/src/utils/model"
)

func New(ctx context.Context, conf *config.Config, clock clock.Clock, applicationName string) (store.Store, error) {
	log := logger.NewSublogger("store")

	switch conf.Store.Backend {
	case config.StoreBackendMemory:
		log.Warn("Using in-memory store, state lives only as long as the process")
		return memory.New(clock), nil
	case config.StoreBackendPostgres:
		db, err := model.NewConnection(ctx, conf, applicationName)
		if err != nil {
			log.WithError(err).Error("Failed to connect to the database")
			return nil, err
		}
		return postgres.New(db, clock).WithTimeout(conf.Database.OperationTimeout), nil
	default:
		return nil, config.ErrUnknownStoreBackend
	}
}
