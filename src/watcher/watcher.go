// Package watcher releases escrows whose release time has passed.
package watcher

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/warp-contracts/escrow/src/escrow"
	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/model"
	"github.com/warp-contracts/escrow/src/utils/monitoring"
	"github.com/warp-contracts/escrow/src/utils/task"
	"go.uber.org/ratelimit"
)

// Periodically looks for escrows past their release time and releases them to the provider
type Watcher struct {
	*task.Task

	store   store.Store
	vault   *escrow.Vault
	clock   clock.Clock
	monitor monitoring.Monitor

	// Escrows being released or waiting after a failure
	pending *cache.Cache
	limiter ratelimit.Limiter
}

func NewWatcher(config *config.Config) (self *Watcher) {
	self = new(Watcher)
	self.clock = clock.NewSystem()
	self.monitor = monitoring.NewNop()

	self.pending = cache.New(config.Watcher.FailureCooldown, 2*config.Watcher.FailureCooldown)

	if config.Watcher.MaxReleasesPerSecond > 0 {
		self.limiter = ratelimit.New(config.Watcher.MaxReleasesPerSecond)
	} else {
		self.limiter = ratelimit.NewUnlimited()
	}

	self.Task = task.NewTask(config, "watcher").
		WithPeriodicSubtaskFunc(config.Watcher.Interval, self.poll).
		WithWorkerPool(config.Watcher.MaxWorkers, config.Store.MaxReleasableBatchSize)

	return
}

func (self *Watcher) WithStore(v store.Store) *Watcher {
	self.store = v
	return self
}

func (self *Watcher) WithVault(v *escrow.Vault) *Watcher {
	self.vault = v
	return self
}

func (self *Watcher) WithClock(v clock.Clock) *Watcher {
	self.clock = v
	return self
}

func (self *Watcher) WithMonitor(v monitoring.Monitor) *Watcher {
	self.monitor = v
	return self
}

func (self *Watcher) poll() error {
	report := self.monitor.GetReport().Watcher

	escrows, err := self.store.Releasable(self.Ctx, self.clock.Now(), self.Config.Store.MaxReleasableBatchSize)
	if err != nil {
		if self.IsStopping.Load() {
			return nil
		}
		// Next poll will retry
		self.Log.WithError(err).Error("Failed to get releasable escrows")
		report.Errors.PollError.Inc()
		return nil
	}

	report.State.LastPollTimestamp.Store(time.Now().Unix())
	report.State.EscrowsPolled.Add(uint64(len(escrows)))

	for _, e := range escrows {
		// Fails if the escrow is already in progress or cooling down
		err = self.pending.Add(e.Id, struct{}{}, cache.NoExpiration)
		if err != nil {
			report.State.EscrowsSkipped.Inc()
			continue
		}

		e := e
		self.SubmitToWorker(func() {
			self.release(e)
		})
	}

	if len(escrows) > 0 {
		self.Log.WithField("count", len(escrows)).Debug("Releasing escrows")
	}
	return nil
}

func (self *Watcher) release(e *model.Escrow) {
	report := self.monitor.GetReport().Watcher
	self.limiter.Take()

	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Watcher.ReleaseTimeout)
	defer cancel()

	_, err := self.vault.ReleaseFunds(ctx, self.Config.Watcher.Identity, e.Id)
	switch {
	case err == nil:
		self.pending.Delete(e.Id)
		report.State.EscrowsReleased.Inc()
	case errors.Is(err, escrow.ErrInvalidEscrowStatus):
		// Settled by someone else since the poll
		self.pending.Delete(e.Id)
		report.State.EscrowsSkipped.Inc()
	default:
		self.Log.WithError(err).WithField("escrow_id", e.Id).Warn("Failed to release escrow")
		self.pending.Set(e.Id, struct{}{}, cache.DefaultExpiration)
		report.Errors.ReleaseError.Inc()
	}
}
