package cmd

import (
	"encoding/json"
	"io"

	"github.com/warp-contracts/escrow/src/escrow"
	"github.com/warp-contracts/escrow/src/guard"
	"github.com/warp-contracts/escrow/src/matching"
	"github.com/warp-contracts/escrow/src/notify"
	"github.com/warp-contracts/escrow/src/store"
	"github.com/warp-contracts/escrow/src/store/backend"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/logger"
	"github.com/warp-contracts/escrow/src/utils/model"
	monitor_escrow "github.com/warp-contracts/escrow/src/utils/monitoring/escrow"
	"github.com/warp-contracts/escrow/src/utils/publisher"
	"github.com/warp-contracts/escrow/src/utils/task"
)

// Everything a single operation needs
type services struct {
	store    store.Store
	engine   *matching.Engine
	vault    *escrow.Vault
	notifier *notify.Channel
	delivery *task.Task
}

func newServices() (self *services, err error) {
	self = new(services)

	clock := clock.NewSystem()
	monitor := monitor_escrow.NewMonitor(conf)

	self.store, err = backend.New(applicationCtx, conf, clock, "cli")
	if err != nil {
		return
	}

	self.notifier = notify.NewChannel(conf).
		WithMonitor(monitor)

	if conf.Notifier.Enabled {
		self.delivery = publisher.NewRedisPublisher[*model.Event](conf, "event-publisher").
			WithChannelName(conf.Notifier.ChannelName).
			WithInputChannel(self.notifier.Output).
			WithMonitor(monitor).
			Task
	} else {
		self.delivery = notify.NewLogSink(conf).
			WithInputChannel(self.notifier.Output).
			WithMonitor(monitor).
			Task
	}

	err = self.delivery.Start()
	if err != nil {
		self.store.Close()
		return
	}

	self.engine = matching.NewEngine(conf).
		WithStore(self.store).
		WithClock(clock).
		WithNotifier(self.notifier).
		WithMonitor(monitor)

	self.vault = escrow.NewVault(conf).
		WithStore(self.store).
		WithClock(clock).
		WithNotifier(self.notifier).
		WithMonitor(monitor)

	return
}

// Delivers pending events and releases the store
func (self *services) Close() {
	log := logger.NewSublogger("cli")

	self.notifier.Close()
	select {
	case <-self.delivery.CtxRunning.Done():
	case <-applicationCtx.Done():
	}
	self.delivery.StopWait()

	err := self.store.Close()
	if err != nil {
		log.WithError(err).Error("Failed to close store")
	}
}

// Runs a read-only command body
func run(f func(s *services) (any, error)) (err error) {
	s, err := newServices()
	if err != nil {
		return
	}
	defer s.Close()

	out, err := f(s)
	if err != nil {
		return
	}
	return printJSON(RootCmd.OutOrStdout(), out)
}

// Runs a command body on behalf of the --caller identity
func runAs(f func(s *services, caller string) (any, error)) (err error) {
	err = guard.CheckIdentity(caller)
	if err != nil {
		return
	}

	return run(func(s *services) (any, error) {
		return f(s, caller)
	})
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
