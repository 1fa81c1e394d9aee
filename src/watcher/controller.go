package watcher

import (
	"context"

	"github.com/warp-contracts/escrow/src/escrow"
	"github.com/warp-contracts/escrow/src/notify"
	"github.com/warp-contracts/escrow/src/store/backend"
	"github.com/warp-contracts/escrow/src/utils/clock"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/model"
	"github.com/warp-contracts/escrow/src/utils/monitoring"
	monitor_escrow "github.com/warp-contracts/escrow/src/utils/monitoring/escrow"
	"github.com/warp-contracts/escrow/src/utils/publisher"
	"github.com/warp-contracts/escrow/src/utils/task"
)

// Runs the watcher together with monitoring and event delivery
type Controller struct {
	*task.Task
}

func NewController(ctx context.Context, config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "watch").
		WithContext(ctx)

	clock := clock.NewSystem()

	store, err := backend.New(self.Ctx, config, clock, "watcher")
	if err != nil {
		return
	}

	// Monitoring
	monitor := monitor_escrow.NewMonitor(config)
	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Events from the vault, published or logged
	notifier := notify.NewChannel(config).
		WithMonitor(monitor)

	var delivery *task.Task
	if config.Notifier.Enabled {
		delivery = publisher.NewRedisPublisher[*model.Event](config, "event-publisher").
			WithChannelName(config.Notifier.ChannelName).
			WithInputChannel(notifier.Output).
			WithMonitor(monitor).
			Task
	} else {
		delivery = notify.NewLogSink(config).
			WithInputChannel(notifier.Output).
			WithMonitor(monitor).
			Task
	}

	vault := escrow.NewVault(config).
		WithStore(store).
		WithClock(clock).
		WithNotifier(notifier).
		WithMonitor(monitor)

	watcher := NewWatcher(config).
		WithStore(store).
		WithVault(vault).
		WithClock(clock).
		WithMonitor(monitor)

	// No more events once the watcher is done, delivery finishes after draining the buffer
	watcher.WithOnAfterStop(notifier.Close)

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(watcher.Task).
		WithSubtask(delivery).
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithOnAfterStop(func() {
			err := store.Close()
			if err != nil {
				self.Log.WithError(err).Error("Failed to close store")
			}
		})
	return
}
