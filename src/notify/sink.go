package notify

import (
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/model"
	"github.com/warp-contracts/escrow/src/utils/monitoring"
	"github.com/warp-contracts/escrow/src/utils/task"
)

// Logs events, used when events aren't published anywhere
type LogSink struct {
	*task.Task

	monitor monitoring.Monitor
	input   chan *model.Event
}

func NewLogSink(config *config.Config) (self *LogSink) {
	self = new(LogSink)

	self.Task = task.NewTask(config, "event-log").
		WithSubtaskFunc(self.run)

	return
}

func (self *LogSink) WithInputChannel(v chan *model.Event) *LogSink {
	self.input = v
	return self
}

func (self *LogSink) WithMonitor(monitor monitoring.Monitor) *LogSink {
	self.monitor = monitor
	return self
}

func (self *LogSink) run() error {
	for event := range self.input {
		self.Log.WithField("kind", event.Kind).
			WithField("entity_id", event.EntityId).
			WithField("status", event.Status).
			WithField("caller", event.Caller).
			Info("Event")
		self.monitor.GetReport().Notifier.State.EventsLogged.Inc()
	}
	return nil
}
