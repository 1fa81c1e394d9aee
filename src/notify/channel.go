package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/logger"
	"github.com/warp-contracts/escrow/src/utils/model"
	"github.com/warp-contracts/escrow/src/utils/monitoring"
)

// Buffers events for a single consumer. Events that don't fit into the buffer are dropped
type Channel struct {
	log     *logrus.Entry
	monitor monitoring.Monitor

	mtx    sync.RWMutex
	closed bool

	Output chan *model.Event
}

func NewChannel(config *config.Config) (self *Channel) {
	self = new(Channel)
	self.log = logger.NewSublogger("notifier")
	self.monitor = monitoring.NewNop()
	self.Output = make(chan *model.Event, config.Notifier.BufferSize)
	return
}

func (self *Channel) WithMonitor(monitor monitoring.Monitor) *Channel {
	self.monitor = monitor
	return self
}

func (self *Channel) Notify(event *model.Event) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	if self.closed {
		self.log.WithField("kind", event.Kind).WithField("entity_id", event.EntityId).Warn("Notifier closed, event dropped")
		self.monitor.GetReport().Notifier.State.EventsDropped.Inc()
		return
	}

	select {
	case self.Output <- event:
		self.monitor.GetReport().Notifier.State.EventsQueued.Inc()
	default:
		self.log.WithField("kind", event.Kind).WithField("entity_id", event.EntityId).Warn("Notification buffer full, event dropped")
		self.monitor.GetReport().Notifier.State.EventsDropped.Inc()
	}
}

// Closes the output channel, consumers finish after draining it. Safe to call multiple times
func (self *Channel) Close() {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.closed {
		return
	}
	self.closed = true
	close(self.Output)
}
