package monitor_escrow

import (
	"math"
	"net/http"
	"time"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/monitoring/report"
	"github.com/warp-contracts/escrow/src/utils/task"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report report.Report

	historySize int
	collector   *Collector

	// Num of settled escrows, sampled every minute
	SettledCounts *deque.Deque[uint64]
}

func NewMonitor(config *config.Config) (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:            &report.RunReport{},
		Matching:       &report.MatchingReport{},
		Escrow:         &report.EscrowReport{},
		Watcher:        &report.WatcherReport{},
		Notifier:       &report.NotifierReport{},
		EventPublisher: &report.EventPublisherReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(config, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorSettlements)

	return self.WithMaxHistorySize(30)
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.historySize = maxHistorySize
	self.SettledCounts = deque.New[uint64](self.historySize)
	return self
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

// Escrows that reached a terminal state
func (self *Monitor) settled() uint64 {
	state := &self.Report.Escrow.State
	return state.EscrowsReleased.Load() + state.EscrowsRefunded.Load() + state.EscrowsResolved.Load()
}

// Measure settlement speed
func (self *Monitor) monitorSettlements() (err error) {
	self.SettledCounts.PushBack(self.settled())
	if self.SettledCounts.Len() > self.historySize {
		self.SettledCounts.PopFront()
	}

	value := float64(self.SettledCounts.Back()-self.SettledCounts.Front()) / float64(self.SettledCounts.Len())
	self.Report.Escrow.State.AverageSettledPerMinute.Store(round(value))
	return
}

func (self *Monitor) IsOK() bool {
	// Unhealthy when the watcher keeps failing without a single release
	errors := self.Report.Watcher.Errors.ReleaseError.Load()
	released := self.Report.Watcher.State.EscrowsReleased.Load()
	return errors < 10 || released > 0
}

func (self *Monitor) OnGetState(c *gin.Context) {
	self.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load()))
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
