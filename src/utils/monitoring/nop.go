package monitoring

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/warp-contracts/escrow/src/utils/monitoring/report"
)

// Monitor used when none is set. Counts into its own report, never exposes metrics
type Nop struct {
	Report report.Report
}

func NewNop() (self *Nop) {
	self = new(Nop)
	self.Report = report.Report{
		Run:            &report.RunReport{},
		Matching:       &report.MatchingReport{},
		Escrow:         &report.EscrowReport{},
		Watcher:        &report.WatcherReport{},
		Notifier:       &report.NotifierReport{},
		EventPublisher: &report.EventPublisherReport{},
	}
	return
}

func (self *Nop) GetReport() *report.Report {
	return &self.Report
}

func (self *Nop) GetPrometheusCollector() prometheus.Collector {
	return nopCollector{}
}

func (self *Nop) IsOK() bool {
	return true
}

func (self *Nop) OnGetState(c *gin.Context) {
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Nop) OnGetHealth(c *gin.Context) {
	c.Status(http.StatusOK)
}

type nopCollector struct{}

func (nopCollector) Describe(chan<- *prometheus.Desc) {}

func (nopCollector) Collect(chan<- prometheus.Metric) {}
