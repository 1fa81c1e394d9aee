package monitor_escrow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/warp-contracts/escrow/src/utils/monitoring/report"
)

type Collector struct {
	monitor *Monitor

	// Run
	UpForSeconds *prometheus.Desc

	// Matching
	MatchesCreated   *prometheus.Desc
	ConsumerAccepted *prometheus.Desc
	Confirmed        *prometheus.Desc
	Rejected         *prometheus.Desc
	Completed        *prometheus.Desc

	// Escrow
	EscrowsCreated          *prometheus.Desc
	EscrowsReleased         *prometheus.Desc
	EscrowsRefunded         *prometheus.Desc
	EscrowsDisputed         *prometheus.Desc
	EscrowsResolved         *prometheus.Desc
	AmountDeposited         *prometheus.Desc
	AmountReleased          *prometheus.Desc
	AmountRefunded          *prometheus.Desc
	AmountResolved          *prometheus.Desc
	AverageSettledPerMinute *prometheus.Desc

	// Operation errors, labeled by component and kind
	OperationErrors *prometheus.Desc

	// Watcher
	WatcherLastPollTimestamp *prometheus.Desc
	WatcherEscrowsPolled     *prometheus.Desc
	WatcherEscrowsSkipped    *prometheus.Desc
	WatcherEscrowsReleased   *prometheus.Desc
	WatcherPollError         *prometheus.Desc
	WatcherReleaseError      *prometheus.Desc

	// Notifier
	EventsQueued  *prometheus.Desc
	EventsDropped *prometheus.Desc
	EventsLogged  *prometheus.Desc

	// Event publisher
	EventsPublished     *prometheus.Desc
	EventPublishAttempt *prometheus.Desc
	EventsLost          *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "escrow",
	}

	return &Collector{
		UpForSeconds: prometheus.NewDesc("up_for_seconds", "", nil, labels),

		MatchesCreated:   prometheus.NewDesc("matches_created", "", nil, labels),
		ConsumerAccepted: prometheus.NewDesc("matches_consumer_accepted", "", nil, labels),
		Confirmed:        prometheus.NewDesc("matches_confirmed", "", nil, labels),
		Rejected:         prometheus.NewDesc("matches_rejected", "", nil, labels),
		Completed:        prometheus.NewDesc("matches_completed", "", nil, labels),

		EscrowsCreated:          prometheus.NewDesc("escrows_created", "", nil, labels),
		EscrowsReleased:         prometheus.NewDesc("escrows_released", "", nil, labels),
		EscrowsRefunded:         prometheus.NewDesc("escrows_refunded", "", nil, labels),
		EscrowsDisputed:         prometheus.NewDesc("escrows_disputed", "", nil, labels),
		EscrowsResolved:         prometheus.NewDesc("escrows_resolved", "", nil, labels),
		AmountDeposited:         prometheus.NewDesc("escrow_amount_deposited", "", nil, labels),
		AmountReleased:          prometheus.NewDesc("escrow_amount_released", "", nil, labels),
		AmountRefunded:          prometheus.NewDesc("escrow_amount_refunded", "", nil, labels),
		AmountResolved:          prometheus.NewDesc("escrow_amount_resolved", "", nil, labels),
		AverageSettledPerMinute: prometheus.NewDesc("average_escrows_settled_per_minute", "", nil, labels),

		OperationErrors: prometheus.NewDesc("error_operation", "", []string{"component", "kind"}, labels),

		WatcherLastPollTimestamp: prometheus.NewDesc("watcher_last_poll_timestamp", "", nil, labels),
		WatcherEscrowsPolled:     prometheus.NewDesc("watcher_escrows_polled", "", nil, labels),
		WatcherEscrowsSkipped:    prometheus.NewDesc("watcher_escrows_skipped", "", nil, labels),
		WatcherEscrowsReleased:   prometheus.NewDesc("watcher_escrows_released", "", nil, labels),
		WatcherPollError:         prometheus.NewDesc("error_watcher_poll", "", nil, labels),
		WatcherReleaseError:      prometheus.NewDesc("error_watcher_release", "", nil, labels),

		EventsQueued:  prometheus.NewDesc("events_queued", "", nil, labels),
		EventsDropped: prometheus.NewDesc("events_dropped", "", nil, labels),
		EventsLogged:  prometheus.NewDesc("events_logged", "", nil, labels),

		EventsPublished:     prometheus.NewDesc("events_published", "", nil, labels),
		EventPublishAttempt: prometheus.NewDesc("error_event_publish_attempt", "", nil, labels),
		EventsLost:          prometheus.NewDesc("error_events_lost", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.UpForSeconds

	ch <- self.MatchesCreated
	ch <- self.ConsumerAccepted
	ch <- self.Confirmed
	ch <- self.Rejected
	ch <- self.Completed

	ch <- self.EscrowsCreated
	ch <- self.EscrowsReleased
	ch <- self.EscrowsRefunded
	ch <- self.EscrowsDisputed
	ch <- self.EscrowsResolved
	ch <- self.AmountDeposited
	ch <- self.AmountReleased
	ch <- self.AmountRefunded
	ch <- self.AmountResolved
	ch <- self.AverageSettledPerMinute

	ch <- self.OperationErrors

	ch <- self.WatcherLastPollTimestamp
	ch <- self.WatcherEscrowsPolled
	ch <- self.WatcherEscrowsSkipped
	ch <- self.WatcherEscrowsReleased
	ch <- self.WatcherPollError
	ch <- self.WatcherReleaseError

	ch <- self.EventsQueued
	ch <- self.EventsDropped
	ch <- self.EventsLogged

	ch <- self.EventsPublished
	ch <- self.EventPublishAttempt
	ch <- self.EventsLost
}

func (self *Collector) counter(ch chan<- prometheus.Metric, desc *prometheus.Desc, value uint64, labels ...string) {
	ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(value), labels...)
}

// Collect implements required collect function for all prometheus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	r := &self.monitor.Report

	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(time.Now().Unix()-r.Run.State.StartTimestamp.Load()))

	self.counter(ch, self.MatchesCreated, r.Matching.State.MatchesCreated.Load())
	self.counter(ch, self.ConsumerAccepted, r.Matching.State.ConsumerAccepted.Load())
	self.counter(ch, self.Confirmed, r.Matching.State.Confirmed.Load())
	self.counter(ch, self.Rejected, r.Matching.State.Rejected.Load())
	self.counter(ch, self.Completed, r.Matching.State.Completed.Load())

	self.counter(ch, self.EscrowsCreated, r.Escrow.State.EscrowsCreated.Load())
	self.counter(ch, self.EscrowsReleased, r.Escrow.State.EscrowsReleased.Load())
	self.counter(ch, self.EscrowsRefunded, r.Escrow.State.EscrowsRefunded.Load())
	self.counter(ch, self.EscrowsDisputed, r.Escrow.State.EscrowsDisputed.Load())
	self.counter(ch, self.EscrowsResolved, r.Escrow.State.EscrowsResolved.Load())
	self.counter(ch, self.AmountDeposited, r.Escrow.State.AmountDeposited.Load())
	self.counter(ch, self.AmountReleased, r.Escrow.State.AmountReleased.Load())
	self.counter(ch, self.AmountRefunded, r.Escrow.State.AmountRefunded.Load())
	self.counter(ch, self.AmountResolved, r.Escrow.State.AmountResolved.Load())
	ch <- prometheus.MustNewConstMetric(self.AverageSettledPerMinute, prometheus.GaugeValue, r.Escrow.State.AverageSettledPerMinute.Load())

	for component, errors := range map[string]*report.OperationErrors{
		"matching": &r.Matching.Errors,
		"escrow":   &r.Escrow.Errors,
	} {
		self.counter(ch, self.OperationErrors, errors.Validation.Load(), component, "validation")
		self.counter(ch, self.OperationErrors, errors.Authorization.Load(), component, "authorization")
		self.counter(ch, self.OperationErrors, errors.State.Load(), component, "state")
		self.counter(ch, self.OperationErrors, errors.Transfer.Load(), component, "transfer")
		self.counter(ch, self.OperationErrors, errors.NotFound.Load(), component, "not_found")
		self.counter(ch, self.OperationErrors, errors.Internal.Load(), component, "internal")
	}

	ch <- prometheus.MustNewConstMetric(self.WatcherLastPollTimestamp, prometheus.GaugeValue, float64(r.Watcher.State.LastPollTimestamp.Load()))
	self.counter(ch, self.WatcherEscrowsPolled, r.Watcher.State.EscrowsPolled.Load())
	self.counter(ch, self.WatcherEscrowsSkipped, r.Watcher.State.EscrowsSkipped.Load())
	self.counter(ch, self.WatcherEscrowsReleased, r.Watcher.State.EscrowsReleased.Load())
	self.counter(ch, self.WatcherPollError, r.Watcher.Errors.PollError.Load())
	self.counter(ch, self.WatcherReleaseError, r.Watcher.Errors.ReleaseError.Load())

	self.counter(ch, self.EventsQueued, r.Notifier.State.EventsQueued.Load())
	self.counter(ch, self.EventsDropped, r.Notifier.State.EventsDropped.Load())
	self.counter(ch, self.EventsLogged, r.Notifier.State.EventsLogged.Load())

	self.counter(ch, self.EventsPublished, r.EventPublisher.State.EventsPublished.Load())
	self.counter(ch, self.EventPublishAttempt, r.EventPublisher.Errors.FailedAttempts.Load())
	self.counter(ch, self.EventsLost, r.EventPublisher.Errors.EventsLost.Load())
}
