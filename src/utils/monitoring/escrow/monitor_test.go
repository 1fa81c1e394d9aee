package monitor_escrow

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/warp-contracts/escrow/src/utils/config"
	"github.com/warp-contracts/escrow/src/utils/fault"
)

func TestMonitorTestSuite(t *testing.T) {
	suite.Run(t, new(MonitorTestSuite))
}

type MonitorTestSuite struct {
	suite.Suite
	monitor *Monitor
}

func (s *MonitorTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.monitor = NewMonitor(config.Default())
}

func (s *MonitorTestSuite) TestAverageSettled() {
	s.monitor.WithMaxHistorySize(2)
	require.NoError(s.T(), s.monitor.monitorSettlements())

	s.monitor.Report.Escrow.State.EscrowsReleased.Add(3)
	s.monitor.Report.Escrow.State.EscrowsRefunded.Add(1)
	require.NoError(s.T(), s.monitor.monitorSettlements())
	require.Equal(s.T(), 2.0, s.monitor.Report.Escrow.State.AverageSettledPerMinute.Load())

	// Oldest sample falls out of the window
	require.NoError(s.T(), s.monitor.monitorSettlements())
	require.Equal(s.T(), 2, s.monitor.SettledCounts.Len())
	require.Equal(s.T(), 0.0, s.monitor.Report.Escrow.State.AverageSettledPerMinute.Load())
}

func (s *MonitorTestSuite) TestHealth() {
	require.True(s.T(), s.monitor.IsOK())

	s.monitor.Report.Watcher.Errors.ReleaseError.Add(10)
	require.False(s.T(), s.monitor.IsOK())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	s.monitor.OnGetHealth(c)
	require.Equal(s.T(), http.StatusServiceUnavailable, w.Code)

	s.monitor.Report.Watcher.State.EscrowsReleased.Inc()
	require.True(s.T(), s.monitor.IsOK())
}

func (s *MonitorTestSuite) TestState() {
	s.monitor.Report.Matching.State.MatchesCreated.Inc()
	s.monitor.Report.Escrow.Errors.Inc(fault.New(fault.Transfer, "insufficient funds"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	s.monitor.OnGetState(c)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(s.T(), body, "matching")
	require.Contains(s.T(), body, "escrow")
}

func (s *MonitorTestSuite) TestCollector() {
	s.monitor.Report.Escrow.State.EscrowsCreated.Add(4)
	s.monitor.Report.Escrow.Errors.Inc(fault.New(fault.Authorization, "unauthorized"))

	registry := prometheus.NewRegistry()
	require.NoError(s.T(), registry.Register(s.monitor.GetPrometheusCollector()))

	count, err := testutil.GatherAndCount(registry, "escrows_created", "error_operation")
	require.NoError(s.T(), err)
	// One escrow counter and six kinds for both components
	require.Equal(s.T(), 13, count)
}

func (s *MonitorTestSuite) TestEventPublisherMetrics() {
	s.monitor.Report.EventPublisher.State.EventsPublished.Add(3)
	s.monitor.Report.EventPublisher.Errors.EventsLost.Inc()

	registry := prometheus.NewRegistry()
	require.NoError(s.T(), registry.Register(s.monitor.GetPrometheusCollector()))

	count, err := testutil.GatherAndCount(registry, "events_published", "error_event_publish_attempt", "error_events_lost")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, count)

	state, err := json.Marshal(s.monitor.GetReport())
	require.NoError(s.T(), err)
	require.Contains(s.T(), string(state), `"event_publisher":{"state":{"events_published":3`)
	require.Contains(s.T(), string(state), `"events_lost":1`)
}
