package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK           = "ok"
	OutcomeError        = "error"
	OutcomeUnrecognized = "unrecognized"
	OutcomeNoHandler    = "no_handler"
	OutcomeRateLimited  = "rate_limited"
)

// Recorder holds the HOLMES collectors.
type Recorder struct {
	gatherer        prometheus.Gatherer
	alertsDetected  *prometheus.CounterVec
	actionsHandled  *prometheus.CounterVec
	slackCalls      *prometheus.CounterVec
	slackConnected  prometheus.Gauge
	socketConnected prometheus.Gauge
	dispatchSeconds *prometheus.HistogramVec
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// NewRecorder creates collectors and registers them with reg.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		gatherer: reg,
		alertsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holmes_alerts_detected_total",
			Help: "Alerts classified in monitored conversations, by category",
		}, []string{"category"}),
		actionsHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holmes_actions_total",
			Help: "Interactive actions dispatched, by action and outcome",
		}, []string{"action", "outcome"}),
		slackCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "holmes_slack_calls_total",
			Help: "Slack Web API calls, by method and outcome",
		}, []string{"method", "outcome"}),
		slackConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holmes_slack_connected",
			Help: "1 if the last auth.test probe succeeded",
		}),
		socketConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "holmes_socketmode_connected",
			Help: "1 while the Socket Mode connection is up",
		}),
		dispatchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "holmes_dispatch_duration_seconds",
			Help:    "Time spent handling one inbound Slack event, by kind",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	reg.MustRegister(r.alertsDetected, r.actionsHandled, r.slackCalls, r.slackConnected, r.socketConnected, r.dispatchSeconds)
	return r
}

// Init installs the process-wide recorder on a fresh registry that also
// carries the Go runtime and process collectors. Must be called once at
// startup; later calls are no-ops.
func Init() {
	recorderOnce.Do(func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = NewRecorder(reg)
	})
}

// Handler serves the exposition format for the process-wide recorder.
func Handler() http.Handler {
	if recorder == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(recorder.gatherer, promhttp.HandlerOpts{})
}

// RecordAlert counts a detected alert.
func RecordAlert(category string) {
	if recorder == nil {
		return
	}
	recorder.alertsDetected.WithLabelValues(category).Inc()
}

// RecordAction counts one interactive action outcome.
func RecordAction(action, outcome string) {
	if recorder == nil {
		return
	}
	recorder.actionsHandled.WithLabelValues(action, outcome).Inc()
}

// RecordSlackCall counts one Slack Web API call outcome.
func RecordSlackCall(method, outcome string) {
	if recorder == nil {
		return
	}
	recorder.slackCalls.WithLabelValues(method, outcome).Inc()
}

// SetSlackConnected records the result of the latest connection probe.
func SetSlackConnected(ok bool) {
	if recorder == nil {
		return
	}
	if ok {
		recorder.slackConnected.Set(1)
	} else {
		recorder.slackConnected.Set(0)
	}
}

// SetSocketModeConnected records Socket Mode connect and disconnect events.
func SetSocketModeConnected(ok bool) {
	if recorder == nil {
		return
	}
	if ok {
		recorder.socketConnected.Set(1)
	} else {
		recorder.socketConnected.Set(0)
	}
}

// ObserveDispatch records how long one inbound event took to handle.
func ObserveDispatch(kind string, seconds float64) {
	if recorder == nil {
		return
	}
	recorder.dispatchSeconds.WithLabelValues(kind).Observe(seconds)
}
