package loadgen

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Prometheus metric names.
const (
	MetricOrdersTotal          = "loadgen_orders_total"
	MetricOrderDurationSeconds = "loadgen_order_duration_seconds"
	MetricOrderErrorsTotal     = "loadgen_order_errors_total"
	MetricOrderLinesTotal      = "loadgen_order_lines_total"
)

// Metrics records webhook calls in a private Prometheus registry.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry   *prometheus.Registry
	orders     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	errors     *prometheus.CounterVec
	linesTotal prometheus.Counter
}

// NewMetrics creates the collectors and registers them
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricOrdersTotal,
			Help: "Orders sent to the webhook by HTTP status",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricOrderDurationSeconds,
			Help:    "Webhook response time",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"lvb"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricOrderErrorsTotal,
			Help: "Rejected orders by API error code",
		}, []string{"code"}),
		linesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricOrderLinesTotal,
			Help: "Product lines sent",
		}),
	}
	m.registry.MustRegister(m.orders, m.duration, m.errors, m.linesTotal)
	return m
}

// Observe records one webhook call. status 0 means the request never got a response.
func (m *Metrics) Observe(status int, errorCode string, lvb bool, lines int, elapsed time.Duration) {
	m.orders.WithLabelValues(statusLabel(status)).Inc()
	m.duration.WithLabelValues(strconv.FormatBool(lvb)).Observe(elapsed.Seconds())
	m.linesTotal.Add(float64(lines))
	if errorCode != "" {
		m.errors.WithLabelValues(errorCode).Inc()
	}
}

// Handler serves the metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Summary aggregates what was recorded so far
type Summary struct {
	Total    int64
	ByStatus map[string]int64
	ByError  map[string]int64
	Lines    int64
	// MeanLatency is zero when nothing was recorded
	MeanLatency time.Duration
}

// Summary reads the current values back from the registry
func (m *Metrics) Summary() (Summary, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return Summary{}, err
	}

	s := Summary{ByStatus: map[string]int64{}, ByError: map[string]int64{}}
	var count uint64
	var sum float64
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch family.GetName() {
			case MetricOrdersTotal:
				n := int64(metric.GetCounter().GetValue())
				s.ByStatus[labelValue(metric, "status")] += n
				s.Total += n
			case MetricOrderErrorsTotal:
				s.ByError[labelValue(metric, "code")] += int64(metric.GetCounter().GetValue())
			case MetricOrderLinesTotal:
				s.Lines += int64(metric.GetCounter().GetValue())
			case MetricOrderDurationSeconds:
				count += metric.GetHistogram().GetSampleCount()
				sum += metric.GetHistogram().GetSampleSum()
			}
		}
	}
	if count > 0 {
		s.MeanLatency = time.Duration(sum / float64(count) * float64(time.Second))
	}
	return s, nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

func statusLabel(status int) string {
	if status == 0 {
		return "transport_error"
	}
	return strconv.Itoa(status)
}
