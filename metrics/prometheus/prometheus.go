// Package prometheus provides a Prometheus implementation of
// metrics.BusMetrics.
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/uboot/metrics"
)

// timer wraps a Prometheus histogram to implement the Timer interface.
type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) metrics.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

// Handlers run in process, so the buckets start well below a millisecond.
var defaultBuckets = []float64{
	.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1,
}

type busMetrics struct {
	ubootsCreated        prometheus.Counter
	radiosCreated        *prometheus.CounterVec
	subscriptionsTotal   *prometheus.CounterVec
	subscriptionsActive  *prometheus.GaugeVec
	deliveryDuration     *prometheus.HistogramVec
	deliveriesTotal      *prometheus.CounterVec
	deliveryTargetsTotal *prometheus.CounterVec
	handlerDuration      *prometheus.HistogramVec
	handlersTotal        *prometheus.CounterVec
}

// NewBusMetrics creates the bus metrics and registers them with reg.
// It panics if a metric is already registered, like MustRegister.
func NewBusMetrics(reg prometheus.Registerer) metrics.BusMetrics {
	m := &busMetrics{
		ubootsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uboot_uboots_created_total",
			Help: "Total number of uboots created",
		}),

		radiosCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uboot_radios_created_total",
			Help: "Total number of radios created",
		}, []string{"channel"}),

		subscriptionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uboot_subscriptions_total",
			Help: "Total number of subscription events",
		}, []string{"channel", "kind", "event"}),

		subscriptionsActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "uboot_subscriptions_active",
			Help: "Number of open subscriptions",
		}, []string{"channel", "kind"}),

		deliveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uboot_delivery_duration_seconds",
			Help:    "Time to deliver one message to every target, in seconds",
			Buckets: defaultBuckets,
		}, []string{"channel", "mode"}),

		deliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uboot_deliveries_total",
			Help: "Total number of send and broadcast calls",
		}, []string{"channel", "mode", "outcome"}),

		deliveryTargetsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uboot_delivery_targets_total",
			Help: "Total number of targets reached by deliveries",
		}, []string{"channel", "mode", "success"}),

		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uboot_handler_duration_seconds",
			Help:    "Receiver and reducer execution time in seconds",
			Buckets: defaultBuckets,
		}, []string{"kind"}),

		handlersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uboot_handlers_total",
			Help: "Total number of receiver and reducer invocations",
		}, []string{"kind", "success"}),
	}

	reg.MustRegister(
		m.ubootsCreated,
		m.radiosCreated,
		m.subscriptionsTotal,
		m.subscriptionsActive,
		m.deliveryDuration,
		m.deliveriesTotal,
		m.deliveryTargetsTotal,
		m.handlerDuration,
		m.handlersTotal,
	)

	return m
}

func (m *busMetrics) UbootCreated() {
	m.ubootsCreated.Inc()
}

func (m *busMetrics) RadioCreated(channel string) {
	m.radiosCreated.WithLabelValues(channel).Inc()
}

func (m *busMetrics) SubscriptionOpened(channel, kind string) {
	m.subscriptionsTotal.WithLabelValues(channel, kind, "opened").Inc()
	m.subscriptionsActive.WithLabelValues(channel, kind).Inc()
}

func (m *busMetrics) SubscriptionCancelled(channel, kind string) {
	m.subscriptionsTotal.WithLabelValues(channel, kind, "cancelled").Inc()
	m.subscriptionsActive.WithLabelValues(channel, kind).Dec()
}

func (m *busMetrics) DeliveryDuration(channel, mode string) metrics.Timer {
	return newTimer(m.deliveryDuration.WithLabelValues(channel, mode))
}

func (m *busMetrics) DeliveryCompleted(channel, mode string, delivered, failed int) {
	outcome := "ok"
	if failed > 0 {
		outcome = "partial"
	}
	m.deliveriesTotal.WithLabelValues(channel, mode, outcome).Inc()
	m.deliveryTargetsTotal.WithLabelValues(channel, mode, boolToStr(true)).Add(float64(delivered))
	m.deliveryTargetsTotal.WithLabelValues(channel, mode, boolToStr(false)).Add(float64(failed))
}

func (m *busMetrics) DeliveryRejected(channel, mode string) {
	m.deliveriesTotal.WithLabelValues(channel, mode, "rejected").Inc()
}

func (m *busMetrics) HandlerDuration(kind string) metrics.Timer {
	return newTimer(m.handlerDuration.WithLabelValues(kind))
}

func (m *busMetrics) HandlerCompleted(kind string, success bool) {
	m.handlersTotal.WithLabelValues(kind, boolToStr(success)).Inc()
}

func boolToStr(b bool) string { return strconv.FormatBool(b) }

var _ metrics.BusMetrics = (*busMetrics)(nil)
