// Package metrics defines the instrumentation interface of the bus so that
// backends (Prometheus, StatsD, ...) can be plugged in without coupling the
// ocean to any of them.
package metrics

// Timer measures the duration of an operation. Call ObserveDuration when
// the operation completes to record the elapsed time.
type Timer interface {
	// ObserveDuration records the elapsed time since the timer was created.
	ObserveDuration()
}

// Delivery modes used as metric labels.
const (
	ModeSend      = "send"
	ModeBroadcast = "broadcast"
)

// BusMetrics is the set of metrics recorded by middleware.MetricsMiddleware.
// All methods are safe for concurrent use.
type BusMetrics interface {
	// Construction
	UbootCreated()
	RadioCreated(channel string)

	// Subscriptions; kind is "receiver" or "mutator"
	SubscriptionOpened(channel, kind string)
	SubscriptionCancelled(channel, kind string)

	// Deliveries; mode is ModeSend or ModeBroadcast
	DeliveryDuration(channel, mode string) Timer
	DeliveryCompleted(channel, mode string, delivered, failed int)
	DeliveryRejected(channel, mode string)

	// Handlers; kind is "receiver" or "mutator"
	HandlerDuration(kind string) Timer
	HandlerCompleted(kind string, success bool)
}

type nopTimer struct{}

func (nopTimer) ObserveDuration() {}

// NopTimer returns a no-op Timer.
func NopTimer() Timer { return nopTimer{} }

type nopBusMetrics struct{}

func (nopBusMetrics) UbootCreated()       {}
func (nopBusMetrics) RadioCreated(string) {}

func (nopBusMetrics) SubscriptionOpened(string, string)    {}
func (nopBusMetrics) SubscriptionCancelled(string, string) {}

func (nopBusMetrics) DeliveryDuration(string, string) Timer      { return NopTimer() }
func (nopBusMetrics) DeliveryCompleted(string, string, int, int) {}
func (nopBusMetrics) DeliveryRejected(string, string)            {}

func (nopBusMetrics) HandlerDuration(string) Timer  { return NopTimer() }
func (nopBusMetrics) HandlerCompleted(string, bool) {}

// NopBusMetrics returns a BusMetrics that records nothing.
func NopBusMetrics() BusMetrics { return nopBusMetrics{} }
