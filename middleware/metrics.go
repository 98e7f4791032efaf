package middleware

import (
	"context"
	"sync/atomic"

	"github.com/hupe1980/uboot/core"
	"github.com/hupe1980/uboot/metrics"
)

// MetricsMiddleware records metrics.BusMetrics for every object the ocean
// hands out. Every subscription is counted as cancelled exactly once,
// whether it is closed by Cancel or by Ocean.Sink. Handlers that panic are
// recorded as failed before the panic continues.
type MetricsMiddleware struct {
	metrics metrics.BusMetrics
}

// NewMetricsMiddleware creates a metrics middleware. A nil m records nothing.
func NewMetricsMiddleware(m metrics.BusMetrics) *MetricsMiddleware {
	if m == nil {
		m = metrics.NopBusMetrics()
	}
	return &MetricsMiddleware{metrics: m}
}

// WrapOcean returns ocean unchanged.
func (m *MetricsMiddleware) WrapOcean(ocean core.Ocean) core.Ocean { return ocean }

// WrapUboot counts created uboots.
func (m *MetricsMiddleware) WrapUboot(uboot core.Uboot) core.Uboot {
	m.metrics.UbootCreated()
	return uboot
}

// WrapRadio counts created radios and instruments Send and Broadcast.
func (m *MetricsMiddleware) WrapRadio(radio core.Radio) core.Radio {
	m.metrics.RadioCreated(radio.ChannelID())
	return &metricsRadio{Radio: radio, metrics: m.metrics}
}

// WrapSubscription counts opened and cancelled subscriptions.
func (m *MetricsMiddleware) WrapSubscription(subscription core.Subscription) core.Subscription {
	m.metrics.SubscriptionOpened(subscription.ChannelID(), subscription.Kind().String())
	return &metricsSubscription{Subscription: subscription, metrics: m.metrics}
}

// WrapReceiver times every receiver invocation.
func (m *MetricsMiddleware) WrapReceiver(receiver core.Receiver) core.Receiver {
	kind := core.KindReceiver.String()
	return func(ctx context.Context, me, sender core.Uboot, message any) (err error) {
		timer := m.metrics.HandlerDuration(kind)
		defer func() {
			v := recover()
			timer.ObserveDuration()
			m.metrics.HandlerCompleted(kind, err == nil && v == nil)
			if v != nil {
				panic(v)
			}
		}()
		return receiver(ctx, me, sender, message)
	}
}

// WrapReducer times every reducer invocation.
func (m *MetricsMiddleware) WrapReducer(reducer core.Reducer) core.Reducer {
	kind := core.KindMutator.String()
	return func(state, message any) (next any, err error) {
		timer := m.metrics.HandlerDuration(kind)
		defer func() {
			v := recover()
			timer.ObserveDuration()
			m.metrics.HandlerCompleted(kind, err == nil && v == nil)
			if v != nil {
				panic(v)
			}
		}()
		return reducer(state, message)
	}
}

type metricsRadio struct {
	core.Radio
	metrics metrics.BusMetrics
}

func (r *metricsRadio) Send(ctx context.Context, message any, to ...string) (*core.Result, error) {
	mode := metrics.ModeSend
	if to == nil {
		mode = metrics.ModeBroadcast
	}
	timer := r.metrics.DeliveryDuration(r.ChannelID(), mode)
	result, err := r.Radio.Send(ctx, message, to...)
	timer.ObserveDuration()
	r.record(mode, result, err)
	return result, err
}

func (r *metricsRadio) Broadcast(ctx context.Context, message any) (*core.Result, error) {
	timer := r.metrics.DeliveryDuration(r.ChannelID(), metrics.ModeBroadcast)
	result, err := r.Radio.Broadcast(ctx, message)
	timer.ObserveDuration()
	r.record(metrics.ModeBroadcast, result, err)
	return result, err
}

func (r *metricsRadio) record(mode string, result *core.Result, err error) {
	if err != nil {
		r.metrics.DeliveryRejected(r.ChannelID(), mode)
		return
	}
	r.metrics.DeliveryCompleted(r.ChannelID(), mode, len(result.Receivers), len(result.Errors))
}

type metricsSubscription struct {
	core.Subscription
	metrics metrics.BusMetrics
	counted atomic.Bool
}

func (s *metricsSubscription) Cancel() {
	s.Subscription.Cancel()
	if s.counted.CompareAndSwap(false, true) {
		s.metrics.SubscriptionCancelled(s.ChannelID(), s.Kind().String())
	}
}

var _ core.Middleware = (*MetricsMiddleware)(nil)
