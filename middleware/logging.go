package middleware

import (
	"context"
	"io"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/hupe1980/uboot/core"
	"github.com/hupe1980/uboot/logging"
)

// LoggingMiddleware writes structured logs through a logging.BusLogger:
//   - every send and broadcast, with delivered and failed counts (LogDelivery)
//   - every receiver and reducer invocation (LogHandler)
//   - subscription cancellation (including Ocean.Sink) and uboot/radio construction at debug level
type LoggingMiddleware struct {
	logger *logging.BusLogger
}

// NewLoggingMiddleware creates a logging middleware. A nil logger discards
// everything.
func NewLoggingMiddleware(logger *logging.BusLogger) *LoggingMiddleware {
	if logger == nil {
		logger = logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelError, Output: io.Discard})
	}
	return &LoggingMiddleware{logger: logger.WithComponent("middleware")}
}

// WrapOcean returns ocean unchanged.
func (m *LoggingMiddleware) WrapOcean(ocean core.Ocean) core.Ocean {
	m.logger.Debug("Ocean created")
	return ocean
}

// WrapUboot returns uboot unchanged.
func (m *LoggingMiddleware) WrapUboot(uboot core.Uboot) core.Uboot {
	m.logger.WithUboot(uboot.ID()).Debug("Uboot created")
	return uboot
}

// WrapRadio logs the outcome of every Send and Broadcast.
func (m *LoggingMiddleware) WrapRadio(radio core.Radio) core.Radio {
	logger := m.logger.WithUboot(radio.UbootID()).WithChannel(radio.ChannelID())
	logger.Debug("Radio created")
	return &loggingRadio{Radio: radio, logger: logger}
}

// WrapSubscription logs cancellation.
func (m *LoggingMiddleware) WrapSubscription(subscription core.Subscription) core.Subscription {
	logger := m.logger.WithUboot(subscription.UbootID()).WithChannel(subscription.ChannelID())
	return &loggingSubscription{Subscription: subscription, logger: logger}
}

// WrapReceiver logs every receiver invocation. A panic is logged as a
// *core.PanicError and then continues.
func (m *LoggingMiddleware) WrapReceiver(receiver core.Receiver) core.Receiver {
	return func(ctx context.Context, me, sender core.Uboot, message any) (err error) {
		start := time.Now()
		defer func() {
			v := recover()
			m.logger.LogHandler(core.KindReceiver.String(), me.ID(), time.Since(start), handlerErr(err, v))
			if v != nil {
				panic(v)
			}
		}()
		return receiver(ctx, me, sender, message)
	}
}

// WrapReducer logs every reducer invocation. Reducers do not know their
// uboot, so the log entry carries no uboot id.
func (m *LoggingMiddleware) WrapReducer(reducer core.Reducer) core.Reducer {
	return func(state, message any) (next any, err error) {
		start := time.Now()
		defer func() {
			v := recover()
			m.logger.LogHandler(core.KindMutator.String(), "", time.Since(start), handlerErr(err, v))
			if v != nil {
				panic(v)
			}
		}()
		return reducer(state, message)
	}
}

func handlerErr(err error, recovered any) error {
	if recovered != nil {
		return core.NewPanicError(recovered, debug.Stack())
	}
	return err
}

type loggingRadio struct {
	core.Radio
	logger *logging.BusLogger
}

func (r *loggingRadio) Send(ctx context.Context, message any, to ...string) (*core.Result, error) {
	start := time.Now()
	result, err := r.Radio.Send(ctx, message, to...)
	r.log(result, err, time.Since(start))
	return result, err
}

func (r *loggingRadio) Broadcast(ctx context.Context, message any) (*core.Result, error) {
	start := time.Now()
	result, err := r.Radio.Broadcast(ctx, message)
	r.log(result, err, time.Since(start))
	return result, err
}

func (r *loggingRadio) log(result *core.Result, err error, dur time.Duration) {
	if err != nil {
		r.logger.Warn("Delivery rejected", "error", err.Error(), "duration", dur)
		return
	}
	r.logger.LogDelivery(result.Channel, result.Sender, len(result.Receivers), len(result.Errors), dur)
}

type loggingSubscription struct {
	core.Subscription
	logger *logging.BusLogger
	logged atomic.Bool
}

func (s *loggingSubscription) Cancel() {
	s.Subscription.Cancel()
	if s.logged.CompareAndSwap(false, true) {
		s.logger.Debug("Subscription cancelled", "kind", s.Kind(), "subscription", s.ID())
	}
}

var _ core.Middleware = (*LoggingMiddleware)(nil)
