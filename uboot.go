// Package uboot is an embeddable, in-process publish/subscribe and reducer
// bus. Named participants (uboots) live in an ocean, talk over named
// channels through radios and keep a state that reducers fold messages into.
//
// Most applications interact with this package by:
//  1. Creating an ocean via New() (optionally with middleware, logging and metrics)
//  2. Creating uboots with Ocean.Uboot and subscribing with Receive/Mutate
//  3. Sending with Radio.Send (targeted) or Radio.Broadcast
//
// Delivery is synchronous: Send returns after every target has run its
// receivers and reducers, and the returned core.Result lists which targets
// succeeded and which failed.
//
// Example:
//
//	o := uboot.New()
//	counter := o.Uboot("counter", 0)
//	uboot.Mutate(counter.Radio("inc"), func(state, n int) (int, error) {
//	    return state + n, nil
//	})
//
//	_, _ = o.Uboot("client", nil).Radio("inc").Send(ctx, 2, "counter")
//	n, _ := uboot.State[int](counter) // 2
package uboot

import (
	"github.com/hupe1980/uboot/core"
	"github.com/hupe1980/uboot/logging"
	"github.com/hupe1980/uboot/metrics"
	"github.com/hupe1980/uboot/middleware"
	"github.com/hupe1980/uboot/ocean"
)

// Options configures an ocean created with New.
type Options struct {
	// Middleware wraps every object the ocean hands out. Applied in order;
	// each middleware receives the output of the previous one.
	Middleware []core.Middleware

	// Logger receives the ocean's own debug and warning logs.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger

	// Metrics, when set, installs a middleware.MetricsMiddleware as the
	// innermost middleware.
	Metrics metrics.BusMetrics
}

// New creates an empty ocean.
func New(optFns ...func(o *Options)) core.Ocean {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	chain := make([]core.Middleware, 0, len(opts.Middleware)+1)
	if opts.Metrics != nil {
		chain = append(chain, middleware.NewMetricsMiddleware(opts.Metrics))
	}
	chain = append(chain, opts.Middleware...)

	return ocean.New(func(o *ocean.Options) {
		o.Middleware = chain
		o.Logger = opts.Logger
	})
}
