package ocean

import (
	"slices"

	"github.com/hupe1980/uboot/core"
)

// chain applies middleware in registration order. Every hook receives the
// value produced by the previous middleware; a nil return keeps the previous
// value.
type chain []core.Middleware

func newChain(middleware []core.Middleware) chain {
	return slices.DeleteFunc(slices.Clone(middleware), func(m core.Middleware) bool { return m == nil })
}

func wrap[T any](c chain, v T, hook func(core.Middleware, T) T, valid func(T) bool) T {
	for _, m := range c {
		if next := hook(m, v); valid(next) {
			v = next
		}
	}
	return v
}

func (c chain) ocean(o core.Ocean) core.Ocean {
	return wrap(c, o, core.Middleware.WrapOcean, func(v core.Ocean) bool { return v != nil })
}

func (c chain) uboot(u core.Uboot) core.Uboot {
	return wrap(c, u, core.Middleware.WrapUboot, func(v core.Uboot) bool { return v != nil })
}

func (c chain) radio(r core.Radio) core.Radio {
	return wrap(c, r, core.Middleware.WrapRadio, func(v core.Radio) bool { return v != nil })
}

func (c chain) subscription(s core.Subscription) core.Subscription {
	return wrap(c, s, core.Middleware.WrapSubscription, func(v core.Subscription) bool { return v != nil })
}

func (c chain) receiver(r core.Receiver) core.Receiver {
	return wrap(c, r, core.Middleware.WrapReceiver, func(v core.Receiver) bool { return v != nil })
}

func (c chain) reducer(r core.Reducer) core.Reducer {
	return wrap(c, r, core.Middleware.WrapReducer, func(v core.Reducer) bool { return v != nil })
}
