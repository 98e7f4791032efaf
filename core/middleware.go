package core

// Middleware intercepts object construction. Every hook receives the
// freshly built (or previously wrapped) object and returns the object the
// caller will see. Hooks are applied in registration order, each one
// receiving the result of the previous hook.
//
// Wrappers should delegate to the wrapped value; the ocean keeps its own
// reference to the unwrapped implementation for delivery and teardown.
type Middleware interface {
	WrapOcean(ocean Ocean) Ocean
	WrapUboot(uboot Uboot) Uboot
	WrapRadio(radio Radio) Radio
	WrapSubscription(subscription Subscription) Subscription
	WrapReceiver(receiver Receiver) Receiver
	WrapReducer(reducer Reducer) Reducer
}

// NoopMiddleware returns every object unchanged. Embed it to implement only
// the hooks a middleware cares about.
type NoopMiddleware struct{}

// WrapOcean returns ocean unchanged.
func (NoopMiddleware) WrapOcean(ocean Ocean) Ocean { return ocean }

// WrapUboot returns uboot unchanged.
func (NoopMiddleware) WrapUboot(uboot Uboot) Uboot { return uboot }

// WrapRadio returns radio unchanged.
func (NoopMiddleware) WrapRadio(radio Radio) Radio { return radio }

// WrapSubscription returns subscription unchanged.
func (NoopMiddleware) WrapSubscription(subscription Subscription) Subscription {
	return subscription
}

// WrapReceiver returns receiver unchanged.
func (NoopMiddleware) WrapReceiver(receiver Receiver) Receiver { return receiver }

// WrapReducer returns reducer unchanged.
func (NoopMiddleware) WrapReducer(reducer Reducer) Reducer { return reducer }

var _ Middleware = NoopMiddleware{}
