package middleware

import "github.com/hupe1980/uboot/core"

// FunctionMiddleware adapts plain functions to core.Middleware.
//
// Hooks left nil return their input unchanged, so only the interesting
// hooks need to be set.
//
// Example:
//
//	audit := &middleware.FunctionMiddleware{
//	    OnReceiver: func(next core.Receiver) core.Receiver {
//	        return func(ctx context.Context, me, sender core.Uboot, msg any) error {
//	            log.Printf("%s -> %s: %v", sender.ID(), me.ID(), msg)
//	            return next(ctx, me, sender, msg)
//	        }
//	    },
//	}
type FunctionMiddleware struct {
	OnOcean        func(core.Ocean) core.Ocean
	OnUboot        func(core.Uboot) core.Uboot
	OnRadio        func(core.Radio) core.Radio
	OnSubscription func(core.Subscription) core.Subscription
	OnReceiver     func(core.Receiver) core.Receiver
	OnReducer      func(core.Reducer) core.Reducer
}

// WrapOcean calls OnOcean.
func (m *FunctionMiddleware) WrapOcean(ocean core.Ocean) core.Ocean {
	if m.OnOcean == nil {
		return ocean
	}
	return m.OnOcean(ocean)
}

// WrapUboot calls OnUboot.
func (m *FunctionMiddleware) WrapUboot(uboot core.Uboot) core.Uboot {
	if m.OnUboot == nil {
		return uboot
	}
	return m.OnUboot(uboot)
}

// WrapRadio calls OnRadio.
func (m *FunctionMiddleware) WrapRadio(radio core.Radio) core.Radio {
	if m.OnRadio == nil {
		return radio
	}
	return m.OnRadio(radio)
}

// WrapSubscription calls OnSubscription.
func (m *FunctionMiddleware) WrapSubscription(subscription core.Subscription) core.Subscription {
	if m.OnSubscription == nil {
		return subscription
	}
	return m.OnSubscription(subscription)
}

// WrapReceiver calls OnReceiver.
func (m *FunctionMiddleware) WrapReceiver(receiver core.Receiver) core.Receiver {
	if m.OnReceiver == nil {
		return receiver
	}
	return m.OnReceiver(receiver)
}

// WrapReducer calls OnReducer.
func (m *FunctionMiddleware) WrapReducer(reducer core.Reducer) core.Reducer {
	if m.OnReducer == nil {
		return reducer
	}
	return m.OnReducer(reducer)
}

var _ core.Middleware = (*FunctionMiddleware)(nil)
