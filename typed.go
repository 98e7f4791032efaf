package uboot

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hupe1980/uboot/core"
)

// Receive registers a receiver for messages of type M on radio. Deliveries
// carrying any other type fail for this uboot with core.ErrUnexpectedMessage.
// A nil message is accepted only when M is nilable (interface, pointer, map,
// slice, func or chan).
func Receive[M any](radio core.Radio, fn func(ctx context.Context, me, sender core.Uboot, message M) error) core.Subscription {
	if fn == nil {
		panic("uboot: nil receiver")
	}

	return radio.Receive(func(ctx context.Context, me, sender core.Uboot, message any) error {
		m, err := as[M](message, core.ErrUnexpectedMessage, false)
		if err != nil {
			return err
		}
		return fn(ctx, me, sender, m)
	})
}

// Mutate registers a reducer folding messages of type M into a state of
// type S. A nil state is treated as the zero value of S, so uboots created
// with a nil initial state can be reduced. Nil messages follow the rules of
// Receive. Mismatched messages fail with
// core.ErrUnexpectedMessage and mismatched states with
// core.ErrUnexpectedState; the state is left untouched in both cases.
func Mutate[S, M any](radio core.Radio, fn func(state S, message M) (S, error)) core.Subscription {
	if fn == nil {
		panic("uboot: nil reducer")
	}

	return radio.Mutate(func(state, message any) (any, error) {
		s, err := as[S](state, core.ErrUnexpectedState, true)
		if err != nil {
			return nil, err
		}
		m, err := as[M](message, core.ErrUnexpectedMessage, false)
		if err != nil {
			return nil, err
		}
		return fn(s, m)
	})
}

// State returns the state of u as S. A nil state yields the zero value.
func State[S any](u core.Uboot) (S, error) {
	return as[S](u.State(), core.ErrUnexpectedState, true)
}

// as asserts v to T. A nil v yields the zero value of T when zeroOnNil is
// set or T is nilable, and fails with sentinel otherwise.
func as[T any](v any, sentinel error, zeroOnNil bool) (T, error) {
	var zero T
	if v == nil {
		if zeroOnNil || nilable(reflect.TypeFor[T]()) {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: got nil, want %s", sentinel, reflect.TypeFor[T]())
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %s", sentinel, v, reflect.TypeFor[T]())
	}
	return t, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
