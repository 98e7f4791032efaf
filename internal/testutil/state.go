package testutil

import (
	"context"
	"fmt"

	"github.com/hupe1980/uboot/core"
)

// Counter is the state used by most reducer tests.
type Counter struct {
	Counter int
}

// AddReducer adds an int message to a Counter state.
func AddReducer(state, message any) (any, error) {
	s, ok := state.(Counter)
	if !ok {
		return nil, fmt.Errorf("%w: %T", core.ErrUnexpectedState, state)
	}
	n, ok := message.(int)
	if !ok {
		return nil, fmt.Errorf("%w: %T", core.ErrUnexpectedMessage, message)
	}
	s.Counter += n
	return s, nil
}

// Inbox is a receiver collecting every delivery it observes.
type Inbox struct {
	Deliveries []Delivery
}

// Delivery is one observed receiver call.
type Delivery struct {
	Me      core.Uboot
	Sender  core.Uboot
	Message any
}

// Receive implements core.Receiver.
func (i *Inbox) Receive(_ context.Context, me, sender core.Uboot, message any) error {
	i.Deliveries = append(i.Deliveries, Delivery{Me: me, Sender: sender, Message: message})
	return nil
}

// Failing returns a receiver that always fails with err.
func Failing(err error) core.Receiver {
	return func(context.Context, core.Uboot, core.Uboot, any) error { return err }
}

// Noop is a receiver doing nothing.
func Noop(context.Context, core.Uboot, core.Uboot, any) error { return nil }
