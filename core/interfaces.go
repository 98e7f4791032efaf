package core

import "context"

// Uboot is an addressable entity with an immutable id, a private state and
// one lazily created Radio per channel.
type Uboot interface {
	// ID returns the uboot identifier.
	ID() UbootID
	// State returns the current state snapshot. Callers must treat it as
	// read-only; reducers replace it wholesale.
	State() any
	// Radio returns the endpoint for channelID, creating it on first use.
	// The same channel always yields the same radio.
	Radio(channelID ChannelID) Radio
}

// Radio is the endpoint of one uboot on one channel.
type Radio interface {
	UbootID() UbootID
	ChannelID() ChannelID

	// Tune shallow-merges config into the stored configuration and returns
	// the radio for chaining.
	Tune(config RadioConfig) Radio
	// Config returns a copy of the stored configuration.
	Config() RadioConfig

	// Send delivers message on this channel. With to == nil the message is
	// broadcast to every member; otherwise only members listed in to
	// receive it (a non-nil empty list delivers to nobody).
	Send(ctx context.Context, message any, to ...UbootID) (*Result, error)
	// Broadcast delivers message to every current member of the channel.
	Broadcast(ctx context.Context, message any) (*Result, error)

	// Receive registers a receiver and makes the uboot a channel member.
	Receive(receiver Receiver) Subscription
	// Mutate registers a reducer and makes the uboot a channel member.
	Mutate(reducer Reducer) Subscription
}

// Subscription is the cancellable handle of one receiver or reducer
// registration. It starts open; Cancel closes it for good.
type Subscription interface {
	ID() string
	Kind() SubscriptionKind
	UbootID() UbootID
	ChannelID() ChannelID
	Open() bool
	// Cancel removes the registration. Calling it more than once is a no-op.
	Cancel()
}

// Ocean owns every uboot and the channel membership sets.
type Ocean interface {
	// Uboot returns the uboot for id, creating it with initialState when it
	// does not exist yet. The initial state of an existing uboot is kept.
	Uboot(id UbootID, initialState any) Uboot
	// Sink cancels every subscription owned by id and removes the uboot.
	// Unknown ids are ignored.
	Sink(id UbootID)
	// Lookup returns the uboot for id without creating it.
	Lookup(id UbootID) (Uboot, bool)
	// Members returns the current members of channelID in join order.
	Members(channelID ChannelID) []UbootID
}
