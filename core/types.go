package core

import (
	"context"
	"maps"

	"github.com/google/uuid"
)

// UbootID identifies a uboot within an ocean.
type UbootID = string

// ChannelID names a channel. Uboots become members of a channel by
// registering at least one receiver or reducer on it.
type ChannelID = string

// SubscriptionKind tags what a Subscription registered.
type SubscriptionKind string

const (
	// KindReceiver marks a subscription created by Radio.Receive.
	KindReceiver SubscriptionKind = "receiver"
	// KindMutator marks a subscription created by Radio.Mutate.
	KindMutator SubscriptionKind = "mutator"
)

// String implements fmt.Stringer.
func (k SubscriptionKind) String() string { return string(k) }

// RadioConfig is free-form radio configuration set through Radio.Tune.
// The core only stores it; middleware may interpret individual keys.
type RadioConfig map[string]any

// Clone returns a shallow copy of the configuration.
func (c RadioConfig) Clone() RadioConfig {
	out := make(RadioConfig, len(c))
	maps.Copy(out, c)
	return out
}

// Merge returns a copy of c with the keys of other applied on top.
func (c RadioConfig) Merge(other RadioConfig) RadioConfig {
	out := c.Clone()
	maps.Copy(out, other)
	return out
}

// Bool reports the boolean value stored under key (false when absent or not a bool).
func (c RadioConfig) Bool(key string) bool {
	v, _ := c[key].(bool)
	return v
}

// Receiver is notified on every delivery to its uboot on its channel.
// It observes the receiving uboot, the sender and the message; it cannot
// change state. A non-nil error (or a panic) marks the delivery to this
// uboot as failed.
type Receiver func(ctx context.Context, me, sender Uboot, message any) error

// Reducer folds a message into a uboot state. The returned value replaces
// the state wholesale.
type Reducer func(state, message any) (any, error)

// NewID returns a random identifier used for subscriptions and results.
func NewID() string { return uuid.NewString() }
