package ocean

import (
	"context"
	"runtime/debug"
	"slices"

	"github.com/hupe1980/uboot/core"
)

type receiverEntry struct{ fn core.Receiver }

type reducerEntry struct{ fn core.Reducer }

type radio struct {
	channelID string
	uboot     *uboot
	handle    core.Radio

	// guarded by ocean.mu
	config    core.RadioConfig
	receivers []*receiverEntry
	reducers  []*reducerEntry
}

func newRadio(channelID string, u *uboot) *radio {
	return &radio{
		channelID: channelID,
		uboot:     u,
		config:    core.RadioConfig{},
	}
}

func (r *radio) UbootID() string   { return r.uboot.id }
func (r *radio) ChannelID() string { return r.channelID }

// Tune merges config into the radio configuration.
func (r *radio) Tune(config core.RadioConfig) core.Radio {
	o := r.uboot.ocean
	o.mu.Lock()
	r.config = r.config.Merge(config)
	o.mu.Unlock()
	return r.handle
}

func (r *radio) Config() core.RadioConfig {
	o := r.uboot.ocean
	o.mu.Lock()
	defer o.mu.Unlock()
	return r.config.Clone()
}

// Send broadcasts when to is nil and performs a targeted send otherwise.
func (r *radio) Send(ctx context.Context, message any, to ...string) (*core.Result, error) {
	if to == nil {
		return r.uboot.ocean.broadcast(ctx, r.channelID, r.uboot, message)
	}
	return r.uboot.ocean.send(ctx, r.channelID, r.uboot, message, to)
}

func (r *radio) Broadcast(ctx context.Context, message any) (*core.Result, error) {
	return r.uboot.ocean.broadcast(ctx, r.channelID, r.uboot, message)
}

func (r *radio) Receive(receiver core.Receiver) core.Subscription {
	if receiver == nil {
		panic("uboot: nil receiver")
	}

	entry := &receiverEntry{fn: r.uboot.ocean.chain.receiver(receiver)}

	return r.subscribe(core.KindReceiver,
		func() { r.receivers = append(r.receivers, entry) },
		func() { r.receivers = slices.DeleteFunc(r.receivers, func(e *receiverEntry) bool { return e == entry }) },
	)
}

func (r *radio) Mutate(reducer core.Reducer) core.Subscription {
	if reducer == nil {
		panic("uboot: nil reducer")
	}

	entry := &reducerEntry{fn: r.uboot.ocean.chain.reducer(reducer)}

	return r.subscribe(core.KindMutator,
		func() { r.reducers = append(r.reducers, entry) },
		func() { r.reducers = slices.DeleteFunc(r.reducers, func(e *reducerEntry) bool { return e == entry }) },
	)
}

// subscribe registers an entry via add and returns the subscription whose
// cancellation runs remove. Both callbacks run with ocean.mu held. The
// subscription passes through the middleware before it is registered, so
// its handle is known to Sink.
func (r *radio) subscribe(kind core.SubscriptionKind, add, remove func()) core.Subscription {
	o := r.uboot.ocean
	u := r.uboot

	s := newSubscription(kind, u.id, r.channelID, o)
	s.cleanup = func() {
		remove()
		// a sunk and recreated id must keep the new uboot's membership
		if len(r.receivers) == 0 && len(r.reducers) == 0 && o.uboots[u.id] == u {
			o.detachLocked(u.id, r.channelID)
		}
		u.detachSubscriptionLocked(s)
	}
	s.handle = o.chain.subscription(s)

	o.mu.Lock()
	if u.sunk {
		o.mu.Unlock()
		s.handle.Cancel()
		o.logger.Warn("Subscription on sunk uboot ignored", "uboot", u.id, "channel", r.channelID, "kind", kind)
		return s.handle
	}
	add()
	o.attachLocked(u.id, r.channelID)
	u.attachSubscriptionLocked(s)
	o.mu.Unlock()

	o.logger.Debug("Subscription opened", "uboot", u.id, "channel", r.channelID, "kind", kind, "subscription", s.id)

	return s.handle
}

// apply runs every receiver, then every reducer, in registration order. The
// first failure stops the remaining handlers of this radio only. Panics are
// recovered into *core.PanicError.
func (r *radio) apply(ctx context.Context, message any, sender core.Uboot) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = core.NewPanicError(v, debug.Stack())
		}
	}()

	o := r.uboot.ocean
	o.mu.Lock()
	receivers := slices.Clone(r.receivers)
	reducers := slices.Clone(r.reducers)
	o.mu.Unlock()

	me := r.uboot.handle

	for _, e := range receivers {
		if err := e.fn(ctx, me, sender, message); err != nil {
			return err
		}
	}

	for _, e := range reducers {
		if err := r.uboot.applyReducer(e.fn, message); err != nil {
			return err
		}
	}

	return nil
}

var _ core.Radio = (*radio)(nil)
