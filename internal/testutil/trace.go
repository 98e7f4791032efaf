package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/hupe1980/uboot/core"
)

// Trace collects events in the order they happen. Safe for concurrent use.
type Trace struct {
	mu     sync.Mutex
	events []string
}

// Add appends an event.
func (t *Trace) Add(event string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

// Events returns a copy of the recorded events.
func (t *Trace) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.events)
}

// Reset drops every recorded event.
func (t *Trace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

// Recorder is a middleware that counts hook invocations and wraps every
// object so that using it adds "<name>:<operation>" to a shared Trace
// before delegating. Stacking several recorders shows the wrapping order.
type Recorder struct {
	Name  string
	Trace *Trace

	mu    sync.Mutex
	hooks map[string]int
}

// NewRecorder creates a recorder writing into trace.
func NewRecorder(name string, trace *Trace) *Recorder {
	return &Recorder{Name: name, Trace: trace, hooks: map[string]int{}}
}

// Hooks returns how often hook ("ocean", "uboot", "radio", "subscription",
// "receiver", "reducer") was invoked.
func (r *Recorder) Hooks(hook string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hooks[hook]
}

func (r *Recorder) hook(name string) {
	r.mu.Lock()
	r.hooks[name]++
	r.mu.Unlock()
}

func (r *Recorder) add(op string) { r.Trace.Add(r.Name + ":" + op) }

// WrapOcean wraps o in a tracing Ocean.
func (r *Recorder) WrapOcean(o core.Ocean) core.Ocean {
	r.hook("ocean")
	return &TracedOcean{Ocean: o, rec: r}
}

// WrapUboot wraps u in a tracing Uboot.
func (r *Recorder) WrapUboot(u core.Uboot) core.Uboot {
	r.hook("uboot")
	return &TracedUboot{Uboot: u, rec: r}
}

// WrapRadio wraps radio in a tracing Radio.
func (r *Recorder) WrapRadio(radio core.Radio) core.Radio {
	r.hook("radio")
	return &TracedRadio{Radio: radio, rec: r}
}

// WrapSubscription wraps s in a tracing Subscription.
func (r *Recorder) WrapSubscription(s core.Subscription) core.Subscription {
	r.hook("subscription")
	return &TracedSubscription{Subscription: s, rec: r}
}

// WrapReceiver traces every receiver invocation.
func (r *Recorder) WrapReceiver(next core.Receiver) core.Receiver {
	r.hook("receiver")
	return func(ctx context.Context, me, sender core.Uboot, message any) error {
		r.add("receive")
		return next(ctx, me, sender, message)
	}
}

// WrapReducer traces every reducer invocation.
func (r *Recorder) WrapReducer(next core.Reducer) core.Reducer {
	r.hook("reducer")
	return func(state, message any) (any, error) {
		r.add("reduce")
		return next(state, message)
	}
}

// TracedOcean traces Lookup.
type TracedOcean struct {
	core.Ocean
	rec *Recorder
}

// Lookup implements core.Ocean.
func (o *TracedOcean) Lookup(id string) (core.Uboot, bool) {
	o.rec.add("lookup")
	return o.Ocean.Lookup(id)
}

// Inner returns the wrapped ocean.
func (o *TracedOcean) Inner() core.Ocean { return o.Ocean }

// TracedUboot traces State.
type TracedUboot struct {
	core.Uboot
	rec *Recorder
}

// State implements core.Uboot.
func (u *TracedUboot) State() any {
	u.rec.add("state")
	return u.Uboot.State()
}

// Inner returns the wrapped uboot.
func (u *TracedUboot) Inner() core.Uboot { return u.Uboot }

// TracedRadio traces Send and Broadcast.
type TracedRadio struct {
	core.Radio
	rec *Recorder
}

// Send implements core.Radio.
func (r *TracedRadio) Send(ctx context.Context, message any, to ...string) (*core.Result, error) {
	r.rec.add("send")
	return r.Radio.Send(ctx, message, to...)
}

// Broadcast implements core.Radio.
func (r *TracedRadio) Broadcast(ctx context.Context, message any) (*core.Result, error) {
	r.rec.add("broadcast")
	return r.Radio.Broadcast(ctx, message)
}

// Inner returns the wrapped radio.
func (r *TracedRadio) Inner() core.Radio { return r.Radio }

// TracedSubscription traces Cancel.
type TracedSubscription struct {
	core.Subscription
	rec *Recorder
}

// Cancel implements core.Subscription.
func (s *TracedSubscription) Cancel() {
	s.rec.add("cancel")
	s.Subscription.Cancel()
}

// Inner returns the wrapped subscription.
func (s *TracedSubscription) Inner() core.Subscription { return s.Subscription }

var _ core.Middleware = (*Recorder)(nil)
