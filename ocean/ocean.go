package ocean

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/uboot/core"
	"github.com/hupe1980/uboot/logging"
)

// Options configures an ocean using the functional options pattern.
//
// Example:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	o := ocean.New(func(o *ocean.Options) {
//	    o.Logger = logger
//	    o.Middleware = append(o.Middleware, middleware.NewLoggingMiddleware(logger))
//	})
type Options struct {
	// Middleware wraps every constructed object. Applied in order; each
	// middleware receives the output of the previous one.
	Middleware []core.Middleware

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger
}

// ocean is the registry behind core.Ocean.
//
// A single mutex guards the uboot map, the membership sets and, for every
// uboot, its radio cache, its owned subscriptions and the receiver/reducer
// lists of its radios. Middleware hooks and handlers never run while the
// mutex is held, so handlers may send, subscribe and cancel freely.
type ocean struct {
	mu      sync.Mutex
	uboots  map[string]*uboot     // by id
	members map[string]*memberSet // by channel id

	creating singleflight.Group // uboot creation, by id

	chain  chain
	logger logging.Logger
	handle core.Ocean
}

// New creates an empty ocean. The returned value is the ocean after it has
// passed through every middleware's WrapOcean hook.
func New(optFns ...func(o *Options)) core.Ocean {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	o := &ocean{
		uboots:  make(map[string]*uboot),
		members: make(map[string]*memberSet),
		chain:   newChain(opts.Middleware),
		logger:  opts.Logger,
	}
	o.handle = o.chain.ocean(o)

	return o.handle
}

// Uboot returns the uboot registered under id, creating it with
// initialState on first use. Concurrent first calls for the same id share
// one creation, so WrapUboot runs once per created uboot.
func (o *ocean) Uboot(id string, initialState any) core.Uboot {
	if u, ok := o.registered(id); ok {
		return u.handle
	}

	v, _, _ := o.creating.Do(id, func() (any, error) {
		if u, ok := o.registered(id); ok {
			return u, nil
		}

		u := newUboot(id, o, initialState)
		u.handle = o.chain.uboot(u)

		o.mu.Lock()
		o.uboots[id] = u
		o.mu.Unlock()

		o.logger.Debug("Uboot created", "uboot", id)

		return u, nil
	})

	return v.(*uboot).handle
}

func (o *ocean) registered(id string) (*uboot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	u, ok := o.uboots[id]
	return u, ok
}

// Sink closes every subscription owned by id and forgets the uboot. The
// subscriptions are closed under the lock; afterwards Cancel is called on
// every handle the middleware returned, so wrappers observe the closing.
func (o *ocean) Sink(id string) {
	o.mu.Lock()
	u, ok := o.uboots[id]
	if !ok {
		o.mu.Unlock()
		return
	}
	closed := u.closeAllSubscriptionsLocked()
	u.sunk = true
	delete(o.uboots, id)
	o.mu.Unlock()

	for _, handle := range closed {
		handle.Cancel()
	}

	o.logger.Debug("Uboot sunk", "uboot", id, "subscriptions", len(closed))
}

// Lookup returns the uboot registered under id.
func (o *ocean) Lookup(id string) (core.Uboot, bool) {
	u, ok := o.registered(id)
	if !ok {
		return nil, false
	}

	return u.handle, true
}

// Members returns the members of channelID in join order.
func (o *ocean) Members(channelID string) []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	set, ok := o.members[channelID]
	if !ok {
		return []string{}
	}

	return set.list()
}

// attachLocked makes id a member of channelID. Caller holds o.mu.
func (o *ocean) attachLocked(id, channelID string) {
	set, ok := o.members[channelID]
	if !ok {
		set = newMemberSet()
		o.members[channelID] = set
	}
	set.add(id)
}

// detachLocked removes id from channelID. Caller holds o.mu.
func (o *ocean) detachLocked(id, channelID string) {
	set, ok := o.members[channelID]
	if !ok {
		return
	}
	set.remove(id)
	if set.len() == 0 {
		delete(o.members, channelID)
	}
}

// send delivers message to the listed members of channelID.
func (o *ocean) send(ctx context.Context, channelID string, from *uboot, message any, to []string) (*core.Result, error) {
	return o.deliver(ctx, channelID, from, message, func(set *memberSet) []string {
		targets := make([]string, 0, len(to))
		seen := make(map[string]struct{}, len(to))
		for _, id := range to {
			if _, dup := seen[id]; dup || !set.has(id) {
				continue
			}
			seen[id] = struct{}{}
			targets = append(targets, id)
		}
		return targets
	})
}

// broadcast delivers message to every member of channelID.
func (o *ocean) broadcast(ctx context.Context, channelID string, from *uboot, message any) (*core.Result, error) {
	return o.deliver(ctx, channelID, from, message, (*memberSet).list)
}

func (o *ocean) deliver(
	ctx context.Context,
	channelID string,
	from *uboot,
	message any,
	selectTargets func(set *memberSet) []string,
) (*core.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	o.mu.Lock()
	if o.uboots[from.id] != from {
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownUboot, from.id)
	}
	var targets []string
	if set, ok := o.members[channelID]; ok {
		targets = selectTargets(set)
	}
	o.mu.Unlock()

	result := core.NewResult(channelID, from.id, message)

	for _, id := range targets {
		target, ok := o.resolve(id, channelID)
		if !ok {
			// left the channel while the delivery was in progress
			continue
		}

		if err := target.apply(ctx, message, from.handle); err != nil {
			o.logger.Warn("Delivery to uboot failed", "channel", channelID, "uboot", id, "error", err)
			result.RecordFailure(id, err)
			continue
		}

		result.RecordSuccess(id)
	}

	o.logger.Debug("Delivery completed",
		"channel", channelID,
		"sender", from.id,
		"delivered", len(result.Receivers),
		"failed", len(result.Errors),
		"duration", time.Since(start),
	)

	return result, nil
}

// resolve returns the radio of member id on channelID.
func (o *ocean) resolve(id, channelID string) (*radio, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	set, ok := o.members[channelID]
	if !ok || !set.has(id) {
		return nil, false
	}

	u, ok := o.uboots[id]
	if !ok {
		return nil, false
	}

	r, ok := u.radios[channelID]

	return r, ok
}

var _ core.Ocean = (*ocean)(nil)
