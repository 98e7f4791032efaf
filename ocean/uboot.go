package ocean

import (
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/uboot/core"
)

type uboot struct {
	id     string
	ocean  *ocean
	handle core.Uboot

	stateMu  sync.RWMutex
	state    any
	reduceMu sync.Mutex // serializes reducer applications

	creating singleflight.Group // radio creation, by channel id

	// guarded by ocean.mu
	radios        map[string]*radio
	subscriptions []*subscription
	sunk          bool
}

func newUboot(id string, o *ocean, initialState any) *uboot {
	return &uboot{
		id:     id,
		ocean:  o,
		state:  initialState,
		radios: make(map[string]*radio),
	}
}

func (u *uboot) ID() string { return u.id }

func (u *uboot) State() any {
	u.stateMu.RLock()
	defer u.stateMu.RUnlock()
	return u.state
}

// Radio returns the cached radio for channelID, creating it through the
// middleware chain on first use. Concurrent first calls share one creation.
func (u *uboot) Radio(channelID string) core.Radio {
	if r, ok := u.cached(channelID); ok {
		return r.handle
	}

	v, _, _ := u.creating.Do(channelID, func() (any, error) {
		if r, ok := u.cached(channelID); ok {
			return r, nil
		}

		r := newRadio(channelID, u)
		r.handle = u.ocean.chain.radio(r)

		u.ocean.mu.Lock()
		u.radios[channelID] = r
		u.ocean.mu.Unlock()

		u.ocean.logger.Debug("Radio created", "uboot", u.id, "channel", channelID)

		return r, nil
	})

	return v.(*radio).handle
}

func (u *uboot) cached(channelID string) (*radio, bool) {
	u.ocean.mu.Lock()
	defer u.ocean.mu.Unlock()
	r, ok := u.radios[channelID]
	return r, ok
}

// applyReducer replaces the state with reducer(state, message). The state is
// left untouched when the reducer fails.
func (u *uboot) applyReducer(reducer core.Reducer, message any) error {
	u.reduceMu.Lock()
	defer u.reduceMu.Unlock()

	next, err := reducer(u.State(), message)
	if err != nil {
		return err
	}

	u.stateMu.Lock()
	u.state = next
	u.stateMu.Unlock()

	return nil
}

func (u *uboot) attachSubscriptionLocked(s *subscription) {
	u.subscriptions = append(u.subscriptions, s)
}

func (u *uboot) detachSubscriptionLocked(s *subscription) {
	u.subscriptions = slices.DeleteFunc(u.subscriptions, func(v *subscription) bool { return v == s })
}

// closeAllSubscriptionsLocked cancels every owned subscription and returns
// the handles of those it closed. Caller holds ocean.mu.
func (u *uboot) closeAllSubscriptionsLocked() []core.Subscription {
	var closed []core.Subscription
	for _, s := range slices.Clone(u.subscriptions) {
		if s.cancelLocked() {
			closed = append(closed, s.handle)
		}
	}
	return closed
}

var _ core.Uboot = (*uboot)(nil)
