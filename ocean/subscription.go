package ocean

import (
	"sync/atomic"

	"github.com/hupe1980/uboot/core"
)

type subscription struct {
	id        string
	kind      core.SubscriptionKind
	ubootID   string
	channelID string
	ocean     *ocean
	handle    core.Subscription // after middleware

	open    atomic.Bool
	cleanup func() // runs once, with ocean.mu held
}

func newSubscription(kind core.SubscriptionKind, ubootID, channelID string, o *ocean) *subscription {
	s := &subscription{
		id:        core.NewID(),
		kind:      kind,
		ubootID:   ubootID,
		channelID: channelID,
		ocean:     o,
	}
	s.open.Store(true)
	return s
}

func (s *subscription) ID() string                  { return s.id }
func (s *subscription) Kind() core.SubscriptionKind { return s.kind }
func (s *subscription) UbootID() string             { return s.ubootID }
func (s *subscription) ChannelID() string           { return s.channelID }
func (s *subscription) Open() bool                  { return s.open.Load() }

// Cancel closes the subscription. Only the first call has an effect.
func (s *subscription) Cancel() {
	s.ocean.mu.Lock()
	closed := s.cancelLocked()
	s.ocean.mu.Unlock()

	if closed {
		s.ocean.logger.Debug("Subscription cancelled", "uboot", s.ubootID, "channel", s.channelID, "kind", s.kind, "subscription", s.id)
	}
}

func (s *subscription) cancelLocked() bool {
	if !s.open.CompareAndSwap(true, false) {
		return false
	}
	if s.cleanup != nil {
		s.cleanup()
	}
	return true
}

var _ core.Subscription = (*subscription)(nil)
