package middleware

import (
	"context"
	"fmt"

	"github.com/hupe1980/uboot/core"
)

// ConfigMuted is the RadioConfig key honoured by TuneMiddleware. A radio
// tuned with {"muted": true} refuses to send until it is tuned back.
const ConfigMuted = "muted"

// TuneMiddleware gives meaning to radio configuration set with Radio.Tune.
type TuneMiddleware struct {
	core.NoopMiddleware
}

// NewTuneMiddleware creates a tune middleware.
func NewTuneMiddleware() *TuneMiddleware { return &TuneMiddleware{} }

// WrapRadio checks the radio configuration before every Send and Broadcast.
func (m *TuneMiddleware) WrapRadio(radio core.Radio) core.Radio {
	return &tunedRadio{Radio: radio}
}

type tunedRadio struct {
	core.Radio
}

func (r *tunedRadio) Send(ctx context.Context, message any, to ...string) (*core.Result, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.Radio.Send(ctx, message, to...)
}

func (r *tunedRadio) Broadcast(ctx context.Context, message any) (*core.Result, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.Radio.Broadcast(ctx, message)
}

func (r *tunedRadio) check() error {
	if r.Config().Bool(ConfigMuted) {
		return fmt.Errorf("%w: uboot %q on channel %q", ErrMuted, r.UbootID(), r.ChannelID())
	}
	return nil
}

var _ core.Middleware = (*TuneMiddleware)(nil)
