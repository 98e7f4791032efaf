package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uboot/core"
	"github.com/hupe1980/uboot/internal/testutil"
	"github.com/hupe1980/uboot/ocean"
)

func TestTuneMiddleware_Muted(t *testing.T) {
	ctx := context.Background()
	o := ocean.New(func(o *ocean.Options) {
		o.Middleware = []core.Middleware{NewTuneMiddleware()}
	})

	inbox := &testutil.Inbox{}
	o.Uboot("foo", nil).Radio("x").Receive(inbox.Receive)

	radio := o.Uboot("bar", nil).Radio("x")
	tuned := radio.Tune(core.RadioConfig{ConfigMuted: true})
	assert.Same(t, radio, tuned)

	_, err := radio.Send(ctx, "hello", "foo")
	require.ErrorIs(t, err, ErrMuted)
	assert.Contains(t, err.Error(), `"bar"`)

	_, err = radio.Broadcast(ctx, "hello")
	require.ErrorIs(t, err, ErrMuted)
	assert.Empty(t, inbox.Deliveries)

	radio.Tune(core.RadioConfig{ConfigMuted: false})

	res, err := radio.Send(ctx, "hello", "foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, res.Receivers)

	res, err = radio.Broadcast(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, res.Receivers)
	assert.Len(t, inbox.Deliveries, 2)
}

func TestTuneMiddleware_MutedRadioStillReceives(t *testing.T) {
	o := ocean.New(func(o *ocean.Options) {
		o.Middleware = []core.Middleware{NewTuneMiddleware()}
	})

	inbox := &testutil.Inbox{}
	o.Uboot("foo", nil).Radio("x").Tune(core.RadioConfig{ConfigMuted: true}).Receive(inbox.Receive)

	res, err := o.Uboot("bar", nil).Radio("x").Send(context.Background(), "hello", "foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, res.Receivers)
	assert.Len(t, inbox.Deliveries, 1)
}
