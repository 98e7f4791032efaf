package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uboot/core"
	"github.com/hupe1980/uboot/internal/testutil"
	"github.com/hupe1980/uboot/logging"
	"github.com/hupe1980/uboot/ocean"
)

func newBufferLogger(buf *bytes.Buffer, level logging.LogLevel) *logging.BusLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: "json",
		Output: buf,
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	o := ocean.New(func(o *ocean.Options) {
		o.Middleware = []core.Middleware{NewLoggingMiddleware(newBufferLogger(&buf, logging.LogLevelDebug))}
	})

	foo := o.Uboot("foo", testutil.Counter{})
	bar := o.Uboot("bar", nil)
	sub := foo.Radio("x").Mutate(testutil.AddReducer)
	bar.Radio("x").Receive(testutil.Failing(errors.New("A generic error")))

	_, err := o.Uboot("zoo", nil).Radio("x").Broadcast(context.Background(), 1)
	require.NoError(t, err)

	sub.Cancel()
	sub.Cancel()

	out := buf.String()
	assert.Contains(t, out, `"component":"middleware"`)
	assert.Contains(t, out, `"msg":"Uboot created"`)
	assert.Contains(t, out, `"msg":"Radio created"`)
	assert.Contains(t, out, `"msg":"Handler completed"`)
	assert.Contains(t, out, `"msg":"Handler failed"`)
	assert.Contains(t, out, `"error":"A generic error"`)
	assert.Contains(t, out, `"msg":"Delivery completed with failures"`)
	assert.Contains(t, out, `"delivered":1`)
	assert.Contains(t, out, `"failed":1`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"msg":"Subscription cancelled"`)))
}

func TestLoggingMiddleware_RejectedDelivery(t *testing.T) {
	var buf bytes.Buffer
	o := ocean.New(func(o *ocean.Options) {
		o.Middleware = []core.Middleware{NewLoggingMiddleware(newBufferLogger(&buf, logging.LogLevelWarn))}
	})

	radio := o.Uboot("ghost", nil).Radio("x")
	o.Sink("ghost")

	_, err := radio.Send(context.Background(), "boo", "foo")
	require.ErrorIs(t, err, core.ErrUnknownUboot)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Delivery rejected"`)
	assert.Contains(t, out, `"uboot_id":"ghost"`)
	assert.Contains(t, out, `"channel_id":"x"`)
	assert.NotContains(t, out, `"level":"DEBUG"`)
}

func TestLoggingMiddleware_NilLogger(t *testing.T) {
	m := NewLoggingMiddleware(nil)
	require.NotNil(t, m)

	o := ocean.New(func(o *ocean.Options) {
		o.Middleware = []core.Middleware{m}
	})
	o.Uboot("foo", nil).Radio("x").Receive(testutil.Noop)

	assert.NotPanics(t, func() {
		_, _ = o.Uboot("bar", nil).Radio("x").Broadcast(context.Background(), 1)
	})
}

func TestLoggingMiddleware_SinkLogsCancellation(t *testing.T) {
	var buf bytes.Buffer
	o := ocean.New(func(o *ocean.Options) {
		o.Middleware = []core.Middleware{NewLoggingMiddleware(newBufferLogger(&buf, logging.LogLevelDebug))}
	})

	sub := o.Uboot("foo", nil).Radio("x").Receive(testutil.Noop)
	o.Sink("foo")
	sub.Cancel()

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"msg":"Subscription cancelled"`)))
}

func TestLoggingMiddleware_PanickingReceiver(t *testing.T) {
	var buf bytes.Buffer
	o := ocean.New(func(o *ocean.Options) {
		o.Middleware = []core.Middleware{NewLoggingMiddleware(newBufferLogger(&buf, logging.LogLevelInfo))}
	})

	o.Uboot("foo", nil).Radio("x").Receive(func(context.Context, core.Uboot, core.Uboot, any) error {
		panic("receiver exploded")
	})

	res, err := o.Uboot("bar", nil).Radio("x").Broadcast(context.Background(), 1)
	require.NoError(t, err)

	var perr *core.PanicError
	require.ErrorAs(t, res.Errors["foo"], &perr)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Handler failed"`)
	assert.Contains(t, out, "receiver exploded")
	assert.NotContains(t, out, `"msg":"Handler completed"`)
}
