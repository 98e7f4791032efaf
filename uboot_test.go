package uboot

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uboot/core"
	"github.com/hupe1980/uboot/internal/testutil"
	prommetrics "github.com/hupe1980/uboot/metrics/prometheus"
)

type counterState struct {
	Counter int
}

func TestNew_Defaults(t *testing.T) {
	o := New()
	require.NotNil(t, o)

	foo := o.Uboot("foo", nil)
	assert.Equal(t, "foo", foo.ID())
	assert.Nil(t, foo.State())
}

func TestNew_MetricsAreInnermost(t *testing.T) {
	reg := prometheus.NewRegistry()
	trace := &testutil.Trace{}

	o := New(func(o *Options) {
		o.Metrics = prommetrics.NewBusMetrics(reg)
		o.Middleware = []core.Middleware{testutil.NewRecorder("A", trace)}
	})

	_, ok := o.(*testutil.TracedOcean)
	require.True(t, ok, "user middleware wraps the metrics middleware")

	o.Uboot("foo", nil).Radio("x").Receive(testutil.Noop)
	_, err := o.Uboot("bar", nil).Radio("x").Broadcast(context.Background(), "hi")
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["uboot_uboots_created_total"])
	assert.True(t, names["uboot_deliveries_total"])
	assert.True(t, names["uboot_handlers_total"])
	assert.Equal(t, []string{"A:broadcast", "A:receive"}, trace.Events())
}

func TestReceive_Typed(t *testing.T) {
	ctx := context.Background()
	o := New()

	var got []string
	Receive(o.Uboot("foo", nil).Radio("x"), func(_ context.Context, me, sender core.Uboot, message string) error {
		got = append(got, sender.ID()+"->"+me.ID()+":"+message)
		return nil
	})

	bar := o.Uboot("bar", nil)

	res, err := bar.Radio("x").Send(ctx, "hello", "foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, res.Receivers)
	assert.Equal(t, []string{"bar->foo:hello"}, got)

	res, err = bar.Radio("x").Send(ctx, 42, "foo")
	require.NoError(t, err)
	assert.Empty(t, res.Receivers)
	assert.ErrorIs(t, res.Errors["foo"], core.ErrUnexpectedMessage)
	assert.Contains(t, res.Errors["foo"].Error(), "got int, want string")
}

func TestReceive_NilMessage(t *testing.T) {
	ctx := context.Background()
	o := New()

	var ints, ptrs, anys int
	Receive(o.Uboot("int", nil).Radio("x"), func(_ context.Context, _, _ core.Uboot, _ int) error {
		ints++
		return nil
	})
	Receive(o.Uboot("ptr", nil).Radio("x"), func(_ context.Context, _, _ core.Uboot, m *counterState) error {
		assert.Nil(t, m)
		ptrs++
		return nil
	})
	Receive(o.Uboot("any", nil).Radio("x"), func(_ context.Context, _, _ core.Uboot, m any) error {
		assert.Nil(t, m)
		anys++
		return nil
	})

	res, err := o.Uboot("bar", nil).Radio("x").Broadcast(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ptr", "any"}, res.Receivers)
	assert.ErrorIs(t, res.Errors["int"], core.ErrUnexpectedMessage)
	assert.Contains(t, res.Errors["int"].Error(), "got nil, want int")
	assert.Equal(t, 0, ints)
	assert.Equal(t, 1, ptrs)
	assert.Equal(t, 1, anys)
}

func TestMutate_NilMessageKeepsState(t *testing.T) {
	o := New()
	counter := o.Uboot("counter", 7)

	Mutate(counter.Radio("inc"), func(state, n int) (int, error) {
		return state + n, nil
	})

	res, err := o.Uboot("client", nil).Radio("inc").Send(context.Background(), nil, "counter")
	require.NoError(t, err)
	assert.ErrorIs(t, res.Errors["counter"], core.ErrUnexpectedMessage)

	n, err := State[int](counter)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestMutate_Typed(t *testing.T) {
	ctx := context.Background()
	o := New()

	foo := o.Uboot("foo", counterState{})
	bar := o.Uboot("bar", counterState{})
	zoo := o.Uboot("zoo", counterState{})

	sub := Mutate(zoo.Radio("x"), func(state counterState, n int) (counterState, error) {
		current, err := State[counterState](zoo)
		require.NoError(t, err)
		assert.Equal(t, state, current)

		state.Counter += n
		return state, nil
	})
	assert.Equal(t, core.KindMutator, sub.Kind())

	_, err := foo.Radio("x").Send(ctx, 2)
	require.NoError(t, err)
	_, err = bar.Radio("x").Send(ctx, 3)
	require.NoError(t, err)

	state, err := State[counterState](zoo)
	require.NoError(t, err)
	assert.Equal(t, counterState{Counter: 5}, state)

	res, err := foo.Radio("x").Send(ctx, "three")
	require.NoError(t, err)
	assert.ErrorIs(t, res.Errors["zoo"], core.ErrUnexpectedMessage)

	state, err = State[counterState](zoo)
	require.NoError(t, err)
	assert.Equal(t, counterState{Counter: 5}, state)
}

func TestMutate_NilStateIsZeroValue(t *testing.T) {
	o := New()
	counter := o.Uboot("counter", nil)

	Mutate(counter.Radio("inc"), func(state, n int) (int, error) {
		return state + n, nil
	})

	_, err := o.Uboot("client", nil).Radio("inc").Send(context.Background(), 2, "counter")
	require.NoError(t, err)

	n, err := State[int](counter)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMutate_UnexpectedState(t *testing.T) {
	o := New()
	foo := o.Uboot("foo", "not a counter")

	Mutate(foo.Radio("x"), func(state counterState, n int) (counterState, error) {
		state.Counter += n
		return state, nil
	})

	res, err := o.Uboot("bar", nil).Radio("x").Send(context.Background(), 1, "foo")
	require.NoError(t, err)
	assert.ErrorIs(t, res.Errors["foo"], core.ErrUnexpectedState)
	assert.Equal(t, "not a counter", foo.State())

	_, err = State[counterState](foo)
	assert.ErrorIs(t, err, core.ErrUnexpectedState)
}

func TestTyped_NilHandlersPanic(t *testing.T) {
	radio := New().Uboot("foo", nil).Radio("x")

	assert.Panics(t, func() { Receive[string](radio, nil) })
	assert.Panics(t, func() { Mutate[int, int](radio, nil) })
}

func TestBroadcast_FailureIsolation(t *testing.T) {
	o := New()
	foo := o.Uboot("foo", nil)
	bar := o.Uboot("bar", nil)
	zoo := o.Uboot("zoo", nil)

	received := map[string]string{}
	for _, u := range []core.Uboot{foo, zoo} {
		Receive(u.Radio("broadcast"), func(_ context.Context, me, _ core.Uboot, message string) error {
			received[me.ID()] = message
			return nil
		})
	}
	Receive(bar.Radio("broadcast"), func(context.Context, core.Uboot, core.Uboot, string) error {
		return errors.New("A generic error")
	})

	res, err := zoo.Radio("broadcast").Send(context.Background(), "hey broadcast")
	require.NoError(t, err)

	assert.Equal(t, "hey broadcast", res.Received)
	assert.Equal(t, []string{"foo", "zoo"}, res.Receivers)
	require.Len(t, res.Errors, 1)
	assert.EqualError(t, res.Errors["bar"], "A generic error")
	assert.Equal(t, map[string]string{"foo": "hey broadcast", "zoo": "hey broadcast"}, received)
}
