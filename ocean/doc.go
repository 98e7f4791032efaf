// Package ocean implements the in-process uboot registry.
//
// An ocean owns every uboot and the membership set of every channel. Uboots
// create radios lazily, one per channel; registering a receiver or reducer on
// a radio makes the uboot a member of that channel, cancelling its last
// registration removes it again.
//
// Delivery is synchronous. Radio.Send and Radio.Broadcast return only after
// every target has been processed; a failing target (error or panic) is
// recorded in the core.Result and never aborts delivery to the other targets.
//
// Every constructed object (the ocean itself, uboots, radios, subscriptions,
// receivers and reducers) passes through the configured middleware chain
// before it is handed to the caller. Each middleware wraps the output of the
// previous one.
//
// Example:
//
//	o := ocean.New()
//	foo := o.Uboot("foo", nil)
//	bar := o.Uboot("bar", nil)
//
//	foo.Radio("x").Receive(func(ctx context.Context, me, sender core.Uboot, msg any) error {
//	    fmt.Printf("%s got %v from %s\n", me.ID(), msg, sender.ID())
//	    return nil
//	})
//
//	res, err := bar.Radio("x").Send(ctx, "hello", "foo")
package ocean
