package core

import "errors"

// Result is the outcome of one send or broadcast call.
//
// Receivers and the keys of Errors are disjoint and together cover every
// target that was attempted. Errors is nil when no target failed.
type Result struct {
	ID        string
	Channel   ChannelID
	Sender    UbootID
	Received  any
	Receivers []UbootID
	Errors    map[UbootID]error

	failed []UbootID
}

// NewResult creates an empty result for message.
func NewResult(channelID ChannelID, sender UbootID, message any) *Result {
	return &Result{
		ID:        NewID(),
		Channel:   channelID,
		Sender:    sender,
		Received:  message,
		Receivers: []UbootID{},
	}
}

// RecordSuccess appends id to the success list.
func (r *Result) RecordSuccess(id UbootID) {
	r.Receivers = append(r.Receivers, id)
}

// RecordFailure stores err under id.
func (r *Result) RecordFailure(id UbootID, err error) {
	if r.Errors == nil {
		r.Errors = make(map[UbootID]error)
	}
	if _, seen := r.Errors[id]; !seen {
		r.failed = append(r.failed, id)
	}
	r.Errors[id] = err
}

// Failed reports whether at least one target failed.
func (r *Result) Failed() bool { return len(r.Errors) > 0 }

// Attempted returns the number of targets the delivery reached.
func (r *Result) Attempted() int { return len(r.Receivers) + len(r.Errors) }

// Err joins the per-target failures, in attempt order, into one error.
// It returns nil when every target succeeded.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.failed))
	for _, id := range r.failed {
		errs = append(errs, &DeliveryError{UbootID: id, Err: r.Errors[id]})
	}
	return errors.Join(errs...)
}
